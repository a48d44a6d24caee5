package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/metaman/internal/data/repos/markings"
	"github.com/yungbote/metaman/internal/platform/logger"
)

type MarkingRepo = markings.MarkingRepo
type MarkingListFilter = markings.ListFilter

func NewMarkingRepo(db *gorm.DB, baseLog *logger.Logger) MarkingRepo {
	return markings.NewMarkingRepo(db, baseLog)
}
