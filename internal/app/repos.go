package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/metaman/internal/data/repos"
	"github.com/yungbote/metaman/internal/platform/logger"
)

type Repos struct {
	Marking repos.MarkingRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Marking: repos.NewMarkingRepo(db, log),
	}
}
