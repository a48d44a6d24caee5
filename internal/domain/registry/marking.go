package registry

import (
	"time"

	"github.com/google/uuid"
)

// Marking is a stored marking. Name, DefinitionType and Definition hold the
// canonical string forms of a parsed marking.NewMarking.
type Marking struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"column:name;not null;index" json:"name"`
	DefinitionType string    `gorm:"column:definition_type;not null;index" json:"definition_type"`
	Definition     string    `gorm:"column:definition;not null" json:"definition"`
	CreatedBy      uuid.UUID `gorm:"type:uuid;column:created_by;not null" json:"created_by"`
	CreatedAt      time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (Marking) TableName() string { return "markings" }
