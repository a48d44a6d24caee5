package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/metaman/internal/domain"
)

func SeedMarking(tb testing.TB, ctx context.Context, tx *gorm.DB, name, definitionType string, createdAt time.Time) *types.Marking {
	tb.Helper()
	m := &types.Marking{
		ID:             uuid.New(),
		Name:           name,
		DefinitionType: definitionType,
		Definition:     "seeded " + name,
		CreatedBy:      uuid.New(),
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed marking: %v", err)
	}
	return m
}
