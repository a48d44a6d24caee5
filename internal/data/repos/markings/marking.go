package markings

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/metaman/internal/domain"
	"github.com/yungbote/metaman/internal/platform/logger"
)

type ListFilter struct {
	DefinitionType string
	Limit          int
	Offset         int
}

type MarkingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Marking) ([]*types.Marking, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Marking, error)
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*types.Marking, error)
	Count(ctx context.Context, tx *gorm.DB, filter ListFilter) (int64, error)
}

type markingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMarkingRepo(db *gorm.DB, baseLog *logger.Logger) MarkingRepo {
	repoLog := baseLog.With("repo", "MarkingRepo")
	return &markingRepo{db: db, log: repoLog}
}

func (r *markingRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Marking) ([]*types.Marking, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Marking{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns gorm.ErrRecordNotFound when no marking has id.
func (r *markingRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Marking, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Marking
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *markingRepo) filtered(ctx context.Context, tx *gorm.DB, filter ListFilter) *gorm.DB {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.Marking{})
	if dt := strings.TrimSpace(filter.DefinitionType); dt != "" {
		q = q.Where("definition_type = ?", dt)
	}
	return q
}

func (r *markingRepo) List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*types.Marking, error) {
	q := r.filtered(ctx, tx, filter).Order("created_at DESC").Order("id")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var results []*types.Marking
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *markingRepo) Count(ctx context.Context, tx *gorm.DB, filter ListFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, tx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
