package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yungbote/metaman/internal/data/dberr"
	"github.com/yungbote/metaman/internal/data/repos"
	types "github.com/yungbote/metaman/internal/domain"
	"github.com/yungbote/metaman/internal/domain/marking"
	"github.com/yungbote/metaman/internal/platform/ctxutil"
	"github.com/yungbote/metaman/internal/platform/dbctx"
	"github.com/yungbote/metaman/internal/platform/logger"
	"github.com/yungbote/metaman/internal/requestdata"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200

	createAttempts = 3
)

var ErrMarkingNotFound = errors.New("marking not found")

var tracer = otel.Tracer("github.com/yungbote/metaman/internal/services")

type MarkingListQuery struct {
	// DefinitionType is optional; the zero value lists every type.
	DefinitionType marking.DefinitionType
	Limit          int
	Offset         int
}

type MarkingService interface {
	Create(dbc dbctx.Context, nm marking.NewMarking) (*types.Marking, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Marking, error)
	List(ctx context.Context, q MarkingListQuery) ([]*types.Marking, int64, error)
}

type markingService struct {
	db            *gorm.DB
	log           *logger.Logger
	repo          repos.MarkingRepo
	defaultAuthor uuid.UUID
	now           func() time.Time
	newID         func() uuid.UUID
	retryBackoff  time.Duration
}

func NewMarkingService(db *gorm.DB, baseLog *logger.Logger, repo repos.MarkingRepo, defaultAuthor uuid.UUID) MarkingService {
	return &markingService{
		db:            db,
		log:           baseLog.With("service", "MarkingService"),
		repo:          repo,
		defaultAuthor: defaultAuthor,
		now:           time.Now,
		newID:         uuid.New,
		retryBackoff:  50 * time.Millisecond,
	}
}

func (s *markingService) author(ctx context.Context) uuid.UUID {
	if id := requestdata.UserID(ctx); id != uuid.Nil {
		return id
	}
	return s.defaultAuthor
}

func requestID(ctx context.Context) string {
	if td := ctxutil.GetTraceData(ctx); td != nil {
		return td.RequestID
	}
	return ""
}

// Create stores nm with a fresh id, the current time and the caller as author.
// Retryable storage errors are retried unless the caller owns the transaction.
func (s *markingService) Create(dbc dbctx.Context, nm marking.NewMarking) (*types.Marking, error) {
	ctx, span := tracer.Start(dbc.Context(), "MarkingService.Create")
	defer span.End()

	if nm.IsZero() {
		return nil, fmt.Errorf("create marking: empty marking")
	}

	now := s.now().UTC()
	row := &types.Marking{
		ID:             s.newID(),
		Name:           nm.Name().String(),
		DefinitionType: nm.DefinitionType().String(),
		Definition:     nm.Definition().String(),
		CreatedBy:      s.author(ctx),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	reqID := requestID(ctx)
	span.SetAttributes(
		attribute.String("marking.id", row.ID.String()),
		attribute.String("marking.definition_type", row.DefinitionType),
		attribute.String("request.id", reqID),
	)

	var (
		created []*types.Marking
		err     error
	)
	for attempt := 1; ; attempt++ {
		created, err = s.repo.Create(ctx, dbc.Tx, []*types.Marking{row})
		if err == nil || dbc.InTx() || attempt >= createAttempts || !dberr.IsRetryable(err) {
			break
		}
		s.log.Warn("marking insert retrying", "error", err, "attempt", attempt, "marking_id", row.ID, "request_id", reqID)
		select {
		case <-ctx.Done():
		case <-time.After(s.retryBackoff * time.Duration(attempt)):
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		code := dberr.Classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		s.log.Error("marking insert failed", "error", err, "db_code", code, "name", row.Name, "request_id", reqID)
		return nil, fmt.Errorf("create marking: %w", err)
	}
	s.log.Info("marking created",
		"marking_id", row.ID,
		"name", row.Name,
		"created_by", row.CreatedBy,
		"request_id", reqID,
	)
	return created[0], nil
}

func (s *markingService) Get(ctx context.Context, id uuid.UUID) (*types.Marking, error) {
	ctx, span := tracer.Start(ctx, "MarkingService.Get")
	defer span.End()

	m, err := s.repo.GetByID(ctx, nil, id)
	if dberr.IsNotFound(err) {
		return nil, ErrMarkingNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get marking: %w", err)
	}
	return m, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

func (s *markingService) List(ctx context.Context, q MarkingListQuery) ([]*types.Marking, int64, error) {
	ctx, span := tracer.Start(ctx, "MarkingService.List")
	defer span.End()

	filter := repos.MarkingListFilter{
		DefinitionType: q.DefinitionType.String(),
		Limit:          clampLimit(q.Limit),
		Offset:         max(q.Offset, 0),
	}
	rows, err := s.repo.List(ctx, nil, filter)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("list markings: %w", err)
	}
	total, err := s.repo.Count(ctx, nil, filter)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("count markings: %w", err)
	}
	return rows, total, nil
}
