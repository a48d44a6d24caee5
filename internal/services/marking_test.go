package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/gorm"

	"github.com/yungbote/metaman/internal/data/repos"
	"github.com/yungbote/metaman/internal/data/repos/testutil"
	types "github.com/yungbote/metaman/internal/domain"
	"github.com/yungbote/metaman/internal/domain/marking"
	"github.com/yungbote/metaman/internal/platform/ctxutil"
	"github.com/yungbote/metaman/internal/platform/dbctx"
	"github.com/yungbote/metaman/internal/requestdata"
)

func newTestMarkingService(t *testing.T) (*markingService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewMarkingService(db, log, repos.NewMarkingRepo(db, log), uuid.MustParse("00000000-0000-0000-0000-0000000000aa"))
	return svc.(*markingService), db
}

func mustMarking(t *testing.T, name, typ, def string) marking.NewMarking {
	t.Helper()
	nm, err := marking.ParseNewMarking(marking.RawMarking{Name: name, DefinitionType: typ, Definition: def})
	if err != nil {
		t.Fatalf("ParseNewMarking: %v", err)
	}
	return nm
}

func TestMarkingServiceCreateStoresCanonicalStrings(t *testing.T) {
	svc, db := newTestMarkingService(t)
	tx := testutil.Tx(t, db)
	fixed := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	author := uuid.New()
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: author})

	got, err := svc.Create(dbctx.Context{Ctx: ctx, Tx: tx}, mustMarking(t, "tlp_red", "TLP", "TLP Red"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if got.Name != "tlp_red" || got.DefinitionType != "tlp" || got.Definition != "TLP Red" {
		t.Fatalf("unexpected row: %+v", got)
	}
	if got.CreatedBy != author {
		t.Fatalf("created_by: got=%s want=%s", got.CreatedBy, author)
	}
	if !got.CreatedAt.Equal(fixed) {
		t.Fatalf("created_at: got=%s want=%s", got.CreatedAt, fixed)
	}

	var stored types.Marking
	if err := tx.First(&stored, "id = ?", got.ID).Error; err != nil {
		t.Fatalf("load stored: %v", err)
	}
	if stored.DefinitionType != "tlp" {
		t.Fatalf("stored type: %q", stored.DefinitionType)
	}
}

func TestMarkingServiceCreateFallsBackToDefaultAuthor(t *testing.T) {
	svc, db := newTestMarkingService(t)
	tx := testutil.Tx(t, db)

	got, err := svc.Create(dbctx.Context{Ctx: context.Background(), Tx: tx}, mustMarking(t, "a", "statement", "x"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.CreatedBy != svc.defaultAuthor {
		t.Fatalf("created_by: got=%s want=%s", got.CreatedBy, svc.defaultAuthor)
	}
}

func TestMarkingServiceCreateRejectsZeroMarking(t *testing.T) {
	svc, _ := newTestMarkingService(t)
	if _, err := svc.Create(dbctx.Context{Ctx: context.Background()}, marking.NewMarking{}); err == nil {
		t.Fatalf("expected error for zero marking")
	}
}

func TestMarkingServiceGetAndList(t *testing.T) {
	if os.Getenv("TEST_POSTGRES_DSN") != "" {
		t.Skip("counts rows, needs the private sqlite database")
	}
	svc, _ := newTestMarkingService(t)
	ctx := context.Background()

	red, err := svc.Create(dbctx.Context{Ctx: ctx}, mustMarking(t, "tlp_red", "tlp", "TLP Red"))
	if err != nil {
		t.Fatalf("Create red: %v", err)
	}
	if _, err := svc.Create(dbctx.Context{Ctx: ctx}, mustMarking(t, "copyright", "statement", "Copyright 2024")); err != nil {
		t.Fatalf("Create statement: %v", err)
	}

	got, err := svc.Get(ctx, red.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "tlp_red" {
		t.Fatalf("Get: unexpected row %+v", got)
	}

	if _, err := svc.Get(ctx, uuid.New()); !errors.Is(err, ErrMarkingNotFound) {
		t.Fatalf("Get missing: expected ErrMarkingNotFound, got %v", err)
	}

	tlp, _ := marking.ParseDefinitionType("tlp")
	rows, total, err := svc.List(ctx, MarkingListQuery{DefinitionType: tlp})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != red.ID {
		t.Fatalf("List: total=%d rows=%+v", total, rows)
	}

	rows, total, err = svc.List(ctx, MarkingListQuery{})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("List all: total=%d rows=%d", total, len(rows))
	}
}

type flakyMarkingRepo struct {
	repos.MarkingRepo
	failures int
	calls    int
	err      error
}

func (r *flakyMarkingRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Marking) ([]*types.Marking, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, r.err
	}
	return r.MarkingRepo.Create(ctx, tx, rows)
}

func TestMarkingServiceCreateRetriesRetryableErrors(t *testing.T) {
	svc, db := newTestMarkingService(t)
	tx := testutil.Tx(t, db)
	flaky := &flakyMarkingRepo{MarkingRepo: repos.NewMarkingRepo(tx, testutil.Logger(t)), failures: 2, err: &pgconn.PgError{Code: "40001"}}
	svc.repo = flaky
	svc.retryBackoff = 0

	got, err := svc.Create(dbctx.Context{Ctx: context.Background()}, mustMarking(t, "tlp_clear", "tlp", "TLP Clear"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if flaky.calls != 3 || got.Name != "tlp_clear" {
		t.Fatalf("calls=%d row=%+v", flaky.calls, got)
	}
}

func TestMarkingServiceCreateDoesNotRetry(t *testing.T) {
	cases := []struct {
		name string
		tx   bool
		err  error
	}{
		{"non retryable", false, &pgconn.PgError{Code: "23505"}},
		{"caller transaction", true, &pgconn.PgError{Code: "40P01"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, db := newTestMarkingService(t)
			flaky := &flakyMarkingRepo{MarkingRepo: svc.repo, failures: createAttempts, err: tc.err}
			svc.repo = flaky
			svc.retryBackoff = 0

			dbc := dbctx.Context{Ctx: context.Background()}
			if tc.tx {
				dbc.Tx = testutil.Tx(t, db)
			}
			if _, err := svc.Create(dbc, mustMarking(t, "a", "tlp", "b")); err == nil {
				t.Fatalf("expected error")
			}
			if flaky.calls != 1 {
				t.Fatalf("calls: got=%d want=1", flaky.calls)
			}
		})
	}
}

func TestMarkingServiceCreateTagsRequestID(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))

	svc, db := newTestMarkingService(t)
	tx := testutil.Tx(t, db)
	ctx := ctxutil.WithTraceData(context.Background(), &ctxutil.TraceData{TraceID: "t-1", RequestID: "req-42"})

	if _, err := svc.Create(dbctx.Context{Ctx: ctx, Tx: tx}, mustMarking(t, "tlp_red", "tlp", "TLP Red")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, span := range sr.Ended() {
		if span.Name() != "MarkingService.Create" {
			continue
		}
		for _, kv := range span.Attributes() {
			if kv.Key == "request.id" && kv.Value.AsString() == "req-42" {
				return
			}
		}
		t.Fatalf("request.id missing from %v", span.Attributes())
	}
	t.Fatalf("no MarkingService.Create span recorded")
}

func TestClampLimit(t *testing.T) {
	cases := map[int]int{-1: DefaultListLimit, 0: DefaultListLimit, 10: 10, MaxListLimit + 1: MaxListLimit}
	for in, want := range cases {
		if got := clampLimit(in); got != want {
			t.Fatalf("clampLimit(%d): got=%d want=%d", in, got, want)
		}
	}
}
