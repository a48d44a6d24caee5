package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/metaman/internal/platform/logger"
	"github.com/yungbote/metaman/internal/requestdata"
)

func TestAuthServiceRoundTrip(t *testing.T) {
	as := NewAuthService(logger.Nop(), "test-secret")
	userID := uuid.New()

	token, err := as.IssueToken(userID, time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	ctx, err := as.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if got := requestdata.UserID(ctx); got != userID {
		t.Fatalf("user id: got=%s want=%s", got, userID)
	}
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	as := NewAuthService(logger.Nop(), "test-secret")
	other := NewAuthService(logger.Nop(), "other-secret")

	foreign, err := other.IssueToken(uuid.New(), time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	expired, err := as.IssueToken(uuid.New(), -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	for name, token := range map[string]string{
		"garbage": "not-a-token",
		"foreign": foreign,
		"expired": expired,
	} {
		if _, err := as.SetContextFromToken(context.Background(), token); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestAuthServiceDisabled(t *testing.T) {
	as := NewAuthService(logger.Nop(), "")
	if as.Enabled() {
		t.Fatalf("expected disabled")
	}
	if _, err := as.IssueToken(uuid.New(), time.Minute); !errors.Is(err, ErrAuthDisabled) {
		t.Fatalf("IssueToken: expected ErrAuthDisabled, got %v", err)
	}
	ctx, err := as.SetContextFromToken(context.Background(), "")
	if err != nil || requestdata.GetRequestData(ctx) != nil {
		t.Fatalf("empty token must be a no-op: %v", err)
	}
}
