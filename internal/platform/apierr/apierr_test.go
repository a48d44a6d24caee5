package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsUnwrapsWrappedError(t *testing.T) {
	inner := BadRequest("invalid_marking", errors.New("bad name"))
	wrapped := fmt.Errorf("create: %w", inner)

	got := As(wrapped, "fallback")
	if got.Status != http.StatusBadRequest || got.Code != "invalid_marking" {
		t.Fatalf("unexpected error: %+v", got)
	}
	if got.Error() != "bad name" {
		t.Fatalf("unexpected message: %q", got.Error())
	}
}

func TestAsFallsBackToInternal(t *testing.T) {
	got := As(errors.New("boom"), "marking_create_failed")
	if got.Status != http.StatusInternalServerError || got.Code != "marking_create_failed" {
		t.Fatalf("unexpected error: %+v", got)
	}
}

func TestErrorMessageFallbacks(t *testing.T) {
	if got := New(http.StatusNotFound, "not_found", nil).Error(); got != "not_found" {
		t.Fatalf("code fallback: %q", got)
	}
	if got := New(http.StatusTeapot, "", nil).Error(); got != "api error (418)" {
		t.Fatalf("status fallback: %q", got)
	}
}
