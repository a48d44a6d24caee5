// Package dberr classifies storage failures so callers can log and map them
// without knowing which driver produced them.
package dberr

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodePreconditionFailed Code = "precondition_failed"
	CodeRetryable          Code = "retryable"
	CodeCanceled           Code = "canceled"
	CodeInternal           Code = "internal"
)

// Classify maps err onto a Code. A nil error yields "".
func Classify(err error) Code {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return CodeNotFound
	case errors.Is(err, context.Canceled):
		return CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return CodeRetryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return CodeConflict // unique_violation
		case "23503":
			return CodePreconditionFailed // foreign_key_violation
		case "40001", "40P01", "55P03", "57P01":
			return CodeRetryable // serialization/deadlock/lock_not_available/admin_shutdown
		}
		if strings.HasPrefix(pgErr.Code, "08") {
			return CodeRetryable // connection exception class
		}
		return CodeInternal
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"):
		return CodeConflict
	case strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"):
		return CodeRetryable
	}
	return CodeInternal
}

func IsNotFound(err error) bool { return Classify(err) == CodeNotFound }

func IsRetryable(err error) bool { return Classify(err) == CodeRetryable }
