package dbctx

import (
	"context"
	"testing"

	"gorm.io/gorm"
)

type ctxKey struct{}

func TestContextDefaults(t *testing.T) {
	var zero Context
	if zero.Context() == nil {
		t.Fatalf("expected background context for zero value")
	}
	if zero.InTx() {
		t.Fatalf("zero value must not report a transaction")
	}

	parent := context.WithValue(context.Background(), ctxKey{}, "v")
	c := Context{Ctx: parent, Tx: &gorm.DB{}}
	if got := c.Context().Value(ctxKey{}); got != "v" {
		t.Fatalf("context not preserved: %v", got)
	}
	if !c.InTx() {
		t.Fatalf("expected InTx with a transaction")
	}
}
