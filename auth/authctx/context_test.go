package authctx

import (
	"context"
	"errors"
	"testing"
)

type claims struct{ Subject string }

func TestSetGet(t *testing.T) {
	ctx := Set(context.Background(), &claims{Subject: "user-1"})

	got, ok := Get[*claims](ctx)
	if !ok || got.Subject != "user-1" {
		t.Fatalf("expected claims, got %v %v", got, ok)
	}
	if _, ok := Get[string](ctx); ok {
		t.Error("expected wrong type to miss")
	}
}

func TestGetOrError(t *testing.T) {
	if _, err := GetOrError[*claims](context.Background()); !errors.Is(err, ErrNoClaims) {
		t.Errorf("expected ErrNoClaims, got %v", err)
	}
}
