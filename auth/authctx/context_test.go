package authctx

import (
	"context"
	"errors"
	"testing"

	"github.com/vida-academica/backend/auth"
)

func TestSetGet(t *testing.T) {
	ident := &auth.Identity{RA: "1110482329666", Username: "joao123"}
	ctx := Set(context.Background(), ident)

	got, ok := Get(ctx)
	if !ok {
		t.Fatal("identity not found after Set")
	}
	if got.RA != ident.RA {
		t.Errorf("RA = %s, want %s", got.RA, ident.RA)
	}

	fromErr, err := GetOrError(ctx)
	if err != nil {
		t.Fatalf("GetOrError: %v", err)
	}
	if fromErr != got {
		t.Error("GetOrError returned a different identity")
	}
}

func TestEmptyContext(t *testing.T) {
	if _, ok := Get(context.Background()); ok {
		t.Error("Get on empty context reported an identity")
	}
	if _, err := GetOrError(context.Background()); !errors.Is(err, ErrNoIdentity) {
		t.Errorf("GetOrError = %v, want ErrNoIdentity", err)
	}
}

func TestNilIdentityNotStored(t *testing.T) {
	ctx := Set(context.Background(), nil)
	if _, ok := Get(ctx); ok {
		t.Error("nil identity reported as present")
	}
}
