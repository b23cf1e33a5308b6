// Package authctx propagates the authenticated identity through request
// contexts. The bearer middleware stores it; handlers retrieve it.
package authctx

import (
	"context"
	"errors"

	"github.com/vida-academica/backend/auth"
)

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var identityKey = contextKey{}

// ErrNoIdentity is returned when no identity is present in the context.
var ErrNoIdentity = errors.New("authctx: no identity in context")

// Set stores the authenticated identity in the context.
func Set(ctx context.Context, ident *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// Get retrieves the authenticated identity from the context.
func Get(ctx context.Context) (*auth.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*auth.Identity)
	return ident, ok && ident != nil
}

// GetOrError retrieves the identity, returning ErrNoIdentity if missing.
func GetOrError(ctx context.Context) (*auth.Identity, error) {
	ident, ok := Get(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}
	return ident, nil
}
