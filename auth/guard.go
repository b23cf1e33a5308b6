package auth

import (
	"context"
	"errors"

	"github.com/vida-academica/backend/auth/token"
	apperrors "github.com/vida-academica/backend/errors"
)

// Guard resolves the caller's identity from an access token and answers
// ownership-check queries. Token validation is a pure signature+expiry check;
// the only I/O is the identity lookup.
type Guard struct {
	codec *token.Codec
	store CredentialStore
}

// NewGuard creates a Guard.
func NewGuard(codec *token.Codec, store CredentialStore) *Guard {
	return &Guard{codec: codec, store: store}
}

// Authenticate decodes an access token and resolves its subject to a full
// identity. Every failure, including an identity deleted after the token was
// issued, returns UNAUTHENTICATED.
func (g *Guard) Authenticate(ctx context.Context, accessToken string) (*Identity, error) {
	claims, err := g.codec.Decode(accessToken, token.KindAccess)
	if err != nil {
		return nil, apperrors.Unauthenticated().WithCause(err)
	}

	ident, err := g.store.FindByRA(ctx, claims.RA())
	if errors.Is(err, ErrIdentityNotFound) {
		return nil, apperrors.Unauthenticated()
	}
	if err != nil {
		return nil, apperrors.Database("find_by_ra", err)
	}
	return ident, nil
}

// CheckOwnership reports whether the identity owns a record keyed by ownerRA.
// Callers must reject with FORBIDDEN on false before any mutating or
// single-record read operation.
func (g *Guard) CheckOwnership(ident *Identity, ownerRA string) bool {
	return ident != nil && ident.RA == ownerRA
}
