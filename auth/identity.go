// Package auth implements credential verification, dual-token issuance with
// refresh rotation, and per-record ownership checks. Everything else in the
// service calls into it to learn who the caller is and what they may touch.
package auth

import (
	"context"
	"errors"
)

// ErrIdentityNotFound is returned by CredentialStore lookups that match no
// identity.
var ErrIdentityNotFound = errors.New("auth: identity not found")

// Identity is the authenticated subject. RA is the registration number that
// keys ownership of every protected record.
type Identity struct {
	ID           uint
	RA           string
	Nome         string
	Email        string
	Username     string
	PasswordHash string
}

// CredentialStore resolves identities for login and token validation.
// Implementations decide whether an identifier matches username or email;
// the core only cares that it gets the first match.
type CredentialStore interface {
	// FindByLogin looks up an identity by login identifier (username or
	// email). Returns ErrIdentityNotFound when nothing matches.
	FindByLogin(ctx context.Context, identifier string) (*Identity, error)

	// FindByRA looks up an identity by registration number.
	FindByRA(ctx context.Context, ra string) (*Identity, error)
}
