// Package password provides one-way password hashing and verification.
//
// Verification fails closed: a malformed or corrupt digest verifies exactly
// like a wrong password, with comparable timing, so the caller can never tell
// "wrong password" apart from "corrupt record".
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is the single verification failure value. Wrong password and
// corrupt digest both return it.
var ErrMismatch = errors.New("password: verification failed")

// Hasher defines the interface for password hashing and verification.
type Hasher interface {
	// Hash returns a salted, self-describing digest of the password.
	Hash(password string) (string, error)

	// Verify checks if a password matches the given digest.
	// Returns nil if they match, ErrMismatch otherwise.
	Verify(password, digest string) error
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost      int
	minLength int
	// dummy is a digest of a throwaway password, compared against when the
	// stored digest is unusable so the failure path costs the same.
	dummy []byte
}

// BcryptOption configures the bcrypt hasher.
type BcryptOption func(*BcryptHasher)

// WithCost sets the bcrypt cost parameter (default: 12, range: 4-31).
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// WithMinLength sets the minimum accepted password length (default: 6).
func WithMinLength(n int) BcryptOption {
	return func(h *BcryptHasher) {
		if n > 0 {
			h.minLength = n
		}
	}
}

// NewBcryptHasher creates a bcrypt-based password hasher.
func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: 12, minLength: 6}
	for _, opt := range opts {
		opt(h)
	}
	h.dummy, _ = bcrypt.GenerateFromPassword([]byte("vida-academica-dummy"), h.cost)
	return h
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) < h.minLength {
		return "", fmt.Errorf("password: minimum length is %d characters", h.minLength)
	}
	if len(password) > 72 {
		return "", errors.New("password: maximum length is 72 characters (bcrypt limit)")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, digest string) error {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err == nil {
		return nil
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		// Corrupt or non-bcrypt digest. Burn a comparable amount of work
		// before failing so the two cases are not timing-distinguishable.
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
	}
	return ErrMismatch
}

// VerifyDummy runs a full bcrypt comparison against the throwaway digest.
// The authenticator calls it when the login identifier resolves to no
// identity, so unknown-user and wrong-password logins cost the same.
func (h *BcryptHasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
