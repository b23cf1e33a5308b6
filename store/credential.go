package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vida-academica/backend/auth"
)

// CredentialStore adapts the usuario table to the auth core's lookup
// contract.
type CredentialStore struct {
	db *gorm.DB
}

// NewCredentialStore creates the adapter.
func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// FindByLogin resolves a login identifier against username and email in one
// query; the first match wins and the caller never learns which column hit.
func (s *CredentialStore) FindByLogin(ctx context.Context, identifier string) (*auth.Identity, error) {
	var u Usuario
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return toIdentity(&u), nil
}

// FindByRA resolves a registration number to an identity.
func (s *CredentialStore) FindByRA(ctx context.Context, ra string) (*auth.Identity, error) {
	var u Usuario
	err := s.db.WithContext(ctx).First(&u, "ra = ?", ra).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return toIdentity(&u), nil
}

func toIdentity(u *Usuario) *auth.Identity {
	return &auth.Identity{
		ID:           u.ID,
		RA:           u.RA,
		Nome:         u.Nome,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.SenhaHash,
	}
}
