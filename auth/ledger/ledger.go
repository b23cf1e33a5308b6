// Package ledger persists issued refresh tokens and enforces single-use
// rotation. Records are never physically deleted; rotated and revoked records
// stay behind so replayed token ids are always recognizable.
package ledger

import (
	"context"
	"errors"
	"time"
)

// Status is the stored lifecycle state of a refresh record. Expiry is a
// time-derived condition checked at redemption, not a stored state.
type Status string

const (
	StatusActive  Status = "active"
	StatusRotated Status = "rotated"
	StatusRevoked Status = "revoked"
)

// Redemption error kinds. Callers branch with errors.Is; none of these reach
// the client with this granularity.
var (
	// ErrUnknown means no record exists for the token id.
	ErrUnknown = errors.New("ledger: unknown token id")
	// ErrAlreadyRotated means the record was already exchanged once. A second
	// redemption of the same id signals likely token theft or replay.
	ErrAlreadyRotated = errors.New("ledger: token already rotated")
	// ErrRevoked means the record was explicitly revoked.
	ErrRevoked = errors.New("ledger: token revoked")
	// ErrExpired means the record's expiry has passed.
	ErrExpired = errors.New("ledger: token expired")
)

// Record is one issued refresh token. SuccessorID is set when the record is
// rotated, forming a chain from the original login to the current active tip.
type Record struct {
	TokenID     string    `gorm:"column:token_id;primaryKey;size:36"`
	RA          string    `gorm:"column:ra;size:13;index;not null"`
	IssuedAt    time.Time `gorm:"column:issued_at;not null"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null"`
	Status      Status    `gorm:"column:status;size:10;index;not null"`
	SuccessorID *string   `gorm:"column:successor_id;size:36"`
}

// TableName maps the record to its table.
func (Record) TableName() string { return "refresh_token" }

// Ledger is the persisted record of issued refresh tokens.
//
// Rotate is the single-use guarantee: the active→rotated transition is a
// conditional update, so of two concurrent rotations of the same token id
// exactly one wins and the other observes ErrAlreadyRotated.
type Ledger interface {
	// Issue creates a fresh active record for the subject.
	Issue(ctx context.Context, ra string) (*Record, error)

	// Redeem looks up a record by token id and reports whether it may be
	// exchanged. It applies no state transition; the caller must Rotate.
	Redeem(ctx context.Context, tokenID string) (*Record, error)

	// Rotate atomically marks the old record rotated, points it at the new
	// record, and creates the new active record for the subject.
	Rotate(ctx context.Context, oldTokenID, ra string) (*Record, error)

	// Revoke marks a record revoked. Revoking an already rotated or revoked
	// record is a no-op success; an unknown id returns ErrUnknown.
	Revoke(ctx context.Context, tokenID string) error

	// RevokeAll revokes every active record for the subject. Used on detected
	// compromise and "logout everywhere".
	RevokeAll(ctx context.Context, ra string) error
}
