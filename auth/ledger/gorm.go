package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedger is the database-backed Ledger. The active→rotated and
// active→revoked transitions are conditional updates guarded by the current
// status, so concurrent rotations of one token id have exactly one winner
// regardless of the backing database.
type GormLedger struct {
	db    *gorm.DB
	ttl   time.Duration
	now   func() time.Time
	newID func() string
}

// GormOption configures a GormLedger.
type GormOption func(*GormLedger)

// WithGormClock overrides the time source.
func WithGormClock(now func() time.Time) GormOption {
	return func(l *GormLedger) { l.now = now }
}

// NewGormLedger creates a Ledger on top of an open gorm handle.
func NewGormLedger(db *gorm.DB, ttl time.Duration, opts ...GormOption) *GormLedger {
	l := &GormLedger{
		db:    db,
		ttl:   ttl,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *GormLedger) Issue(ctx context.Context, ra string) (*Record, error) {
	now := l.now()
	rec := &Record{
		TokenID:   l.newID(),
		RA:        ra,
		IssuedAt:  now,
		ExpiresAt: now.Add(l.ttl),
		Status:    StatusActive,
	}
	if err := l.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("ledger: issue: %w", err)
	}
	return rec, nil
}

func (l *GormLedger) Redeem(ctx context.Context, tokenID string) (*Record, error) {
	var rec Record
	err := l.db.WithContext(ctx).First(&rec, "token_id = ?", tokenID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknown
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: redeem: %w", err)
	}
	if err := redeemable(&rec, l.now()); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (l *GormLedger) Rotate(ctx context.Context, oldTokenID, ra string) (*Record, error) {
	now := l.now()
	succ := &Record{
		TokenID:   l.newID(),
		RA:        ra,
		IssuedAt:  now,
		ExpiresAt: now.Add(l.ttl),
		Status:    StatusActive,
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(succ).Error; err != nil {
			return fmt.Errorf("ledger: create successor: %w", err)
		}

		// The conditional update is the single-use guarantee: only a still
		// active record transitions, so one of two racing rotations affects
		// zero rows and loses.
		res := tx.Model(&Record{}).
			Where("token_id = ? AND status = ?", oldTokenID, StatusActive).
			Updates(map[string]any{
				"status":       StatusRotated,
				"successor_id": succ.TokenID,
			})
		if res.Error != nil {
			return fmt.Errorf("ledger: rotate: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return l.rotateLossReason(tx, oldTokenID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return succ, nil
}

// rotateLossReason classifies a failed conditional rotation. The transaction
// rolls back either way; the error tells the caller whether this looks like a
// replay.
func (l *GormLedger) rotateLossReason(tx *gorm.DB, tokenID string) error {
	var rec Record
	err := tx.First(&rec, "token_id = ?", tokenID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUnknown
	}
	if err != nil {
		return fmt.Errorf("ledger: rotate lookup: %w", err)
	}
	switch rec.Status {
	case StatusRotated:
		return ErrAlreadyRotated
	case StatusRevoked:
		return ErrRevoked
	default:
		return ErrUnknown
	}
}

func (l *GormLedger) Revoke(ctx context.Context, tokenID string) error {
	res := l.db.WithContext(ctx).Model(&Record{}).
		Where("token_id = ? AND status = ?", tokenID, StatusActive).
		Update("status", StatusRevoked)
	if res.Error != nil {
		return fmt.Errorf("ledger: revoke: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Rotated/revoked records stay as they are; only a missing id errors.
		var count int64
		if err := l.db.WithContext(ctx).Model(&Record{}).
			Where("token_id = ?", tokenID).Count(&count).Error; err != nil {
			return fmt.Errorf("ledger: revoke lookup: %w", err)
		}
		if count == 0 {
			return ErrUnknown
		}
	}
	return nil
}

func (l *GormLedger) RevokeAll(ctx context.Context, ra string) error {
	err := l.db.WithContext(ctx).Model(&Record{}).
		Where("ra = ? AND status = ?", ra, StatusActive).
		Update("status", StatusRevoked).Error
	if err != nil {
		return fmt.Errorf("ledger: revoke all: %w", err)
	}
	return nil
}
