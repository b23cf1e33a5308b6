package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLedger is an in-memory Ledger keyed by token id. It backs tests and
// single-process deployments; the mutex gives the same one-winner rotation
// guarantee the database store gets from its conditional update.
type MemoryLedger struct {
	mu      sync.Mutex
	records map[string]*Record
	ttl     time.Duration
	now     func() time.Time
	newID   func() string
}

// MemoryOption configures a MemoryLedger.
type MemoryOption func(*MemoryLedger)

// WithMemoryClock overrides the time source.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLedger) { l.now = now }
}

// WithMemoryIDs overrides token id generation.
func WithMemoryIDs(newID func() string) MemoryOption {
	return func(l *MemoryLedger) { l.newID = newID }
}

// NewMemoryLedger creates an empty in-memory ledger issuing records with the
// given lifetime.
func NewMemoryLedger(ttl time.Duration, opts ...MemoryOption) *MemoryLedger {
	l := &MemoryLedger{
		records: make(map[string]*Record),
		ttl:     ttl,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryLedger) Issue(_ context.Context, ra string) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec := l.newRecord(ra)
	l.records[rec.TokenID] = rec
	return cloned(rec), nil
}

func (l *MemoryLedger) Redeem(_ context.Context, tokenID string) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[tokenID]
	if !ok {
		return nil, ErrUnknown
	}
	if err := redeemable(rec, l.now()); err != nil {
		return nil, err
	}
	return cloned(rec), nil
}

func (l *MemoryLedger) Rotate(_ context.Context, oldTokenID, ra string) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	old, ok := l.records[oldTokenID]
	if !ok {
		return nil, ErrUnknown
	}
	switch old.Status {
	case StatusRotated:
		return nil, ErrAlreadyRotated
	case StatusRevoked:
		return nil, ErrRevoked
	}

	succ := l.newRecord(ra)
	l.records[succ.TokenID] = succ
	old.Status = StatusRotated
	id := succ.TokenID
	old.SuccessorID = &id
	return cloned(succ), nil
}

func (l *MemoryLedger) Revoke(_ context.Context, tokenID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[tokenID]
	if !ok {
		return ErrUnknown
	}
	if rec.Status == StatusActive {
		rec.Status = StatusRevoked
	}
	return nil
}

func (l *MemoryLedger) RevokeAll(_ context.Context, ra string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range l.records {
		if rec.RA == ra && rec.Status == StatusActive {
			rec.Status = StatusRevoked
		}
	}
	return nil
}

func (l *MemoryLedger) newRecord(ra string) *Record {
	now := l.now()
	return &Record{
		TokenID:   l.newID(),
		RA:        ra,
		IssuedAt:  now,
		ExpiresAt: now.Add(l.ttl),
		Status:    StatusActive,
	}
}

// redeemable reports why a record may not be exchanged, or nil.
func redeemable(rec *Record, now time.Time) error {
	switch rec.Status {
	case StatusRotated:
		return ErrAlreadyRotated
	case StatusRevoked:
		return ErrRevoked
	}
	if now.After(rec.ExpiresAt) {
		return ErrExpired
	}
	return nil
}

func cloned(rec *Record) *Record {
	out := *rec
	if rec.SuccessorID != nil {
		id := *rec.SuccessorID
		out.SuccessorID = &id
	}
	return &out
}
