package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGormLedger_IssueRedeemRotate(t *testing.T) {
	db := openTestDB(t)
	l := NewGormLedger(db, time.Hour)
	ctx := context.Background()

	rec, err := l.Issue(ctx, testRA)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := l.Redeem(ctx, rec.TokenID); err != nil {
		t.Fatalf("Redeem: %v", err)
	}

	succ, err := l.Rotate(ctx, rec.TokenID, testRA)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	if _, err := l.Redeem(ctx, rec.TokenID); !errors.Is(err, ErrAlreadyRotated) {
		t.Errorf("old id after rotate: expected ErrAlreadyRotated, got %v", err)
	}

	var stored Record
	if err := db.First(&stored, "token_id = ?", rec.TokenID).Error; err != nil {
		t.Fatalf("load rotated record: %v", err)
	}
	if stored.Status != StatusRotated {
		t.Errorf("expected rotated, got %s", stored.Status)
	}
	if stored.SuccessorID == nil || *stored.SuccessorID != succ.TokenID {
		t.Errorf("successor pointer not persisted: %v", stored.SuccessorID)
	}
}

func TestGormLedger_RotateUnknown(t *testing.T) {
	db := openTestDB(t)
	l := NewGormLedger(db, time.Hour)
	if _, err := l.Rotate(context.Background(), "nope", testRA); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
	// The losing transaction must not leave an orphan successor behind.
	var count int64
	db.Model(&Record{}).Count(&count)
	if count != 0 {
		t.Errorf("expected empty table after failed rotation, got %d rows", count)
	}
}

func TestGormLedger_ExpiredAtRedemption(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	l := NewGormLedger(db, 24*time.Hour, WithGormClock(func() time.Time { return now }))
	ctx := context.Background()

	rec, _ := l.Issue(ctx, testRA)
	now = base.Add(25 * time.Hour)
	if _, err := l.Redeem(ctx, rec.TokenID); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestGormLedger_RevokeAndRevokeAll(t *testing.T) {
	db := openTestDB(t)
	l := NewGormLedger(db, time.Hour)
	ctx := context.Background()

	a, _ := l.Issue(ctx, testRA)
	if err := l.Revoke(ctx, a.TokenID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := l.Redeem(ctx, a.TokenID); !errors.Is(err, ErrRevoked) {
		t.Errorf("expected ErrRevoked, got %v", err)
	}
	if err := l.Revoke(ctx, a.TokenID); err != nil {
		t.Errorf("revoking a revoked record should be a no-op: %v", err)
	}
	if err := l.Revoke(ctx, "nope"); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}

	b, _ := l.Issue(ctx, testRA)
	c, _ := l.Issue(ctx, "9990001112223")
	if err := l.RevokeAll(ctx, testRA); err != nil {
		t.Fatalf("RevokeAll: %v", err)
	}
	if _, err := l.Redeem(ctx, b.TokenID); !errors.Is(err, ErrRevoked) {
		t.Errorf("expected ErrRevoked after RevokeAll, got %v", err)
	}
	if _, err := l.Redeem(ctx, c.TokenID); err != nil {
		t.Errorf("other subject should be untouched: %v", err)
	}
}
