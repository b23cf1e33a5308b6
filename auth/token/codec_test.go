package token

import (
	"errors"
	"testing"
	"time"
)

func newTestCodec(t *testing.T, now func() time.Time) *Codec {
	t.Helper()
	c, err := NewCodec(Config{
		Secret:          "test-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}, WithClock(now))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestCodec_AccessRoundTrip(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, func() time.Time { return base })

	s, err := c.EncodeAccess("1110482329666")
	if err != nil {
		t.Fatalf("EncodeAccess: %v", err)
	}
	claims, err := c.Decode(s, KindAccess)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.RA() != "1110482329666" {
		t.Errorf("expected RA 1110482329666, got %s", claims.RA())
	}
	if claims.TokenType != KindAccess {
		t.Errorf("expected access type, got %s", claims.TokenType)
	}
}

func TestCodec_RefreshCarriesTokenID(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, func() time.Time { return base })

	s, err := c.EncodeRefresh("1110482329666", "jti-123", base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("EncodeRefresh: %v", err)
	}
	claims, err := c.Decode(s, KindRefresh)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.ID != "jti-123" {
		t.Errorf("expected jti-123, got %s", claims.ID)
	}
}

func TestCodec_Expired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	c := newTestCodec(t, func() time.Time { return *clock })

	s, err := c.EncodeAccess("1110482329666")
	if err != nil {
		t.Fatalf("EncodeAccess: %v", err)
	}

	later := now.Add(31 * time.Minute)
	clock = &later
	if _, err := c.Decode(s, KindAccess); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestCodec_WrongType(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, func() time.Time { return base })

	access, _ := c.EncodeAccess("1110482329666")
	if _, err := c.Decode(access, KindRefresh); !errors.Is(err, ErrWrongType) {
		t.Errorf("access-as-refresh: expected ErrWrongType, got %v", err)
	}

	refresh, _ := c.EncodeRefresh("1110482329666", "jti-1", base.Add(time.Hour))
	if _, err := c.Decode(refresh, KindAccess); !errors.Is(err, ErrWrongType) {
		t.Errorf("refresh-as-access: expected ErrWrongType, got %v", err)
	}
}

func TestCodec_BadSignature(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, func() time.Time { return base })

	other, err := NewCodec(Config{Secret: "other-secret"}, WithClock(func() time.Time { return base }))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	s, _ := other.EncodeAccess("1110482329666")

	if _, err := c.Decode(s, KindAccess); !errors.Is(err, ErrBadSignature) {
		t.Errorf("expected ErrBadSignature, got %v", err)
	}
}

func TestCodec_BadSignatureWinsOverExpiry(t *testing.T) {
	// A tampered token with a past expiry must report the signature failure,
	// not the expiry, so a forged expiry can never be probed.
	issue := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	other, err := NewCodec(Config{Secret: "other-secret"}, WithClock(func() time.Time { return issue }))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	s, _ := other.EncodeAccess("1110482329666")

	later := issue.Add(2 * time.Hour)
	c := newTestCodec(t, func() time.Time { return later })
	if _, err := c.Decode(s, KindAccess); !errors.Is(err, ErrBadSignature) {
		t.Errorf("expected ErrBadSignature, got %v", err)
	}
}

func TestCodec_Malformed(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, func() time.Time { return base })

	for _, s := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		if _, err := c.Decode(s, KindAccess); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q): expected ErrMalformed, got %v", s, err)
		}
	}
}

func TestCodec_RequiresSecret(t *testing.T) {
	if _, err := NewCodec(Config{}); err == nil {
		t.Error("expected error for empty secret")
	}
}
