package password

import (
	"errors"
	"strings"
	"testing"
)

func TestBcrypt_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	digest, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Errorf("expected bcrypt digest, got %q", digest)
	}
	if err := h.Verify("secret1", digest); err != nil {
		t.Errorf("Verify correct password: %v", err)
	}
	if err := h.Verify("wrong-pw", digest); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestBcrypt_UniqueSalt(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	a, _ := h.Hash("secret1")
	b, _ := h.Hash("secret1")
	if a == b {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestBcrypt_MalformedDigestFailsClosed(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	for _, digest := range []string{"", "garbage", "$2x$broken"} {
		err := h.Verify("secret1", digest)
		if !errors.Is(err, ErrMismatch) {
			t.Errorf("Verify with digest %q: expected ErrMismatch, got %v", digest, err)
		}
	}
}

func TestBcrypt_MinLength(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	if _, err := h.Hash("abc"); err == nil {
		t.Error("expected error for password shorter than minimum")
	}
}

func TestArgon2_HashAndVerify(t *testing.T) {
	h := NewArgon2Hasher(WithArgon2Memory(8 * 1024))
	digest, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$") {
		t.Errorf("expected argon2id digest, got %q", digest)
	}
	if err := h.Verify("secret1", digest); err != nil {
		t.Errorf("Verify correct password: %v", err)
	}
	if err := h.Verify("wrong-pw", digest); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
	if err := h.Verify("secret1", "$argon2id$corrupt"); !errors.Is(err, ErrMismatch) {
		t.Errorf("corrupt digest: expected ErrMismatch, got %v", err)
	}
}

func TestNewHasher_ConfigDriven(t *testing.T) {
	if _, ok := NewHasher(Config{}).(*BcryptHasher); !ok {
		t.Error("default algorithm should be bcrypt")
	}
	if _, ok := NewHasher(Config{Algorithm: AlgorithmArgon2id}).(*Argon2Hasher); !ok {
		t.Error("argon2id algorithm should produce Argon2Hasher")
	}
}

func TestHashers_ImplementDummyVerifier(t *testing.T) {
	var _ DummyVerifier = NewBcryptHasher(WithCost(4))
	var _ DummyVerifier = NewArgon2Hasher()
}
