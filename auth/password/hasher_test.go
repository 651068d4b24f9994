package password

import (
	"errors"
	"strings"
	"testing"
)

func TestHashers_RoundTrip(t *testing.T) {
	hashers := map[string]Hasher{
		"bcrypt":   NewBcryptHasher(WithCost(4)),
		"argon2id": NewArgon2Hasher(WithArgon2Memory(8*1024), WithArgon2Threads(1)),
	}
	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("correct horse")
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}
			if hash == "correct horse" {
				t.Fatal("hash must not equal the password")
			}
			if err := h.Verify("correct horse", hash); err != nil {
				t.Errorf("Verify failed: %v", err)
			}
			if err := h.Verify("wrong horse", hash); !errors.Is(err, ErrMismatch) {
				t.Errorf("expected ErrMismatch, got %v", err)
			}
		})
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	for _, h := range []Hasher{NewBcryptHasher(WithCost(4)), NewArgon2Hasher(WithArgon2Memory(8 * 1024))} {
		if _, err := h.Hash(strings.Repeat("a", MaxLength+1)); !errors.Is(err, ErrTooLong) {
			t.Errorf("%T: expected ErrTooLong, got %v", h, err)
		}
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		h    Hasher
		hash string
	}{
		{"argon2 given bcrypt", NewArgon2Hasher(), "$2a$10$notargon"},
		{"argon2 bad params", NewArgon2Hasher(), "$argon2id$v=19$m=x$c2FsdA$a2V5"},
		{"argon2 wrong version", NewArgon2Hasher(), "$argon2id$v=16$m=8,t=1,p=1$c2FsdA$a2V5"},
		{"bcrypt garbage", NewBcryptHasher(WithCost(4)), "not-a-hash"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.h.Verify("pw", tt.hash); !errors.Is(err, ErrMalformedHash) {
				t.Errorf("expected ErrMalformedHash, got %v", err)
			}
		})
	}
}

func TestArgon2_VerifyUsesStoredParams(t *testing.T) {
	old := NewArgon2Hasher(WithArgon2Memory(8*1024), WithArgon2Threads(1), WithArgon2Time(2))
	hash, err := old.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.Contains(hash, "m=8192,t=2,p=1") {
		t.Errorf("params missing from %q", hash)
	}
	current := NewArgon2Hasher(WithArgon2Memory(16*1024), WithArgon2Threads(2))
	if err := current.Verify("correct horse", hash); err != nil {
		t.Errorf("expected hash from older params to verify, got %v", err)
	}
}

func TestNewHasher_FromConfig(t *testing.T) {
	if _, ok := NewHasher(Config{}).(*BcryptHasher); !ok {
		t.Error("expected bcrypt by default")
	}
	if _, ok := NewHasher(Config{Algorithm: AlgorithmArgon2id}).(*Argon2Hasher); !ok {
		t.Error("expected argon2id when selected")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Algorithm: "md5"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}
