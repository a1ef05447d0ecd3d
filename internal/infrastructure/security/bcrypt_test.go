package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "pw1" {
		t.Fatalf("expected password to be hashed")
	}
	if !h.Verify("pw1", hash) {
		t.Fatalf("expected hash to verify")
	}
	if h.Verify("pw2", hash) {
		t.Fatalf("wrong password verified")
	}
	if h.Verify("pw1", "") {
		t.Fatalf("empty hash verified")
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	if got := NewBcryptHasher(0).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcryptHasher(99).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}
