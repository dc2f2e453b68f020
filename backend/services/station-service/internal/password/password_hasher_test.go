package password

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptRoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("hash must not equal plain password")
	}
	if err := h.Compare(hash, "s3cret"); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
}

func TestCompareWithoutHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if err := h.Compare("", "anything"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("federated accounts have no hash; expected ErrMismatch, got %v", err)
	}
	if _, err := h.Hash(""); err == nil {
		t.Fatalf("expected error hashing empty password")
	}
}
