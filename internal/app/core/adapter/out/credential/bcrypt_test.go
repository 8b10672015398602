package credential

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hashed == "s3cret" {
		t.Fatal("hash must not equal the plain secret")
	}
	if !h.Compare(hashed, "s3cret") {
		t.Fatal("expected matching secret")
	}
	if h.Compare(hashed, "S3cret") {
		t.Fatal("comparison must be case-sensitive")
	}
	if h.Compare("not-a-hash", "s3cret") {
		t.Fatal("malformed hash must not match")
	}
}

func TestBcryptHasherDefaultCost(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != bcrypt.DefaultCost {
		t.Fatalf("cost=%d want %d", h.cost, bcrypt.DefaultCost)
	}
}
