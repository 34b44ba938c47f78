package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must differ from the plaintext")
	}
	if err := ComparePassword(hash, "hunter22"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hash, "hunter23"); err == nil {
		t.Fatal("wrong password should not verify")
	}
}
