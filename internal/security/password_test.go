package security_test

import (
	"testing"

	"github.com/wanderstay/bookings/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("secret")

	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if hash == "secret" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if err := security.CheckPassword(hash, "secret"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}

	if err := security.CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("wrong password accepted")
	}
}
