package util

import (
	"strings"
	"testing"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := CreateJWT("user-123", "a@x.com", "test-secret")
	if err != nil {
		t.Fatalf("creating token: %v", err)
	}

	claims, err := ValidateJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("validating token: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("expected subject user-123, got %q", claims.Subject)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("expected email a@x.com, got %q", claims.Email)
	}
}

func TestJWTWrongSecretRejected(t *testing.T) {
	token, err := CreateJWT("user-123", "a@x.com", "test-secret")
	if err != nil {
		t.Fatalf("creating token: %v", err)
	}
	if _, err := ValidateJWT(token, "other-secret"); err == nil {
		t.Fatal("expected validation to fail with the wrong secret")
	}
}

func TestJWTGarbageRejected(t *testing.T) {
	if _, err := ValidateJWT("not-a-token", "test-secret"); err == nil {
		t.Fatal("expected validation to fail for a malformed token")
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword("password123", hash) {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword("password124", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordOverLimit(t *testing.T) {
	// bcrypt rejects inputs over 72 bytes; request validation normally
	// bounds this earlier.
	if _, err := HashPassword(strings.Repeat("x", 73)); err == nil {
		t.Fatal("expected error for password over 72 bytes")
	}
}
