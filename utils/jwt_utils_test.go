package utils

import (
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "user", "secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	id, scope, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id != 42 || scope != "user" {
		t.Fatalf("got id=%d scope=%q, want 42/user", id, scope)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(7, "admin", "secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, _, err := ParseToken(token, "other-secret"); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, _, err := ParseToken("not-a-token", "secret"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestRandomToken(t *testing.T) {
	a := RandomToken()
	b := RandomToken()
	if len(a) != 64 || len(b) != 64 {
		t.Fatalf("token lengths %d/%d, want 64", len(a), len(b))
	}
	if a == b {
		t.Fatal("two tokens should not collide")
	}
}
