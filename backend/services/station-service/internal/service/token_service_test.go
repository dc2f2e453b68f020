package service

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.GenerateToken("user-1", "ada@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "ada@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenRejectsExpiredAndForeign(t *testing.T) {
	issuer := NewTokenService("secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := issuer.GenerateToken("user-1", "ada@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewTokenService("secret", time.Hour).ValidateToken(expired); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}

	foreign, err := NewTokenService("other", time.Hour).GenerateToken("user-1", "ada@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewTokenService("secret", time.Hour).ValidateToken(foreign); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestGenerateTokenRequiresUser(t *testing.T) {
	if _, err := NewTokenService("secret", 0).GenerateToken("", "x@example.com"); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}
