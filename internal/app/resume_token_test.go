package app

import (
	"testing"
	"time"
)

func TestResumeTokenRoundTrip(t *testing.T) {
	svc := NewResumeTokenService("test-secret", "konkan", time.Hour)

	tokenString, err := svc.GenerateToken("user123", "match-1", "round-1", 2)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := svc.VerifyToken(tokenString)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != "user123" || claims.MatchID != "match-1" || claims.RoundID != "round-1" || claims.Seat != 2 {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestResumeTokenRejectsWrongSecret(t *testing.T) {
	minter := NewResumeTokenService("secret-a", "konkan", time.Hour)
	verifier := NewResumeTokenService("secret-b", "konkan", time.Hour)

	tokenString, err := minter.GenerateToken("user123", "match-1", "round-1", 0)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := verifier.VerifyToken(tokenString); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestResumeTokenRejectsWrongIssuer(t *testing.T) {
	minter := NewResumeTokenService("secret", "someone-else", time.Hour)
	verifier := NewResumeTokenService("secret", "konkan", time.Hour)

	tokenString, err := minter.GenerateToken("user123", "match-1", "round-1", 0)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := verifier.VerifyToken(tokenString); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestResumeTokenRequiresConfig(t *testing.T) {
	svc := NewResumeTokenService("", "konkan", time.Hour)
	if _, err := svc.GenerateToken("user", "match", "round", 0); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestResumeTokenRequiresUserAndMatch(t *testing.T) {
	svc := NewResumeTokenService("secret", "konkan", time.Hour)
	if _, err := svc.GenerateToken("", "match", "round", 0); err == nil {
		t.Fatal("expected error for empty user")
	}
	if _, err := svc.GenerateToken("user", "", "round", 0); err == nil {
		t.Fatal("expected error for empty match")
	}
}
