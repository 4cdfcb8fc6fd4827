package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	tm := NewTokenManager("test-secret", "taskboard", time.Hour)

	token, err := tm.GenerateToken(42)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Issuer != "taskboard" {
		t.Fatalf("expected issuer taskboard, got %q", claims.Issuer)
	}
}

func TestGenerateTokenRequiresUserID(t *testing.T) {
	tm := NewTokenManager("test-secret", "taskboard", time.Hour)
	if _, err := tm.GenerateToken(0); err == nil {
		t.Fatalf("expected error for zero user id")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", "taskboard", time.Hour)
	other := NewTokenManager("different-secret", "taskboard", time.Hour)

	token, err := tm.GenerateToken(42)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatalf("expected validation failure with wrong secret")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", "taskboard", time.Millisecond)

	token, err := tm.GenerateToken(42)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := tm.ValidateToken(token); err == nil {
		t.Fatalf("expected validation failure for expired token")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", "taskboard", time.Hour)
	if _, err := tm.ValidateToken("not-a-token"); err == nil {
		t.Fatalf("expected validation failure for garbage input")
	}
}

func TestExtractToken(t *testing.T) {
	token, err := ExtractToken("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("unexpected token: %q", token)
	}

	for _, header := range []string{"", "abc.def.ghi", "Basic abc", "Bearer a b"} {
		if _, err := ExtractToken(header); err == nil {
			t.Fatalf("expected error for header %q", header)
		}
	}
}
