package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourorg/taskboard/internal/domain"
	"github.com/yourorg/taskboard/internal/security/auth"
)

func newTestAuthService() (*AuthService, *memUserRepo) {
	repo := newMemUserRepo()
	tokens := auth.NewTokenManager("test-secret", "taskboard", time.Hour)
	return NewAuthService(repo, tokens, nil), repo
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestAuthService()

	// Register
	r, err := s.Register(ctx, "alice@example.com", "Password123", "Alice")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if r.User.ID == 0 || r.Token == "" {
		t.Fatalf("expected user id and token")
	}

	// Duplicate email
	if _, err := s.Register(ctx, "alice@example.com", "Password123", "Alice Again"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}

	// Login ok
	lr, err := s.Login(ctx, "alice@example.com", "Password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if lr.Token == "" {
		t.Fatalf("expected token on login")
	}
	if lr.User.ID != r.User.ID {
		t.Fatalf("expected same user on login, got %d and %d", lr.User.ID, r.User.ID)
	}

	// Login wrong password
	if _, err := s.Login(ctx, "alice@example.com", "Wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	// Login unknown email
	if _, err := s.Login(ctx, "nobody@example.com", "Password123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestAuthService()

	cases := []struct {
		name     string
		email    string
		password string
		userName string
	}{
		{"missing email", "", "Password123", "Alice"},
		{"missing password", "alice@example.com", "", "Alice"},
		{"missing name", "alice@example.com", "Password123", ""},
		{"short password", "alice@example.com", "short", "Alice"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Register(ctx, tc.email, tc.password, tc.userName); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegisterDoesNotStorePlaintext(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestAuthService()

	r, err := s.Register(ctx, "bob@example.com", "Password123", "Bob")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	stored, err := repo.GetByID(ctx, r.User.ID)
	if err != nil {
		t.Fatalf("get user failed: %v", err)
	}
	if stored.PasswordHash == "Password123" {
		t.Fatalf("password stored in plaintext")
	}
	if stored.PasswordHash == "" {
		t.Fatalf("expected a stored password hash")
	}
}
