package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bilancio/internal/auth"
	"bilancio/internal/core"
)

func newUserService(store *fakeStore) *UserService {
	issuer := auth.NewTokenIssuer("test-secret-test-secret-test-secret!", time.Hour)
	return NewUserService(store, issuer)
}

func TestUserServiceRegisterAndLogin(t *testing.T) {
	store := newFakeStore()
	svc := newUserService(store)

	user, token, err := svc.Register(context.Background(), "Mario@Example.com", "Mario", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Error("Register() should issue a token")
	}
	if user.Email != "mario@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.PasswordHash == "password123" {
		t.Error("password must not be stored in clear")
	}

	t.Run("login with right password", func(t *testing.T) {
		got, token, err := svc.Login(context.Background(), "mario@example.com", "password123")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if token == "" {
			t.Error("Login() should issue a token")
		}
		if got.ID != user.ID {
			t.Errorf("Login() user = %q, want %q", got.ID, user.ID)
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "mario@example.com", "nope-nope")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("login with unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "ghost@example.com", "password123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, _, err := svc.Register(context.Background(), "mario@example.com", "Altro", "password456")
		if !errors.Is(err, core.ErrDuplicateName) {
			t.Errorf("Register() error = %v, want ErrDuplicateName", err)
		}
	})
}

func TestUserServiceRegisterValidation(t *testing.T) {
	store := newFakeStore()
	svc := newUserService(store)

	tests := []struct {
		name     string
		email    string
		username string
		password string
		wantErr  error
	}{
		{"bad email", "not-an-email", "Mario", "password123", core.ErrInvalidEmail},
		{"empty name", "mario@example.com", "  ", "password123", core.ErrEmptyName},
		{"short password", "mario@example.com", "Mario", "short", core.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.email, tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
