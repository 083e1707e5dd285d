package core

import (
	"errors"
	"strings"
)

// User is an account holder. Every other entity hangs off a user id and is
// invisible across accounts.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
}

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("password too short (min 8 characters)")
)

func (u User) Validate() error {
	email := strings.TrimSpace(u.Email)
	if email == "" || !strings.Contains(email, "@") || strings.Contains(email, " ") {
		return ErrInvalidEmail
	}
	if len(strings.TrimSpace(u.Name)) == 0 {
		return ErrEmptyName
	}
	return nil
}
