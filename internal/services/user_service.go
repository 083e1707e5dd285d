package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bilancio/internal/auth"
	"bilancio/internal/core"
	"bilancio/internal/storage"
)

// UserStore is the slice of the repository the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, u core.User) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	GetUser(ctx context.Context, id string) (core.User, error)
}

var _ UserStore = (*storage.SQLiteRepository)(nil)

// ErrInvalidCredentials hides whether an email exists or a password was
// wrong; login failures all look the same from outside.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService handles registration and login.
type UserService struct {
	storage UserStore
	tokens  *auth.TokenIssuer
}

func NewUserService(storage UserStore, tokens *auth.TokenIssuer) *UserService {
	return &UserService{
		storage: storage,
		tokens:  tokens,
	}
}

// Register creates an account and returns it with a fresh bearer token.
// Emails are stored lowercased; a taken email fails with ErrDuplicateName.
func (s *UserService) Register(ctx context.Context, email, name, password string) (core.User, string, error) {
	u := core.User{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  strings.TrimSpace(name),
	}
	if err := u.Validate(); err != nil {
		return core.User{}, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return core.User{}, "", err
	}
	u.PasswordHash = hash

	saved, err := s.storage.CreateUser(ctx, u)
	if isUniqueViolation(err) {
		return core.User{}, "", core.ErrDuplicateName
	}
	if err != nil {
		return core.User{}, "", fmt.Errorf("save user: %w", err)
	}

	token, err := s.tokens.Issue(saved.ID)
	if err != nil {
		return core.User{}, "", err
	}
	return saved, token, nil
}

// Login verifies the credentials and returns the user with a fresh token.
func (s *UserService) Login(ctx context.Context, email, password string) (core.User, string, error) {
	u, err := s.storage.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, "", err
	}

	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return core.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return core.User{}, "", err
	}
	return u, token, nil
}

// Me returns the account behind an authenticated request.
func (s *UserService) Me(ctx context.Context, userID string) (core.User, error) {
	return s.storage.GetUser(ctx, userID)
}
