package service

import (
	"context"
	"errors"

	"bookmark-service/pkg/logging"
	"bookmark-service/pkg/security"
	"bookmark-service/pkg/session"
	"bookmark-service/pkg/storage"

	"github.com/google/uuid"
)

var (
	// ErrPasswordRequired is returned when registration is attempted with an empty password.
	ErrPasswordRequired = errors.New("password is required")
	// ErrInvalidCredentials is returned when the password does not match the stored hash.
	ErrInvalidCredentials = errors.New("incorrect password")
)

type AuthService struct {
	users    storage.UserStorage
	sessions *session.Manager
	logger   *logging.Logger
}

func NewAuthService(users storage.UserStorage, sessions *session.Manager, logger *logging.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// Register creates a user and returns a fresh session token for it.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		s.logger.LogAuthEvent(ctx, "register", email, false)
		return "", storage.ErrEmailExists
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return "", err
	}

	if password == "" {
		return "", ErrPasswordRequired
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return "", err
	}

	user := &storage.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", err
	}

	s.logger.LogAuthEvent(ctx, "register", email, true)
	return token, nil
}

// Login verifies the credentials and returns a fresh session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.logger.LogAuthEvent(ctx, "login", email, false)
		return "", err
	}

	if !security.VerifyPassword(password, user.HashedPassword) {
		s.logger.LogAuthEvent(ctx, "login", email, false)
		return "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", err
	}

	s.logger.LogAuthEvent(ctx, "login", email, true)
	return token, nil
}
