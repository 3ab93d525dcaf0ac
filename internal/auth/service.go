package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"papertrade/internal/models"
	"papertrade/internal/repository"
	"papertrade/internal/session"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("username and password are required")
)

// Service owns account creation and the session lifecycle. The rest of the
// system only ever sees the resolved identity.
type Service struct {
	Repo       repository.Repository
	Sessions   session.Store
	SessionTTL time.Duration
}

func (s *Service) Signup(ctx context.Context, username, password string) (*session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	existing, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.openSession(ctx, user)
}

func (s *Service) Login(ctx context.Context, username, password string) (*session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.openSession(ctx, user)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, token)
}

// Identify resolves a session token to the authenticated identity.
// A missing, unknown or expired token resolves to nil.
func (s *Service) Identify(ctx context.Context, token string) (*session.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	return s.Sessions.Get(ctx, token)
}

func (s *Service) openSession(ctx context.Context, user *models.User) (*session.Session, error) {
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	item := &session.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := s.Sessions.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
