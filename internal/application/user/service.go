package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pugly/api/internal/domain"
	"github.com/pugly/api/internal/pkg/hash"
	"github.com/pugly/api/internal/pkg/id"
)

type Service interface {
	// Register creates an unverified account and dispatches a verification
	// code to its email address. The account exists even when dispatch
	// fails; the caller may re-request a code.
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type otpRequester interface {
	Request(ctx context.Context, email string) error
}

type service struct {
	repo userStore
	otp  otpRequester
}

func NewService(repo userStore, otp otpRequester) Service {
	return &service{repo: repo, otp: otp}
}

func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || strings.TrimSpace(req.Password) == "" {
		return nil, fmt.Errorf("all fields are required: %w", domain.ErrBadRequest)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("user with email or username already exists: %w", domain.ErrConflict)
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user with email or username already exists: %w", domain.ErrConflict)
	}

	digest, err := hash.Password(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	slog.Info("user registered", "user_id", u.UserID, "username", username)

	// Verification is decoupled from registration: the account stays
	// unverified until the code is confirmed.
	if err := s.otp.Request(ctx, email); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}
