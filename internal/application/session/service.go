package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pugly/api/internal/domain"
	jwtinfra "github.com/pugly/api/internal/infrastructure/jwt"
	"github.com/pugly/api/internal/pkg/hash"
)

const fieldRefreshToken = "refresh_token"

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"` // username or email
	Password   string `json:"password" validate:"required"`
}

type LoginResult struct {
	Tokens *domain.TokenPair
	User   *domain.User
}

type Service interface {
	// Login verifies credentials and issues a fresh token pair. The refresh
	// token is persisted on the user record, superseding any prior one.
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	// Refresh exchanges a valid, current refresh token for a new pair and
	// rotates the stored token. Superseded tokens are rejected even when
	// cryptographically valid.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// Logout clears the stored refresh token unconditionally.
	Logout(ctx context.Context, userID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type tokenIssuer interface {
	IssueAccessToken(u *domain.User) (string, time.Time, error)
	IssueRefreshToken(userID string) (string, time.Time, error)
	VerifyRefresh(token string) (*jwtinfra.RefreshClaims, error)
}

type service struct {
	users  userStore
	tokens tokenIssuer
}

func NewService(users userStore, tokens tokenIssuer) Service {
	return &service{users: users, tokens: tokens}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))
	u, err := s.users.GetByUsername(ctx, identifier)
	if err != nil {
		u, err = s.users.GetByEmail(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("user does not exist: %w", domain.ErrNotFound)
		}
	}
	if !hash.VerifyPassword(req.Password, u.PasswordHash) {
		return nil, fmt.Errorf("invalid user credentials: %w", domain.ErrUnauthorized)
	}
	pair, err := s.issueAndPersist(ctx, u)
	if err != nil {
		return nil, err
	}
	slog.Info("user logged in", "user_id", u.UserID)
	return &LoginResult{Tokens: pair, User: u}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", domain.ErrUnauthorized)
	}
	// A rotated-away or post-logout token no longer matches the stored value
	// and is rejected here even though its signature is still valid.
	if u.RefreshToken == "" || u.RefreshToken != refreshToken {
		return nil, fmt.Errorf("refresh token is expired or used: %w", domain.ErrUnauthorized)
	}
	return s.issueAndPersist(ctx, u)
}

func (s *service) Logout(ctx context.Context, userID string) error {
	if err := s.users.Update(ctx, userID, map[string]interface{}{fieldRefreshToken: ""}); err != nil {
		return err
	}
	slog.Info("user logged out", "user_id", userID)
	return nil
}

// issueAndPersist issues a fresh pair and stores the new refresh token on
// the user record. Last write wins if two calls race on the same user; the
// superseded pair simply fails its next refresh.
func (s *service) issueAndPersist(ctx context.Context, u *domain.User) (*domain.TokenPair, error) {
	access, accessExp, err := s.tokens.IssueAccessToken(u)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.tokens.IssueRefreshToken(u.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u.UserID, map[string]interface{}{fieldRefreshToken: refresh}); err != nil {
		return nil, err
	}
	u.RefreshToken = refresh
	return &domain.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}
