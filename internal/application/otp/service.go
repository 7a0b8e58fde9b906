package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/pugly/api/internal/domain"
	"github.com/pugly/api/internal/pkg/hash"
)

const keyPrefix = "otp:"

type Service interface {
	// Request generates a fresh code for the address, stores its hash with a
	// TTL, and dispatches the plaintext code. A pending code for the same
	// address is overwritten and thereby invalidated.
	Request(ctx context.Context, email string) error
	// Verify consumes the pending code for the address and marks the user
	// verified. The code is single-use: success deletes it, a wrong guess
	// retains it for retry within the TTL window.
	Verify(ctx context.Context, email, code string) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type cache interface {
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Deliverer dispatches a message to a destination. Implementations may fail;
// the service surfaces that as domain.ErrDeliveryFailed and never retries.
type Deliverer interface {
	Deliver(ctx context.Context, to, subject, body string) error
}

type service struct {
	users      userStore
	cache      cache
	deliverer  Deliverer
	codeLength int
	ttl        time.Duration
}

func NewService(users userStore, c cache, d Deliverer, codeLength int, ttl time.Duration) Service {
	return &service{
		users:      users,
		cache:      c,
		deliverer:  d,
		codeLength: codeLength,
		ttl:        ttl,
	}
}

func (s *service) Request(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrBadRequest)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}

	code, err := generateCode(s.codeLength)
	if err != nil {
		return err
	}
	if err := s.cache.SetWithTTL(ctx, keyPrefix+email, hash.OTP(code), s.ttl); err != nil {
		return err
	}
	// The stored hash is not rolled back on delivery failure: an undelivered
	// code expires with its TTL and a retry overwrites it.
	if err := s.deliverer.Deliver(ctx, email, otpSubject, otpBody(u.Username, code, s.ttl)); err != nil {
		slog.Warn("otp delivery failed", "email", email, "err", err)
		return err
	}
	return nil
}

func (s *service) Verify(ctx context.Context, email, code string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, fmt.Errorf("email and otp are required: %w", domain.ErrBadRequest)
	}

	stored, err := s.cache.Get(ctx, keyPrefix+email)
	if err != nil {
		return nil, fmt.Errorf("otp expired or not found: %w", domain.ErrNotFound)
	}
	if !hash.VerifyOTP(code, stored) {
		// Retained on mismatch so the user may retry within the TTL window.
		return nil, fmt.Errorf("invalid otp: %w", domain.ErrUnauthorized)
	}
	if err := s.cache.Delete(ctx, keyPrefix+email); err != nil {
		return nil, err
	}

	// The code is consumed at this point. A failure below is fail-closed:
	// the user must request a new code, the old one cannot be replayed.
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err := s.users.Update(ctx, u.UserID, map[string]interface{}{"is_verified": true}); err != nil {
		return nil, err
	}
	u.IsVerified = true
	slog.Info("user verified", "email", email)
	return u, nil
}

// generateCode builds an n-digit numeric code, each digit drawn uniformly
// from 0-9 so leading zeros are as likely as any other digit.
func generateCode(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
