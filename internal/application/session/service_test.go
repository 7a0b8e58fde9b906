package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pugly/api/internal/domain"
	jwtinfra "github.com/pugly/api/internal/infrastructure/jwt"
	"github.com/pugly/api/internal/pkg/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

// --- helpers ---

func newTestProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return p
}

func hashedUser(t *testing.T, password string) *domain.User {
	t.Helper()
	digest, err := hash.Password(password)
	require.NoError(t, err)
	return &domain.User{
		UserID:       "u1",
		Username:     "u1name",
		Email:        "u@x.com",
		PasswordHash: digest,
	}
}

// trackRefreshToken mirrors Update writes of the refresh_token field onto
// the user, emulating the store's last-write-wins persistence.
func trackRefreshToken(us *mockUserStore, u *domain.User) {
	us.On("Update", mock.Anything, u.UserID, mock.MatchedBy(func(m map[string]interface{}) bool {
		_, ok := m[fieldRefreshToken]
		return ok
	})).Run(func(args mock.Arguments) {
		updates := args.Get(2).(map[string]interface{})
		u.RefreshToken = updates[fieldRefreshToken].(string)
	}).Return(nil)
}

// --- Login ---

func TestLogin_UnknownUser(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
	us.On("GetByEmail", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := NewService(us, newTestProvider(t))
	_, err := svc.Login(context.Background(), LoginRequest{Identifier: "ghost", Password: "p"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLogin_WrongPassword(t *testing.T) {
	u := hashedUser(t, "correct-password")
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "u1name").Return(u, nil)

	svc := NewService(us, newTestProvider(t))
	_, err := svc.Login(context.Background(), LoginRequest{Identifier: "u1name", Password: "wrong-password"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	// No token was persisted on a failed login.
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_ByUsername_IssuesAndPersistsPair(t *testing.T) {
	u := hashedUser(t, "p4ssword!")
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "u1name").Return(u, nil)
	trackRefreshToken(us, u)

	p := newTestProvider(t)
	svc := NewService(us, p)
	result, err := svc.Login(context.Background(), LoginRequest{Identifier: "u1name", Password: "p4ssword!"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Equal(t, result.Tokens.RefreshToken, u.RefreshToken)

	claims, err := p.VerifyAccess(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1name", claims.Username)
	assert.Equal(t, "u@x.com", claims.Email)
}

func TestLogin_ByEmailFallback(t *testing.T) {
	u := hashedUser(t, "p4ssword!")
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "u@x.com").Return(nil, domain.ErrNotFound)
	us.On("GetByEmail", mock.Anything, "u@x.com").Return(u, nil)
	trackRefreshToken(us, u)

	svc := NewService(us, newTestProvider(t))
	result, err := svc.Login(context.Background(), LoginRequest{Identifier: "U@X.COM", Password: "p4ssword!"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
}

func TestLogin_SupersedesPriorRefreshToken(t *testing.T) {
	u := hashedUser(t, "p4ssword!")
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "u1name").Return(u, nil)
	us.On("Get", mock.Anything, "u1").Return(u, nil)
	trackRefreshToken(us, u)

	svc := NewService(us, newTestProvider(t))
	ctx := context.Background()

	first, err := svc.Login(ctx, LoginRequest{Identifier: "u1name", Password: "p4ssword!"})
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond) // distinct iat so the second token differs
	second, err := svc.Login(ctx, LoginRequest{Identifier: "u1name", Password: "p4ssword!"})
	require.NoError(t, err)
	require.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	_, err = svc.Refresh(ctx, first.Tokens.RefreshToken)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	_, err = svc.Refresh(ctx, second.Tokens.RefreshToken)
	assert.NoError(t, err)
}

// --- Refresh ---

func TestRefresh_GarbageToken(t *testing.T) {
	svc := NewService(&mockUserStore{}, newTestProvider(t))
	_, err := svc.Refresh(context.Background(), "garbage")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRefresh_RotationInvalidatesPredecessor(t *testing.T) {
	u := hashedUser(t, "p4ssword!")
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "u1name").Return(u, nil)
	us.On("Get", mock.Anything, "u1").Return(u, nil)
	trackRefreshToken(us, u)

	svc := NewService(us, newTestProvider(t))
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginRequest{Identifier: "u1name", Password: "p4ssword!"})
	require.NoError(t, err)
	oldToken := result.Tokens.RefreshToken

	time.Sleep(1100 * time.Millisecond)
	pair, err := svc.Refresh(ctx, oldToken)
	require.NoError(t, err)
	require.NotEqual(t, oldToken, pair.RefreshToken)

	// The superseded token fails even though its signature is still valid.
	_, err = svc.Refresh(ctx, oldToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	// The rotated token keeps working.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_UserDeleted(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	p := newTestProvider(t)
	token, _, err := p.IssueRefreshToken("u1")
	require.NoError(t, err)

	svc := NewService(us, p)
	_, err = svc.Refresh(context.Background(), token)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRefresh_TokenNeverPersisted(t *testing.T) {
	u := hashedUser(t, "p4ssword!") // RefreshToken empty
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(u, nil)

	p := newTestProvider(t)
	token, _, err := p.IssueRefreshToken("u1")
	require.NoError(t, err)

	svc := NewService(us, p)
	_, err = svc.Refresh(context.Background(), token)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

// --- Logout ---

func TestLogout_ClearsStoredToken_RejectsSubsequentRefresh(t *testing.T) {
	u := hashedUser(t, "p4ssword!")
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "u1name").Return(u, nil)
	us.On("Get", mock.Anything, "u1").Return(u, nil)
	trackRefreshToken(us, u)

	svc := NewService(us, newTestProvider(t))
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginRequest{Identifier: "u1name", Password: "p4ssword!"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "u1"))
	assert.Empty(t, u.RefreshToken)

	_, err = svc.Refresh(ctx, result.Tokens.RefreshToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
