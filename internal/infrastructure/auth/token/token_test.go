package token

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/patent-litigation-graph/internal/domain/user"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type mockDenylist struct{ mock.Mock }

func (m *mockDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return m.Called(ctx, jti, ttl).Error(0)
}

func (m *mockDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m, err := NewManager(Config{JWTSecret: testSecret, TokenTTL: time.Hour}, opts...)
	require.NoError(t, err)
	return m
}

func TestNewManager_RejectsShortSecret(t *testing.T) {
	_, err := NewManager(Config{JWTSecret: "short"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = NewManager(Config{})
	require.Error(t, err)
}

func TestIssueAndValidate(t *testing.T) {
	m := newTestManager(t)
	u := user.NewUser("Ada", "ada", "ada@example.com", "hash")

	tok, err := m.Issue(u)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeBearer, tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)

	claims, err := m.Validate(context.Background(), tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ada", claims.Username)
	assert.NotEmpty(t, claims.ID)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	m := newTestManager(t)
	u := user.NewUser("Ada", "ada", "ada@example.com", "hash")
	a, err := m.Issue(u)
	require.NoError(t, err)
	b, err := m.Issue(u)
	require.NoError(t, err)

	ca, err := m.Validate(context.Background(), a.AccessToken)
	require.NoError(t, err)
	cb, err := m.Validate(context.Background(), b.AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestValidate_Expired(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := newTestManager(t, WithClock(fixedClock(issuedAt)))
	tok, err := issuer.Issue(user.NewUser("Ada", "ada", "a@x.io", "h"))
	require.NoError(t, err)

	later := newTestManager(t, WithClock(fixedClock(issuedAt.Add(2*time.Hour))))
	_, err = later.Validate(context.Background(), tok.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTokenExpired))
}

func TestValidate_WrongSecret(t *testing.T) {
	tok, err := newTestManager(t).Issue(user.NewUser("Ada", "ada", "a@x.io", "h"))
	require.NoError(t, err)

	other, err := NewManager(Config{JWTSecret: "another-secret-of-enough-length"})
	require.NoError(t, err)
	_, err = other.Validate(context.Background(), tok.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTokenInvalid))
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{Username: "ada", RegisteredClaims: jwt.RegisteredClaims{
		ID:        "x",
		Issuer:    defaultIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestManager(t).Validate(context.Background(), raw)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTokenInvalid))
}

func TestValidate_Empty(t *testing.T) {
	_, err := newTestManager(t).Validate(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestValidate_Revoked(t *testing.T) {
	dl := new(mockDenylist)
	m := newTestManager(t, WithDenylist(dl))
	tok, err := m.Issue(user.NewUser("Ada", "ada", "a@x.io", "h"))
	require.NoError(t, err)

	dl.On("IsRevoked", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Once()
	_, err = m.Validate(context.Background(), tok.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTokenRevoked))
	dl.AssertExpectations(t)
}

func TestValidate_DenylistDown(t *testing.T) {
	dl := new(mockDenylist)
	m := newTestManager(t, WithDenylist(dl))
	tok, err := m.Issue(user.NewUser("Ada", "ada", "a@x.io", "h"))
	require.NoError(t, err)

	dl.On("IsRevoked", mock.Anything, mock.Anything).Return(false, stderrors.New("redis down"))
	_, err = m.Validate(context.Background(), tok.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestRevoke_UsesRemainingLifetime(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dl := new(mockDenylist)
	m := newTestManager(t, WithDenylist(dl), WithClock(fixedClock(now)))
	tok, err := m.Issue(user.NewUser("Ada", "ada", "a@x.io", "h"))
	require.NoError(t, err)

	dl.On("IsRevoked", mock.Anything, mock.Anything).Return(false, nil)
	claims, err := m.Validate(context.Background(), tok.AccessToken)
	require.NoError(t, err)

	dl.On("Revoke", mock.Anything, claims.ID, time.Hour).Return(nil).Once()
	require.NoError(t, m.Revoke(context.Background(), claims))
	dl.AssertExpectations(t)
}

func TestRevoke_WithoutDenylist(t *testing.T) {
	m := newTestManager(t)
	assert.NoError(t, m.Revoke(context.Background(), &Claims{}))
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	c := &Claims{Username: "ada"}
	got, ok := FromContext(NewContext(context.Background(), c))
	require.True(t, ok)
	assert.Same(t, c, got)
}

//Personal.AI order the ending
