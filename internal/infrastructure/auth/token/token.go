// Package token issues and validates the HS256 bearer tokens handed out at
// login, and revokes them through a denylist keyed by token id.
package token

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/turtacn/patent-litigation-graph/internal/domain/user"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

const (
	minSecretLen    = 16
	defaultTTL      = 24 * time.Hour
	defaultIssuer   = "patent-litigation-graph"
	TokenTypeBearer = "Bearer"
)

// Config is the auth configuration section. JWTSecret has no default.
type Config struct {
	JWTSecret  string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	Issuer     string        `mapstructure:"issuer" yaml:"issuer"`
	TokenTTL   time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
}

// Claims carried by an access token. Subject holds the user id.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID parses the subject.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Token is what a successful login returns.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Denylist stores revoked token ids. It is implemented by the Redis store.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Option customizes a Manager.
type Option func(*Manager)

// WithDenylist enables revocation checks. Without one, Revoke is a no-op.
func WithDenylist(d Denylist) Option {
	return func(m *Manager) { m.denylist = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager issues and validates tokens.
type Manager struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	denylist Denylist
	now      func() time.Time
}

func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if len(cfg.JWTSecret) < minSecretLen {
		return nil, errors.Validation("auth.jwt_secret", "jwt secret must be at least 16 bytes")
	}
	m := &Manager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
	if m.issuer == "" {
		m.issuer = defaultIssuer
	}
	if m.ttl <= 0 {
		m.ttl = defaultTTL
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue signs a token for u.
func (m *Manager) Issue(u *user.User) (*Token, error) {
	if u == nil {
		return nil, errors.InvalidParam("user is required")
	}
	now := m.now()
	exp := now.Add(m.ttl)
	claims := &Claims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to sign token")
	}
	return &Token{AccessToken: signed, TokenType: TokenTypeBearer, ExpiresAt: exp}, nil
}

// Validate parses raw and checks signature, issuer, expiry and revocation.
// A denylist that cannot be reached fails the request rather than letting a
// possibly revoked token through.
func (m *Manager) Validate(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "missing bearer token")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrap(err, errors.ErrCodeTokenExpired, "token expired")
		}
		return nil, errors.Wrap(err, errors.ErrCodeTokenInvalid, "invalid token")
	}
	if claims.ID == "" {
		return nil, errors.New(errors.ErrCodeTokenInvalid, "token has no id")
	}

	if m.denylist != nil {
		revoked, err := m.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "token denylist unavailable")
		}
		if revoked {
			return nil, errors.New(errors.ErrCodeTokenRevoked, "token revoked")
		}
	}
	return claims, nil
}

// Revoke denylists claims until they would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if m.denylist == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(m.now())
	if err := m.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to revoke token")
	}
	return nil
}

type claimsKey struct{}

// NewContext stores validated claims on ctx.
func NewContext(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// FromContext returns the claims stored by NewContext.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

//Personal.AI order the ending
