// Package account implements signup, login and logout on top of the user
// store and the bearer token manager.
package account

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/turtacn/patent-litigation-graph/internal/domain/user"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/auth/token"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
	"github.com/turtacn/patent-litigation-graph/pkg/validation"
)

// SignupInput is the registration form.
type SignupInput struct {
	Name            string `json:"name" validate:"required,max=100"`
	Username        string `json:"username" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,max=72"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginInput is the login form.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	User  *user.User   `json:"user"`
	Token *token.Token `json:"token"`
}

// Tokens issues and revokes bearer tokens.
type Tokens interface {
	Issue(u *user.User) (*token.Token, error)
	Revoke(ctx context.Context, claims *token.Claims) error
}

type Service interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, claims *token.Claims) error
}

type Option func(*serviceImpl)

func WithMetrics(m *prometheus.AppMetrics) Option { return func(s *serviceImpl) { s.metrics = m } }

// WithBcryptCost sets the hashing cost for new passwords.
func WithBcryptCost(cost int) Option { return func(s *serviceImpl) { s.cost = cost } }

type serviceImpl struct {
	users   user.UserRepository
	tokens  Tokens
	cost    int
	metrics *prometheus.AppMetrics
	logger  logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewService(users user.UserRepository, tokens Tokens, logger logging.Logger, opts ...Option) Service {
	s := &serviceImpl{users: users, tokens: tokens, cost: bcrypt.DefaultCost, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup registers a user and logs them in. Checks run in a fixed order:
// name and username, email taken, username taken, password confirmation,
// then email format and password rules.
func (s *serviceImpl) Signup(ctx context.Context, in SignupInput) (res *AuthResult, err error) {
	defer func() { prometheus.RecordAuthAttempt(s.metrics, "signup", err) }()

	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = user.NormalizeEmail(in.Email)
	if err := validation.CheckPartial(&in, "Name", "Username"); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.New(errors.ErrCodeEmailExists, "email already registered")
	}
	exists, err = s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.New(errors.ErrCodeUsernameExists, "username already taken")
	}
	if in.Password != in.ConfirmPassword {
		return nil, errors.New(errors.ErrCodePasswordMismatch, "passwords do not match")
	}
	if err := validation.CheckPartial(&in, "Email", "Password"); err != nil {
		return nil, err
	}

	hash, err := user.HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, err
	}
	u := user.NewUser(in.Name, in.Username, in.Email, hash)
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("User registered", logging.String("user_id", u.ID.String()), logging.String("username", u.Username))

	return s.issue(ctx, u)
}

// Login never tells an unknown username apart from a wrong password.
func (s *serviceImpl) Login(ctx context.Context, in LoginInput) (res *AuthResult, err error) {
	defer func() { prometheus.RecordAuthAttempt(s.metrics, "login", err) }()

	in.Username = strings.TrimSpace(in.Username)
	if err := validation.Check(&in); err != nil {
		return nil, err
	}

	u, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if !errors.IsNotFound(err) {
			return nil, err
		}
		// Burn a comparison so both failure paths take similar time.
		user.CheckPassword(s.dummy(), in.Password)
		return nil, errors.New(errors.ErrCodeInvalidCredentials, "invalid username or password")
	}
	if !user.CheckPassword(u.PasswordHash, in.Password) {
		return nil, errors.New(errors.ErrCodeInvalidCredentials, "invalid username or password")
	}

	if err := s.users.UpdateLastLogin(ctx, u.ID); err != nil {
		s.logger.Warn("Failed to record last login", logging.String("user_id", u.ID.String()), logging.Err(err))
	}
	return s.issue(ctx, u)
}

func (s *serviceImpl) Logout(ctx context.Context, claims *token.Claims) (err error) {
	defer func() { prometheus.RecordAuthAttempt(s.metrics, "logout", err) }()

	if claims == nil {
		return errors.Unauthorized("not logged in")
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		s.logger.Error("Failed to revoke token", logging.String("jti", claims.ID), logging.Err(err))
		return err
	}
	s.logger.Info("User logged out", logging.String("user_id", claims.Subject))
	return nil
}

func (s *serviceImpl) issue(ctx context.Context, u *user.User) (*AuthResult, error) {
	tok, err := s.tokens.Issue(u)
	if err != nil {
		logging.FromContext(ctx, s.logger).Error("Failed to issue token", logging.String("user_id", u.ID.String()), logging.Err(err))
		return nil, err
	}
	return &AuthResult{User: u, Token: tok}, nil
}

func (s *serviceImpl) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = user.HashPassword("not-a-real-password", s.cost)
	})
	return s.dummyHash
}

//Personal.AI order the ending
