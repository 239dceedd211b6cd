package client

import (
	"context"
	"time"
)

type SignupRequest struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthResult struct {
	User  *User  `json:"user"`
	Token *Token `json:"token"`
}

// AuthClient manages accounts and the client's bearer token.
type AuthClient struct {
	client *Client
}

// Signup registers an account and adopts the returned token.
func (a *AuthClient) Signup(ctx context.Context, req *SignupRequest) (*AuthResult, error) {
	return a.authenticate(ctx, "/api/v1/auth/signup", req)
}

// Login adopts the returned token for later calls.
func (a *AuthClient) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	return a.authenticate(ctx, "/api/v1/auth/login", &LoginRequest{Username: username, Password: password})
}

// Logout revokes the current token server-side and forgets it.
func (a *AuthClient) Logout(ctx context.Context) error {
	if err := a.client.post(ctx, "/api/v1/auth/logout", nil, nil); err != nil {
		return err
	}
	a.client.SetToken("")
	return nil
}

func (a *AuthClient) authenticate(ctx context.Context, path string, body interface{}) (*AuthResult, error) {
	var res AuthResult
	if err := a.client.post(ctx, path, body, &res); err != nil {
		return nil, err
	}
	if res.Token != nil {
		a.client.SetToken(res.Token.AccessToken)
	}
	return &res, nil
}

//Personal.AI order the ending
