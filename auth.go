package markly

import (
	"context"
	"fmt"

	"github.com/marklyhq/markly.go/pkg/models"
)

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// TokenResponse carries the opaque bearer token issued by the auth
// endpoints. The profile is not included; fetch it with Me.
type TokenResponse struct {
	Token string `json:"token"`
}

// UpdateProfileRequest is the partial payload for PUT /api/me.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// Login exchanges credentials for a bearer token. The token is returned
// to the caller, not stored: persisting it is the session store's job.
// A 2xx response without a token fails with ErrNoToken.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req := LoginRequest{Email: email, Password: password}
	if err := c.checkRequest(req); err != nil {
		return "", err
	}

	var resp TokenResponse
	if err := c.Post(ctx, "/api/auth/login", req, &resp); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return "", ErrNoToken
	}
	return resp.Token, nil
}

// Register creates an account and returns its bearer token. Shape is
// identical to Login apart from the endpoint and the username field.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	req := RegisterRequest{Username: username, Email: email, Password: password}
	if err := c.checkRequest(req); err != nil {
		return "", err
	}

	var resp TokenResponse
	if err := c.Post(ctx, "/api/auth/register", req, &resp); err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	if resp.Token == "" {
		return "", ErrNoToken
	}
	return resp.Token, nil
}

// Me fetches the profile of the token's owner.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.Get(ctx, "/api/me", &user); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &user, nil
}

// UpdateMe applies a partial profile update and returns the new profile.
func (c *Client) UpdateMe(ctx context.Context, req UpdateProfileRequest) (*models.User, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}

	var user models.User
	if err := c.Put(ctx, "/api/me", req, &user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}
