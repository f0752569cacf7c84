// internal/api/client/users.go
package client

import (
	"context"
	"net/http"

	"homefinder/internal/domain/auth"
	"homefinder/internal/domain/session"
)

// CurrentUser is GET /users/me.
func (c *Client) CurrentUser(ctx context.Context, token string) (*session.User, error) {
	r, _ := c.jsonRequest(http.MethodGet, "/users/me", token, nil)
	var user session.User
	if err := c.do(ctx, r, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile is PUT /users/me.
func (c *Client) UpdateProfile(ctx context.Context, token string, req auth.ProfileUpdate) (*session.User, error) {
	r, err := c.jsonRequest(http.MethodPut, "/users/me", token, req)
	if err != nil {
		return nil, err
	}
	var user session.User
	if err := c.do(ctx, r, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login is POST /login/access-token.
func (c *Client) Login(ctx context.Context, req auth.SignInRequest) (*auth.TokenResponse, error) {
	r, err := c.jsonRequest(http.MethodPost, "/login/access-token", "", req)
	if err != nil {
		return nil, err
	}
	var tok auth.TokenResponse
	if err := c.do(ctx, r, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Register is POST /register.
func (c *Client) Register(ctx context.Context, req auth.RegisterRequest) (*session.User, error) {
	r, err := c.jsonRequest(http.MethodPost, "/register", "", req)
	if err != nil {
		return nil, err
	}
	var user session.User
	if err := c.do(ctx, r, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
