// internal/domain/auth/interfaces.go
package auth

import (
	"context"

	"homefinder/internal/domain/session"
)

type Validator interface {
	Validate(interface{}) error
}

// API is the slice of the backend the auth flows talk to.
type API interface {
	Login(ctx context.Context, req SignInRequest) (*TokenResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*session.User, error)
	UpdateProfile(ctx context.Context, token string, req ProfileUpdate) (*session.User, error)
}

// SessionWriter is the write side of the session. The auth service is one of
// its designated writers.
type SessionWriter interface {
	Token() string
	SetToken(ctx context.Context, token string) error
	SetUser(token string, u *session.User) bool
	Invalidate(ctx context.Context, token string) (bool, error)
	Logout(ctx context.Context) error
}
