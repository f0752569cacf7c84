// internal/domain/session/interfaces.go
package session

import "context"

// TokenStore persists the bearer token. An absent token loads as "".
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// UserFetcher resolves a token to its account (GET /users/me).
type UserFetcher interface {
	CurrentUser(ctx context.Context, token string) (*User, error)
}

// TokenSource is the read-only view handed to page controllers.
type TokenSource interface {
	Token() string
}

// Invalidator drops token once the backend has rejected it.
type Invalidator interface {
	Invalidate(ctx context.Context, token string) (bool, error)
}

// Guard is the session as seen by flows acting on the user's behalf: the
// token to send, and a way to drop it when the backend refuses it.
type Guard interface {
	TokenSource
	Invalidator
}
