// internal/domain/session/model.go
package session

// User is the signed-in account as returned by GET /users/me. It is never
// persisted.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// DisplayName falls back to the email when the account has no name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

type Status string

const (
	// StatusAnonymous: no token, nothing to reconcile.
	StatusAnonymous Status = "anonymous"
	// StatusTokenOnly: a token is held but the user has not been fetched yet.
	StatusTokenOnly Status = "token_only"
	// StatusAuthenticated: token and user are both present.
	StatusAuthenticated Status = "authenticated"
	// StatusInvalid: the last token was rejected by the backend and has been cleared.
	StatusInvalid Status = "invalid"
)

// Snapshot is a consistent copy of the session at one instant.
type Snapshot struct {
	Status   Status `json:"status"`
	Token    string `json:"-"`
	HasToken bool   `json:"has_token"`
	User     *User  `json:"user,omitempty"`
}
