// internal/domain/auth/model.go
package auth

import "homefinder/internal/domain/session"

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
}

// TokenResponse is the body of POST /login/access-token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

type ProfileUpdate struct {
	FullName string `json:"full_name"`
	Email    string `json:"email" validate:"required,email"`
}

// Result is what a successful flow hands back to the page: a message and the
// route to go to next.
type Result struct {
	Message  string        `json:"message,omitempty"`
	Redirect string        `json:"redirect,omitempty"`
	User     *session.User `json:"user,omitempty"`
}

const (
	MsgSignInFailed        = "Failed to sign in"
	MsgRegisterFailed      = "Failed to register"
	MsgRegisteredSignIn    = "Registration successful, please sign in manually"
	MsgProfileUpdated      = "Profile updated successfully!"
	MsgProfileUpdateFailed = "Failed to update profile. Please try again."
	MsgProfileSignIn       = "Please sign in to edit your profile"
)
