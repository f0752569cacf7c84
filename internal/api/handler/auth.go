// internal/api/handler/auth.go
package handler

import (
	stderrors "errors"
	"net/http"
	"time"

	"homefinder/internal/domain/auth"
	"homefinder/internal/domain/session"
	"homefinder/internal/utils"
)

type AuthHandler struct {
	responder
	authService *auth.AuthService
	state       *session.State
	boot        *session.Bootstrapper
}

func NewAuthHandler(as *auth.AuthService, state *session.State, boot *session.Bootstrapper, logger *utils.Logger) *AuthHandler {
	return &AuthHandler{
		responder:   responder{logger: logger},
		authService: as,
		state:       state,
		boot:        boot,
	}
}

// SessionResponse is the session as shown to a UI. The token itself is never
// echoed back.
type SessionResponse struct {
	session.Snapshot
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	TokenExpired   bool       `json:"token_expired,omitempty"`
}

func newSessionResponse(snap session.Snapshot) SessionResponse {
	resp := SessionResponse{Snapshot: snap}
	if snap.Token == "" {
		return resp
	}
	if info := session.InspectToken(snap.Token); !info.ExpiresAt.IsZero() {
		exp := info.ExpiresAt.UTC()
		resp.TokenExpiresAt = &exp
		resp.TokenExpired = info.Expired(time.Now())
	}
	return resp
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req auth.SignInRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.authService.SignIn(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err, auth.MsgSignInFailed)
		return
	}
	WriteJSON(w, r, res, http.StatusOK)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		if stderrors.Is(err, auth.ErrRegisteredSignInFailed) {
			// the account exists; send the user to the sign-in page
			WriteJSON(w, r, res, http.StatusCreated)
			return
		}
		h.writeError(w, r, err, auth.MsgRegisterFailed)
		return
	}
	WriteJSON(w, r, res, http.StatusCreated)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	WriteJSON(w, r, auth.Result{Message: "Successfully logged out", Redirect: "/"}, http.StatusOK)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req auth.ProfileUpdate
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.authService.UpdateProfile(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err, auth.MsgProfileUpdateFailed)
		return
	}
	WriteJSON(w, r, res, http.StatusOK)
}

// Session reconciles a token-only session before answering, so a fresh
// process reports the user on its first call.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	h.boot.Reconcile(r.Context())
	WriteJSON(w, r, newSessionResponse(h.state.Snapshot()), http.StatusOK)
}
