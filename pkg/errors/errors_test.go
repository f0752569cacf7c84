package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestUserMessagePrefersBackendDetail(t *testing.T) {
	err := fmt.Errorf("listing: create: %w", NewHTTPError(400, "Price must be positive"))
	if got := UserMessage(err, "Failed to create listing"); got != "Price must be positive" {
		t.Errorf("got %q", got)
	}
}

func TestUserMessageFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"http without detail", NewHTTPError(500, ""), "fallback"},
		{"network", NewNetworkError("GET /listings/", stderrors.New("dial tcp: refused")), "fallback"},
		{"validation", NewFieldError("price", "must be a number"), "price: must be a number"},
		{"auth", NewAuthenticationError("sign in required"), "sign in required"},
		{"conflict without detail", NewConflictError("", NewHTTPError(409, "")), MsgConflict},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err, "fallback"); got != tt.want {
				t.Errorf("UserMessage() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestClassification(t *testing.T) {
	wrapped := fmt.Errorf("session: whoami: %w", NewNetworkError("GET /users/me", stderrors.New("timeout")))
	if !IsNetwork(wrapped) {
		t.Error("expected wrapped NetworkError to be detected")
	}
	if _, ok := AsHTTP(wrapped); ok {
		t.Error("network error must not classify as HTTP error")
	}
	if !IsNotFound(fmt.Errorf("x: %w", NewNotFoundError("listing", "42"))) {
		t.Error("expected NotFoundError to be detected")
	}
}

func TestHTTPErrorMessage(t *testing.T) {
	if got := NewHTTPError(403, "").Error(); got != "request failed with status 403" {
		t.Errorf("got %q", got)
	}
	if got := NewHTTPError(403, "Could not validate credentials").Error(); got != "Could not validate credentials" {
		t.Errorf("got %q", got)
	}
}
