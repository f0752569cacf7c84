// internal/domain/session/reject.go
package session

import (
	"context"
	"net/http"

	"homefinder/pkg/errors"
)

// MsgExpired is shown when a request made on the user's behalf is refused.
const MsgExpired = "Your session has expired, please sign in again"

// ClearIfUnauthorized invalidates token when err is a 401 answer from the
// backend. rejected reports whether it was; clearErr is the store failure, if
// any. Memory is cleared either way, and a newer token is left alone.
func ClearIfUnauthorized(ctx context.Context, inv Invalidator, token string, err error) (rejected bool, clearErr error) {
	he, ok := errors.AsHTTP(err)
	if !ok || he.Status != http.StatusUnauthorized {
		return false, nil
	}
	_, clearErr = inv.Invalidate(ctx, token)
	return true, clearErr
}
