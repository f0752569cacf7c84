// internal/domain/session/bootstrap.go
package session

import (
	"context"

	"golang.org/x/sync/singleflight"

	"homefinder/internal/utils"
	"homefinder/pkg/errors"
)

// Bootstrapper reconciles the stored token with the signed-in user.
type Bootstrapper struct {
	state   *State
	fetcher UserFetcher
	logger  *utils.Logger

	flights singleflight.Group
}

func NewBootstrapper(state *State, fetcher UserFetcher, logger *utils.Logger) *Bootstrapper {
	return &Bootstrapper{
		state:   state,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Reconcile fetches the user when a token is held without one. It is a no-op
// for anonymous and already authenticated sessions, and concurrent calls for
// the same token share a single request.
//
// An HTTP rejection clears the session. A network failure leaves it untouched.
func (b *Bootstrapper) Reconcile(ctx context.Context) Status {
	snap := b.state.Snapshot()
	if snap.Token == "" || snap.User != nil {
		return snap.Status
	}

	v, _, _ := b.flights.Do(snap.Token, func() (any, error) {
		cur := b.state.Snapshot()
		if cur.Token != snap.Token || cur.User != nil {
			return cur.Status, nil
		}
		return b.whoami(ctx, snap.Token), nil
	})
	return v.(Status)
}

func (b *Bootstrapper) whoami(ctx context.Context, token string) Status {
	user, err := b.fetcher.CurrentUser(ctx, token)
	if err == nil {
		if !b.state.SetUser(token, user) {
			b.logger.Debug("[session] token changed while fetching user, result dropped")
		}
		return b.state.Status()
	}

	if he, ok := errors.AsHTTP(err); ok {
		b.logger.Warn("[session] token invalid or expired (status %d), clearing session", he.Status)
		if _, clearErr := b.state.Invalidate(ctx, token); clearErr != nil {
			b.logger.Error("[session] %v", clearErr)
		}
		return b.state.Status()
	}

	b.logger.Error("[session] fetching current user failed: %v", err)
	return b.state.Status()
}

// Watch reconciles once, then again every time the session enters the
// token-only state, until ctx is done.
func (b *Bootstrapper) Watch(ctx context.Context) {
	updates, cancel := b.state.Subscribe()
	defer cancel()

	b.Reconcile(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if snap.Status == StatusTokenOnly {
				b.Reconcile(ctx)
			}
		}
	}
}
