// internal/domain/listing/owner.go
package listing

import (
	"context"
	"fmt"
	"sync"

	"homefinder/internal/domain/session"
	"homefinder/internal/utils"
	"homefinder/pkg/errors"
)

// OwnerController backs the "my properties" page. Its only write to the
// session is dropping a token the backend refused.
type OwnerController struct {
	api     OwnerAPI
	session session.Guard
	logger  *utils.Logger

	mu   sync.Mutex
	gen  uint64
	view ListView
}

func NewOwnerController(api OwnerAPI, sess session.Guard, logger *utils.Logger) *OwnerController {
	return &OwnerController{
		api:     api,
		session: sess,
		logger:  logger,
		view:    ListView{Phase: PhaseIdle},
	}
}

// Load fetches the caller's listings. Without a token, or once the backend
// refuses the token, it returns an AuthenticationError pointing at the
// sign-in page.
func (c *OwnerController) Load(ctx context.Context) (ListView, error) {
	token, err := requireToken(c.session)
	if err != nil {
		return ListView{Phase: PhaseIdle}, err
	}
	return c.load(ctx, token)
}

func (c *OwnerController) load(ctx context.Context, token string) (ListView, error) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.view = ListView{Phase: PhaseLoading}
	c.mu.Unlock()

	var next ListView
	listings, err := c.api.MyListings(ctx, token)
	switch {
	case err == nil:
		if listings == nil {
			listings = []Listing{}
		}
		next = ListView{Phase: PhaseSuccess, Listings: listings}
	case rejected(ctx, c.session, token, err, c.logger):
		authErr := errors.NewAuthenticationError(session.MsgExpired)
		next = ListView{Phase: PhaseError, Message: authErr.Message, Err: authErr}
		c.store(gen, next)
		return next, authErr
	default:
		c.logger.Error("[my-listings] fetch failed: %v", err)
		next = ListView{Phase: PhaseError, Message: errors.UserMessage(err, MsgFetchMyListings), Err: err}
	}
	c.store(gen, next)
	return next, nil
}

// store keeps v as the page state unless a newer load has started.
func (c *OwnerController) store(gen uint64, v ListView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		c.view = v
	}
}

// Delete asks confirm first. Declining, or a nil confirm, sends nothing. A
// confirmed delete issues one DELETE and, when it succeeds, one re-fetch of
// the list, which is returned.
func (c *OwnerController) Delete(ctx context.Context, id int64, confirm Confirmer) (ListView, bool, error) {
	token, err := requireToken(c.session)
	if err != nil {
		return ListView{}, false, err
	}
	if confirm == nil || !confirm.Confirm(ctx, DeletePrompt) {
		return ListView{}, false, nil
	}

	if err := c.api.DeleteListing(ctx, token, id); err != nil {
		if rejected(ctx, c.session, token, err, c.logger) {
			return ListView{}, false, errors.NewAuthenticationError(session.MsgExpired)
		}
		c.logger.Error("[my-listings] delete %d failed: %v", id, err)
		return ListView{}, false, fmt.Errorf("listing: delete %d: %w", id, err)
	}

	// the delete went through; a failed refetch only shows in the view
	v, _ := c.load(ctx, token)
	return v, true, nil
}

// View is the state left by the most recent load.
func (c *OwnerController) View() ListView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func requireToken(src session.TokenSource) (string, error) {
	token := src.Token()
	if token == "" {
		return "", errors.NewAuthenticationError(MsgSignInRequired)
	}
	return token, nil
}

// rejected clears the session when the backend answered 401 to token.
func rejected(ctx context.Context, inv session.Invalidator, token string, err error, logger *utils.Logger) bool {
	refused, clearErr := session.ClearIfUnauthorized(ctx, inv, token, err)
	if clearErr != nil {
		logger.Error("[session] %v", clearErr)
	}
	if refused {
		logger.Warn("[session] backend refused the token, signed out")
	}
	return refused
}
