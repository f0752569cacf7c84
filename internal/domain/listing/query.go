// internal/domain/listing/query.go
package listing

import (
	"context"
	"sync"

	"homefinder/internal/utils"
	"homefinder/pkg/errors"
)

// QueryController backs the browse page: it loads one page of the collection
// and narrows it client-side with the caller's Filter.
type QueryController struct {
	api    Reader
	logger *utils.Logger

	mu   sync.RWMutex
	gen  uint64
	view ListView
}

func NewQueryController(api Reader, logger *utils.Logger) *QueryController {
	return &QueryController{
		api:    api,
		logger: logger,
		view:   ListView{Phase: PhaseIdle},
	}
}

// Load fetches page and applies f. Every call gets its own result; only the
// most recently started call updates View, so a slow response never replaces
// a newer one.
func (c *QueryController) Load(ctx context.Context, page ListOptions, f Filter) ListView {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.view = ListView{Phase: PhaseLoading}
	c.mu.Unlock()

	var next ListView
	listings, err := c.api.ListListings(ctx, page)
	if err != nil {
		c.logger.Error("[listings] fetch failed: %v", err)
		next = ListView{Phase: PhaseError, Message: errors.UserMessage(err, MsgFetchListings), Err: err}
	} else {
		if listings == nil {
			listings = []Listing{}
		}
		next = ListView{Phase: PhaseSuccess, Listings: f.Apply(listings)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		c.view = next
	} else {
		c.logger.Debug("[listings] superseded load not stored")
	}
	return next
}

// View is the state left by the most recent load.
func (c *QueryController) View() ListView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}
