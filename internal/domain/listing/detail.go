// internal/domain/listing/detail.go
package listing

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"homefinder/internal/utils"
	"homefinder/pkg/errors"
)

// DetailController backs the single-listing page.
type DetailController struct {
	api    Reader
	logger *utils.Logger

	mu   sync.Mutex
	gen  uint64
	view DetailView
}

func NewDetailController(api Reader, logger *utils.Logger) *DetailController {
	return &DetailController{api: api, logger: logger, view: DetailView{Phase: PhaseIdle}}
}

// Load resolves rawID, the identifier taken from the route. An id that is not
// a number cannot match anything and is reported as not found. The result is
// always this call's own; View only follows the most recent call.
func (c *DetailController) Load(ctx context.Context, rawID string) DetailView {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.view = DetailView{Phase: PhaseLoading}
	c.mu.Unlock()

	var next DetailView
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		next = DetailView{Phase: PhaseNotFound, Message: MsgNotFound}
	} else {
		next = c.fetch(ctx, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		c.view = next
	}
	return next
}

func (c *DetailController) fetch(ctx context.Context, id int64) DetailView {
	l, err := c.api.GetListingByID(ctx, id)
	switch {
	case err == nil:
		return DetailView{Phase: PhaseSuccess, Listing: l}
	case errors.IsNotFound(err):
		return DetailView{Phase: PhaseNotFound, Message: MsgNotFound}
	default:
		c.logger.Error("[listings] fetch %d failed: %v", id, err)
		return DetailView{Phase: PhaseError, Message: errors.UserMessage(err, MsgFetchListing), Err: err}
	}
}

func (c *DetailController) View() DetailView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}
