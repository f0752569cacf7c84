// internal/domain/listing/fakes_test.go
package listing

import (
	"context"
	"strconv"
	"sync"

	"homefinder/internal/domain/session"
	"homefinder/pkg/errors"
)

type fakeAPI struct {
	mu sync.Mutex

	listings []Listing
	mine     []Listing
	listErr  error
	mineErr  error
	delErr   error
	saveErr  error
	upErr    error
	uploaded []string

	listCalls   int
	lastPage    ListOptions
	mineCalls   int
	deleted     []int64
	created     []Input
	updated     map[int64]Input
	uploadCalls int
	order       []string

	// block, when set, holds ListListings until it is closed.
	block chan struct{}
	// slow holds GetListingByID for the listed ids until the channel closes.
	slow map[int64]chan struct{}
}

func (f *fakeAPI) record(op string) {
	f.order = append(f.order, op)
}

func (f *fakeAPI) ListListings(ctx context.Context, opts ListOptions) ([]Listing, error) {
	f.mu.Lock()
	f.listCalls++
	f.lastPage = opts
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Listing(nil), f.listings...), nil
}

func (f *fakeAPI) GetListingByID(ctx context.Context, id int64) (*Listing, error) {
	f.mu.Lock()
	f.listCalls++
	wait := f.slow[id]
	f.mu.Unlock()
	if wait != nil {
		<-wait
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	for _, l := range f.listings {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, errors.NewNotFoundError("listing", strconv.FormatInt(id, 10))
}

func (f *fakeAPI) MyListings(ctx context.Context, token string) ([]Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mineCalls++
	f.record("GET /listings/me")
	if f.mineErr != nil {
		return nil, f.mineErr
	}
	return append([]Listing(nil), f.mine...), nil
}

func (f *fakeAPI) CreateListing(ctx context.Context, token string, in Input) (*Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("POST /listings/")
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.created = append(f.created, in)
	return &Listing{ID: int64(100 + len(f.created)), Title: in.Title, Images: in.Images}, nil
}

func (f *fakeAPI) UpdateListing(ctx context.Context, token string, id int64, in Input) (*Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("PUT /listings/" + strconv.FormatInt(id, 10))
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if f.updated == nil {
		f.updated = map[int64]Input{}
	}
	f.updated[id] = in
	return &Listing{ID: id, Title: in.Title}, nil
}

func (f *fakeAPI) DeleteListing(ctx context.Context, token string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DELETE /listings/" + strconv.FormatInt(id, 10))
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, id)
	out := f.mine[:0]
	for _, l := range f.mine {
		if l.ID != id {
			out = append(out, l)
		}
	}
	f.mine = out
	return nil
}

func (f *fakeAPI) Upload(ctx context.Context, token string, files []UploadFile) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	f.record("POST /upload/")
	if f.upErr != nil {
		return nil, f.upErr
	}
	return append([]string(nil), f.uploaded...), nil
}

// tokenSession is a real session holding token, kept in memory.
func tokenSession(token string) *session.State {
	s, err := session.NewState(context.Background(), session.NewMemoryStore(token))
	if err != nil {
		panic(err)
	}
	return s
}

type fakeGeocoder struct {
	lat, lng float64
	err      error
	queries  []string
}

func (g *fakeGeocoder) Geocode(ctx context.Context, q string) (float64, float64, error) {
	g.queries = append(g.queries, q)
	if g.err != nil {
		return 0, 0, g.err
	}
	return g.lat, g.lng, nil
}

type countingConfirmer struct {
	answer  bool
	prompts []string
}

func (c *countingConfirmer) Confirm(ctx context.Context, prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}
