// internal/domain/listing/interfaces.go
package listing

import "context"

// Reader is the public, unauthenticated side of the listings API.
type Reader interface {
	ListListings(ctx context.Context, opts ListOptions) ([]Listing, error)
	GetListingByID(ctx context.Context, id int64) (*Listing, error)
}

// OwnerAPI is the authenticated side. Every call carries the caller's token.
type OwnerAPI interface {
	MyListings(ctx context.Context, token string) ([]Listing, error)
	CreateListing(ctx context.Context, token string, in Input) (*Listing, error)
	UpdateListing(ctx context.Context, token string, id int64, in Input) (*Listing, error)
	DeleteListing(ctx context.Context, token string, id int64) error
	Upload(ctx context.Context, token string, files []UploadFile) ([]string, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (lat, lng float64, err error)
}

type Validator interface {
	Validate(interface{}) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }
