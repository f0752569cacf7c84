// internal/domain/listing/view.go
package listing

// Phase is the lifecycle of one page load.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhaseSuccess  Phase = "success"
	PhaseError    Phase = "error"
	PhaseNotFound Phase = "not_found"
)

type ListView struct {
	Phase    Phase     `json:"phase"`
	Listings []Listing `json:"listings"`
	Message  string    `json:"message,omitempty"`
	Err      error     `json:"-"`
}

// Empty reports the "no listings" state: a successful load with nothing in it.
func (v ListView) Empty() bool {
	return v.Phase == PhaseSuccess && len(v.Listings) == 0
}

type DetailView struct {
	Phase   Phase    `json:"phase"`
	Listing *Listing `json:"listing,omitempty"`
	Message string   `json:"message,omitempty"`
	Err     error    `json:"-"`
}

const (
	MsgFetchListings   = "Failed to fetch listings"
	MsgFetchListing    = "Failed to fetch listing"
	MsgFetchMyListings = "Failed to fetch your listings"
	MsgDeleteListing   = "Failed to delete listing"
	MsgCreateListing   = "Failed to create listing"
	MsgUpdateListing   = "Failed to update listing"
	MsgUploadImages    = "Failed to upload images"
	MsgNotFound        = "Listing not found"
	MsgSignInRequired  = "Please sign in to manage your listings"

	DeletePrompt = "Are you sure you want to delete this listing?"
)
