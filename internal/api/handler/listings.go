// internal/api/handler/listings.go
package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"homefinder/internal/domain/listing"
	"homefinder/internal/utils"
	"homefinder/pkg/errors"
)

const maxMultipartMemory = 32 << 20

type ListingHandler struct {
	responder
	query       *listing.QueryController
	detail      *listing.DetailController
	owner       *listing.OwnerController
	editor      *listing.Editor
	placeholder string
}

func NewListingHandler(
	query *listing.QueryController,
	detail *listing.DetailController,
	owner *listing.OwnerController,
	editor *listing.Editor,
	placeholder string,
	logger *utils.Logger,
) *ListingHandler {
	return &ListingHandler{
		responder:   responder{logger: logger},
		query:       query,
		detail:      detail,
		owner:       owner,
		editor:      editor,
		placeholder: placeholder,
	}
}

// listingResponse adds the image to show for a listing.
type listingResponse struct {
	listing.Listing
	DisplayImage string `json:"display_image"`
}

type listResponse struct {
	Phase    listing.Phase     `json:"phase"`
	Listings []listingResponse `json:"listings"`
	Empty    bool              `json:"empty"`
	Message  string            `json:"message,omitempty"`
}

func (h *ListingHandler) toResponse(l listing.Listing) listingResponse {
	return listingResponse{Listing: l, DisplayImage: l.DisplayImage(h.placeholder)}
}

func (h *ListingHandler) writeList(w http.ResponseWriter, r *http.Request, v listing.ListView) {
	resp := listResponse{
		Phase:    v.Phase,
		Listings: make([]listingResponse, 0, len(v.Listings)),
		Empty:    v.Empty(),
		Message:  v.Message,
	}
	for _, l := range v.Listings {
		resp.Listings = append(resp.Listings, h.toResponse(l))
	}

	status := http.StatusOK
	if v.Phase == listing.PhaseError {
		status = StatusFor(v.Err)
	}
	WriteJSON(w, r, resp, status)
}

// List is the browse page. Filters and skip/limit come from the query string.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := listing.ParseFilter(q)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	page, err := listing.ParsePage(q)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	h.writeList(w, r, h.query.Load(r.Context(), page, f))
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	v := h.detail.Load(r.Context(), chi.URLParam(r, "id"))
	switch v.Phase {
	case listing.PhaseSuccess:
		WriteJSON(w, r, h.toResponse(*v.Listing), http.StatusOK)
	case listing.PhaseNotFound:
		WriteJSON(w, r, Error{Status: http.StatusNotFound, Message: v.Message}, http.StatusNotFound)
	default:
		h.writeError(w, r, v.Err, listing.MsgFetchListing)
	}
}

func (h *ListingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	v, err := h.owner.Load(r.Context())
	if err != nil {
		h.writeError(w, r, err, listing.MsgFetchMyListings)
		return
	}
	h.writeList(w, r, v)
}

// Delete only goes through with ?confirm=true, the gateway's answer to the
// confirmation prompt.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	v, deleted, err := h.owner.Delete(r.Context(), id, listing.ConfirmFunc(func(_ context.Context, _ string) bool {
		return confirmed
	}))
	if err != nil {
		h.writeError(w, r, err, listing.MsgDeleteListing)
		return
	}
	if !deleted {
		WriteJSON(w, r, map[string]interface{}{"deleted": false, "prompt": listing.DeletePrompt}, http.StatusOK)
		return
	}
	h.writeList(w, r, v)
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, files, cleanup, ok := h.readForm(w, r, listing.NewForm())
	if !ok {
		return
	}
	defer cleanup()
	created, err := h.editor.Create(r.Context(), form, files)
	if err != nil {
		h.writeError(w, r, err, listing.MsgCreateListing)
		return
	}
	WriteJSON(w, r, h.toResponse(*created), http.StatusCreated)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	form, files, cleanup, ok := h.readForm(w, r, listing.NewForm())
	if !ok {
		return
	}
	defer cleanup()
	updated, err := h.editor.Update(r.Context(), id, form, files)
	if err != nil {
		h.writeError(w, r, err, listing.MsgUpdateListing)
		return
	}
	WriteJSON(w, r, h.toResponse(*updated), http.StatusOK)
}

type geocodeRequest struct {
	Location string    `json:"location"`
	Lat      formValue `json:"lat"`
	Lng      formValue `json:"lng"`
}

type geocodeResponse struct {
	Resolved bool   `json:"resolved"`
	Lat      string `json:"lat"`
	Lng      string `json:"lng"`
	Message  string `json:"message,omitempty"`
}

// Geocode resolves an address typed into the editor. A failed lookup is not
// an HTTP error: the coordinates simply come back unchanged.
func (h *ListingHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	var req geocodeRequest
	if !h.decode(w, r, &req) {
		return
	}
	form := listing.NewForm()
	form.Location = req.Location
	if req.Lat != "" {
		form.Lat = string(req.Lat)
	}
	if req.Lng != "" {
		form.Lng = string(req.Lng)
	}

	resolved, err := h.editor.ResolveLocation(r.Context(), &form)
	resp := geocodeResponse{Resolved: resolved, Lat: form.Lat, Lng: form.Lng}
	if err != nil {
		resp.Message = errors.UserMessage(err, "Could not find that address")
	}
	WriteJSON(w, r, resp, http.StatusOK)
}

func (h *ListingHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, r, errors.NewNotFoundError("listing", chi.URLParam(r, "id")), listing.MsgNotFound)
		return 0, false
	}
	return id, true
}

// readForm accepts either a JSON form body or a multipart body with the form
// JSON in field "listing" and images in field "files". cleanup closes the
// uploaded files.
func (h *ListingHandler) readForm(w http.ResponseWriter, r *http.Request, form listing.Form) (listing.Form, []listing.UploadFile, func(), bool) {
	var body formRequest
	var files []listing.UploadFile
	var opened []io.Closer
	cleanup := func() {
		for _, c := range opened {
			c.Close()
		}
	}

	if !isMultipart(r) {
		if !h.decode(w, r, &body) {
			return form, nil, cleanup, false
		}
		body.apply(&form)
		return form, nil, cleanup, true
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.writeError(w, r, errors.NewBadRequestError("invalid multipart body"), "")
		return form, nil, cleanup, false
	}
	if err := json.Unmarshal([]byte(r.FormValue("listing")), &body); err != nil {
		h.writeError(w, r, errors.NewBadRequestError("invalid listing field"), "")
		return form, nil, cleanup, false
	}
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			cleanup()
			h.writeError(w, r, errors.NewBadRequestError("unreadable file "+fh.Filename), "")
			return form, nil, func() {}, false
		}
		opened = append(opened, f)
		files = append(files, listing.UploadFile{Name: fh.Filename, Size: fh.Size, Content: f})
	}

	body.apply(&form)
	return form, files, cleanup, true
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
