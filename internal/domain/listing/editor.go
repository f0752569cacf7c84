// internal/domain/listing/editor.go
package listing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"homefinder/internal/domain/session"
	"homefinder/internal/utils"
	"homefinder/pkg/errors"
)

// MinGeocodeQuery is the shortest address worth sending to the geocoder.
const MinGeocodeQuery = 3

// Editor backs the create and edit pages. It holds no per-form state, so one
// Editor serves any number of forms at once.
type Editor struct {
	api       OwnerAPI
	geocoder  Geocoder
	session   session.Guard
	validator Validator
	logger    *utils.Logger
	strict    bool
}

type EditorOption func(*Editor)

// WithStrictNumbers rejects numeric fields that are not entirely numbers
// instead of coercing them.
func WithStrictNumbers(strict bool) EditorOption {
	return func(e *Editor) { e.strict = strict }
}

func NewEditor(api OwnerAPI, geocoder Geocoder, sess session.Guard, v Validator, logger *utils.Logger, opts ...EditorOption) *Editor {
	e := &Editor{
		api:       api,
		geocoder:  geocoder,
		session:   sess,
		validator: v,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveLocation geocodes form.Location into form.Lat/Lng. Addresses shorter
// than MinGeocodeQuery, and the address this form already resolved, are
// skipped. On any failure the coordinates keep their previous values and the
// error is returned for display.
func (e *Editor) ResolveLocation(ctx context.Context, form *Form) (bool, error) {
	query := strings.TrimSpace(form.Location)
	if len([]rune(query)) < MinGeocodeQuery || query == form.ResolvedLocation {
		return false, nil
	}

	lat, lng, err := e.geocoder.Geocode(ctx, query)
	if err != nil {
		e.logger.Warn("[geocode] %q: %v", query, err)
		return false, err
	}

	form.Lat = strconv.FormatFloat(lat, 'f', -1, 64)
	form.Lng = strconv.FormatFloat(lng, 'f', -1, 64)
	form.ResolvedLocation = query
	return true, nil
}

// Create uploads files, if any, then creates the listing referencing them.
func (e *Editor) Create(ctx context.Context, form Form, files []UploadFile) (*Listing, error) {
	token, in, err := e.prepare(ctx, form, files)
	if err != nil {
		return nil, err
	}

	created, err := e.api.CreateListing(ctx, token, in)
	if err != nil {
		if rejected(ctx, e.session, token, err, e.logger) {
			return nil, errors.NewAuthenticationError(session.MsgExpired)
		}
		e.logger.Error("[editor] create failed: %v", err)
		return nil, fmt.Errorf("listing: create: %w", err)
	}
	e.logger.Info("[editor] created listing %d", created.ID)
	return created, nil
}

// Update is Create for an existing listing.
func (e *Editor) Update(ctx context.Context, id int64, form Form, files []UploadFile) (*Listing, error) {
	token, in, err := e.prepare(ctx, form, files)
	if err != nil {
		return nil, err
	}

	updated, err := e.api.UpdateListing(ctx, token, id, in)
	if err != nil {
		if rejected(ctx, e.session, token, err, e.logger) {
			return nil, errors.NewAuthenticationError(session.MsgExpired)
		}
		e.logger.Error("[editor] update %d failed: %v", id, err)
		return nil, fmt.Errorf("listing: update %d: %w", id, err)
	}
	return updated, nil
}

func (e *Editor) prepare(ctx context.Context, form Form, files []UploadFile) (string, Input, error) {
	token, err := requireToken(e.session)
	if err != nil {
		return "", Input{}, err
	}

	in, err := form.Input(e.strict)
	if err != nil {
		return "", Input{}, err
	}
	if err := e.validator.Validate(&in); err != nil {
		return "", Input{}, err
	}

	if len(files) > 0 {
		urls, err := e.api.Upload(ctx, token, files)
		if err != nil {
			if rejected(ctx, e.session, token, err, e.logger) {
				return "", Input{}, errors.NewAuthenticationError(session.MsgExpired)
			}
			e.logger.Error("[editor] upload failed: %v", err)
			return "", Input{}, fmt.Errorf("listing: upload: %w", err)
		}
		in.Images = append(in.Images, urls...)
	}
	return token, in, nil
}
