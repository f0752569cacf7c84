// internal/api/client/listings.go
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"homefinder/internal/domain/listing"
	"homefinder/pkg/errors"
)

const (
	DefaultListLimit = 100
	MaxUploadSize    = 5 * 1024 * 1024
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ListListings is GET /listings/?skip=&limit=.
func (c *Client) ListListings(ctx context.Context, opts listing.ListOptions) ([]listing.Listing, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}
	q := url.Values{}
	q.Set("skip", strconv.Itoa(opts.Skip))
	q.Set("limit", strconv.Itoa(opts.Limit))

	r, _ := c.jsonRequest(http.MethodGet, "/listings/?"+q.Encode(), "", nil)
	var out []listing.Listing
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetListingByID has no single-item endpoint to call; it scans the public
// collection and reports *errors.NotFoundError on a miss.
func (c *Client) GetListingByID(ctx context.Context, id int64) (*listing.Listing, error) {
	all, err := c.ListListings(ctx, listing.ListOptions{})
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			l := all[i]
			return &l, nil
		}
	}
	return nil, errors.NewNotFoundError("listing", strconv.FormatInt(id, 10))
}

// MyListings is GET /listings/me.
func (c *Client) MyListings(ctx context.Context, token string) ([]listing.Listing, error) {
	r, _ := c.jsonRequest(http.MethodGet, "/listings/me", token, nil)
	var out []listing.Listing
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateListing is POST /listings/.
func (c *Client) CreateListing(ctx context.Context, token string, in listing.Input) (*listing.Listing, error) {
	r, err := c.jsonRequest(http.MethodPost, "/listings/", token, in)
	if err != nil {
		return nil, err
	}
	var out listing.Listing
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateListing is PUT /listings/{id}.
func (c *Client) UpdateListing(ctx context.Context, token string, id int64, in listing.Input) (*listing.Listing, error) {
	r, err := c.jsonRequest(http.MethodPut, "/listings/"+strconv.FormatInt(id, 10), token, in)
	if err != nil {
		return nil, err
	}
	var out listing.Listing
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteListing is DELETE /listings/{id}.
func (c *Client) DeleteListing(ctx context.Context, token string, id int64) error {
	r, _ := c.jsonRequest(http.MethodDelete, "/listings/"+strconv.FormatInt(id, 10), token, nil)
	return c.do(ctx, r, nil)
}

// Upload sends files as multipart field "files" to POST /upload/ and
// returns absolute URLs in upload order.
func (c *Client) Upload(ctx context.Context, token string, files []listing.UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	for _, f := range files {
		if err := checkUpload(f); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", filepath.Base(f.Name))
		if err != nil {
			return nil, fmt.Errorf("client: upload %s: %w", f.Name, err)
		}
		n, err := io.Copy(part, io.LimitReader(f.Content, MaxUploadSize+1))
		if err != nil {
			return nil, fmt.Errorf("client: upload %s: %w", f.Name, err)
		}
		if n > MaxUploadSize {
			return nil, errors.NewFieldError("files", fmt.Sprintf("%s is larger than 5MB", f.Name))
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("client: upload: %w", err)
	}

	r := request{
		method:      http.MethodPost,
		path:        "/upload/",
		token:       token,
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}
	var paths []string
	if err := c.do(ctx, r, &paths); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(paths))
	for _, u := range paths {
		urls = append(urls, c.ResolveURL(u))
	}
	return urls, nil
}

func checkUpload(f listing.UploadFile) error {
	ext := strings.ToLower(filepath.Ext(f.Name))
	if !allowedImageExt[ext] {
		return errors.NewFieldError("files", fmt.Sprintf("%s: only jpg, jpeg, png, gif and webp images are allowed", f.Name))
	}
	if f.Size > MaxUploadSize {
		return errors.NewFieldError("files", fmt.Sprintf("%s is larger than 5MB", f.Name))
	}
	if f.Content == nil {
		return errors.NewFieldError("files", f.Name+": empty file")
	}
	return nil
}
