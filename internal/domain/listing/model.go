// internal/domain/listing/model.go
package listing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Type string

const (
	TypeRent Type = "rent"
	TypeSale Type = "sale"
)

// Listing is a property record as served by the backend.
type Listing struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location"`
	Price       Price    `json:"price"`
	Type        Type     `json:"type"`
	Rooms       int      `json:"rooms"`
	Sqm         int      `json:"sqm"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	AC          bool     `json:"ac"`
	Mamad       bool     `json:"mamad"`
	Parking     bool     `json:"parking"`
	Balcony     bool     `json:"balcony"`
	Furnished   bool     `json:"furnished"`
	Images      []string `json:"images"`
	OwnerID     int64    `json:"owner_id,omitempty"`
}

// DisplayImage is the first image, or placeholder when there is none.
func (l Listing) DisplayImage(placeholder string) string {
	if len(l.Images) > 0 && l.Images[0] != "" {
		return l.Images[0]
	}
	return placeholder
}

// Price accepts both a JSON number and a numeric JSON string; the backend
// schema declares a string while the client sends an integer. Anything
// unparsable decodes as 0.
type Price int64

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(leadingInt(strings.ReplaceAll(s, ",", "")))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("listing: price: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*p = Price(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("listing: price: %w", err)
	}
	*p = Price(int64(f))
	return nil
}

func (p Price) String() string {
	return strconv.FormatInt(int64(p), 10)
}

// Input is the JSON payload for creating or editing a listing.
type Input struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location" validate:"required"`
	Price       int64    `json:"price" validate:"gte=0"`
	Type        Type     `json:"type" validate:"required,oneof=rent sale"`
	Rooms       int      `json:"rooms" validate:"gte=0"`
	Sqm         int      `json:"sqm" validate:"gte=0"`
	Lat         float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64  `json:"lng" validate:"gte=-180,lte=180"`
	AC          bool     `json:"ac"`
	Mamad       bool     `json:"mamad"`
	Parking     bool     `json:"parking"`
	Balcony     bool     `json:"balcony"`
	Furnished   bool     `json:"furnished"`
	Images      []string `json:"images"`
}

// ListOptions maps to the backend's skip/limit query parameters.
type ListOptions struct {
	Skip  int
	Limit int
}

// UploadFile is one image handed to the upload endpoint.
type UploadFile struct {
	Name    string
	Size    int64
	Content io.Reader
}
