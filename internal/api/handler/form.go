// internal/api/handler/form.go
package handler

import (
	"bytes"
	"encoding/json"

	"homefinder/internal/domain/listing"
)

// formValue is a form field that a UI may send as a JSON string or number.
// It is kept as text so the listing form applies its own numeric rules.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}
	*v = formValue(data)
	return nil
}

type formRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Type        listing.Type `json:"type"`
	Price       formValue    `json:"price"`
	Rooms       formValue    `json:"rooms"`
	Sqm         formValue    `json:"sqm"`
	Lat         formValue    `json:"lat"`
	Lng         formValue    `json:"lng"`
	AC          bool         `json:"ac"`
	Mamad       bool         `json:"mamad"`
	Parking     bool         `json:"parking"`
	Balcony     bool         `json:"balcony"`
	Furnished   bool         `json:"furnished"`
	Images      []string     `json:"images"`
}

// apply copies the request onto form. Type and coordinates left empty keep
// the form's defaults.
func (req formRequest) apply(form *listing.Form) {
	form.Title = req.Title
	form.Description = req.Description
	form.Location = req.Location
	if req.Type != "" {
		form.Type = req.Type
	}
	form.Price = string(req.Price)
	form.Rooms = string(req.Rooms)
	form.Sqm = string(req.Sqm)
	if req.Lat != "" {
		form.Lat = string(req.Lat)
	}
	if req.Lng != "" {
		form.Lng = string(req.Lng)
	}
	form.AC = req.AC
	form.Mamad = req.Mamad
	form.Parking = req.Parking
	form.Balcony = req.Balcony
	form.Furnished = req.Furnished
	form.Images = req.Images
}
