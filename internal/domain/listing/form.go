// internal/domain/listing/form.go
package listing

import (
	"regexp"
	"strconv"
	"strings"

	"homefinder/pkg/errors"
)

const (
	DefaultLat = "32.0853"
	DefaultLng = "34.7818"
)

var (
	leadingIntRegexp   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloatRegexp = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Form is the create/edit form as typed by the user: numbers are still text.
type Form struct {
	Title       string
	Description string
	Location    string
	Type        Type

	Price string
	Rooms string
	Sqm   string
	Lat   string
	Lng   string

	AC        bool
	Mamad     bool
	Parking   bool
	Balcony   bool
	Furnished bool

	// Images already uploaded, as absolute URLs.
	Images []string

	// ResolvedLocation is the address Lat/Lng were last geocoded from.
	ResolvedLocation string
}

// NewForm returns an empty form with the default type and map position.
func NewForm() Form {
	return Form{
		Type: TypeRent,
		Lat:  DefaultLat,
		Lng:  DefaultLng,
	}
}

// FormFromListing pre-fills the edit form.
func FormFromListing(l Listing) Form {
	return Form{
		Title:       l.Title,
		Description: l.Description,
		Location:    l.Location,
		Type:        l.Type,
		Price:       strconv.FormatInt(int64(l.Price), 10),
		Rooms:       strconv.Itoa(l.Rooms),
		Sqm:         strconv.Itoa(l.Sqm),
		Lat:         strconv.FormatFloat(l.Lat, 'f', -1, 64),
		Lng:         strconv.FormatFloat(l.Lng, 'f', -1, 64),
		AC:          l.AC,
		Mamad:       l.Mamad,
		Parking:     l.Parking,
		Balcony:     l.Balcony,
		Furnished:   l.Furnished,
		Images:      append([]string(nil), l.Images...),

		ResolvedLocation: strings.TrimSpace(l.Location),
	}
}

// Input converts the form to a payload.
//
// In lenient mode a number is read from the leading digits of its field and
// falls back to 0, so "abc" becomes 0 and "12 rooms" becomes 12. In strict mode
// any field that is not entirely a number is a ValidationError.
func (f Form) Input(strict bool) (Input, error) {
	in := Input{
		Title:       strings.TrimSpace(f.Title),
		Description: f.Description,
		Location:    strings.TrimSpace(f.Location),
		Type:        f.Type,
		AC:          f.AC,
		Mamad:       f.Mamad,
		Parking:     f.Parking,
		Balcony:     f.Balcony,
		Furnished:   f.Furnished,
		Images:      append([]string{}, f.Images...),
	}
	if in.Type == "" {
		in.Type = TypeRent
	}

	var err error
	if in.Price, err = parseInt("price", f.Price, strict); err != nil {
		return Input{}, err
	}
	rooms, err := parseInt("rooms", f.Rooms, strict)
	if err != nil {
		return Input{}, err
	}
	sqm, err := parseInt("sqm", f.Sqm, strict)
	if err != nil {
		return Input{}, err
	}
	in.Rooms, in.Sqm = int(rooms), int(sqm)

	if in.Lat, err = parseFloat("lat", f.Lat, strict); err != nil {
		return Input{}, err
	}
	if in.Lng, err = parseFloat("lng", f.Lng, strict); err != nil {
		return Input{}, err
	}
	return in, nil
}

func parseInt(field, raw string, strict bool) (int64, error) {
	raw = strings.TrimSpace(raw)
	if strict {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, errors.NewFieldError(field, "must be a whole number")
		}
		return n, nil
	}
	return leadingInt(raw), nil
}

func parseFloat(field, raw string, strict bool) (float64, error) {
	raw = strings.TrimSpace(raw)
	if strict {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, errors.NewFieldError(field, "must be a number")
		}
		return v, nil
	}
	m := leadingFloatRegexp.FindString(raw)
	if m == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, nil
	}
	return v, nil
}

func leadingInt(s string) int64 {
	m := leadingIntRegexp.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
