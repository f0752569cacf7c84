// internal/domain/listing/filter.go
package listing

import (
	"net/url"
	"strconv"
	"strings"

	"homefinder/pkg/errors"
)

// Filter narrows an already fetched collection. The zero Filter matches
// everything.
type Filter struct {
	Type     Type
	City     string
	MinPrice int64
	MaxPrice int64
	Text     string
}

func (f Filter) IsZero() bool {
	return f == Filter{}
}

func (f Filter) Match(l Listing) bool {
	if f.Type != "" && l.Type != f.Type {
		return false
	}
	if f.City != "" && !containsFold(l.Location, f.City) {
		return false
	}
	if f.MinPrice > 0 && int64(l.Price) < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && int64(l.Price) > f.MaxPrice {
		return false
	}
	if f.Text != "" && !containsFold(l.Title, f.Text) && !containsFold(l.Description, f.Text) && !containsFold(l.Location, f.Text) {
		return false
	}
	return true
}

// Apply returns the matching listings in their original order.
func (f Filter) Apply(listings []Listing) []Listing {
	if f.IsZero() {
		return listings
	}
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// ParseFilter reads type, city, min_price, max_price and q. "buy" is accepted
// as an alias of sale.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		City: strings.TrimSpace(q.Get("city")),
		Text: strings.TrimSpace(q.Get("q")),
	}

	switch t := strings.ToLower(strings.TrimSpace(q.Get("type"))); t {
	case "":
	case "rent":
		f.Type = TypeRent
	case "sale", "buy":
		f.Type = TypeSale
	default:
		return Filter{}, errors.NewFieldError("type", "must be rent or sale")
	}

	var err error
	if f.MinPrice, err = parsePriceParam("min_price", q.Get("min_price")); err != nil {
		return Filter{}, err
	}
	if f.MaxPrice, err = parsePriceParam("max_price", q.Get("max_price")); err != nil {
		return Filter{}, err
	}
	if f.MinPrice > 0 && f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return Filter{}, errors.NewFieldError("min_price", "must not exceed max_price")
	}
	return f, nil
}

func parsePriceParam(field, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, errors.NewFieldError(field, "must be a non-negative whole number")
	}
	return n, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ParsePage reads skip and limit. Missing values are 0, which the client turns
// into the backend defaults.
func ParsePage(q url.Values) (ListOptions, error) {
	skip, err := parseCount("skip", q.Get("skip"))
	if err != nil {
		return ListOptions{}, err
	}
	limit, err := parseCount("limit", q.Get("limit"))
	if err != nil {
		return ListOptions{}, err
	}
	return ListOptions{Skip: skip, Limit: limit}, nil
}

func parseCount(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.NewFieldError(field, "must be a non-negative whole number")
	}
	return n, nil
}
