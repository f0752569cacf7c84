// internal/domain/geo/nominatim.go
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homefinder/internal/utils"
	"homefinder/pkg/errors"
)

// Nominatim resolves free-text addresses with the OpenStreetMap search API.
type Nominatim struct {
	endpoint  string
	userAgent string
	http      *http.Client
	retry     utils.RetryConfig
	logger    *utils.Logger
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatim talks to endpoint (https://nominatim.openstreetmap.org/search in
// production). Only network failures are retried, attempts times at most.
func NewNominatim(endpoint, userAgent string, timeout time.Duration, attempts int, logger *utils.Logger) *Nominatim {
	if logger == nil {
		logger = utils.Discard()
	}
	return &Nominatim{
		endpoint:  endpoint,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
		logger:    logger,
		retry: utils.RetryConfig{
			MaxAttempts: attempts,
			BaseDelay:   500 * time.Millisecond,
			Logger:      logger,
			Retryable:   errors.IsNetwork,
		},
	}
}

// Geocode returns the coordinates of the best match for query. No match is a
// *errors.NotFoundError.
func (n *Nominatim) Geocode(ctx context.Context, query string) (float64, float64, error) {
	var found place
	err := n.retry.Do(ctx, "geocode", func() error {
		p, err := n.search(ctx, query)
		if err != nil {
			return err
		}
		found = p
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	lat, err := strconv.ParseFloat(found.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geo: bad latitude %q: %w", found.Lat, err)
	}
	lng, err := strconv.ParseFloat(found.Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geo: bad longitude %q: %w", found.Lon, err)
	}
	n.logger.Debug("[geocode] %q -> %s (%f, %f)", query, found.DisplayName, lat, lng)
	return lat, lng, nil
}

func (n *Nominatim) search(ctx context.Context, query string) (place, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return place{}, fmt.Errorf("geo: build request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return place{}, errors.NewNetworkError("geocode", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return place{}, errors.NewNetworkError("geocode", err)
	}
	if resp.StatusCode != http.StatusOK {
		return place{}, errors.NewHTTPError(resp.StatusCode, "")
	}

	var places []place
	if err := json.Unmarshal(body, &places); err != nil {
		return place{}, fmt.Errorf("geo: decode: %w", err)
	}
	if len(places) == 0 {
		return place{}, errors.NewNotFoundError("address", query)
	}
	return places[0], nil
}
