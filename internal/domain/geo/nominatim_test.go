// internal/domain/geo/nominatim_test.go
package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"homefinder/pkg/errors"
)

func TestGeocodeParsesStringCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Dizengoff 50, Tel Aviv" || q.Get("format") != "json" || q.Get("limit") != "1" {
			t.Errorf("query = %v", q)
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`[{"lat":"32.0775","lon":"34.7741","display_name":"Dizengoff"}]`))
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL, "test-agent", time.Second, 1, nil)
	lat, lng, err := n.Geocode(context.Background(), "Dizengoff 50, Tel Aviv")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if lat != 32.0775 || lng != 34.7741 {
		t.Fatalf("got %f, %f", lat, lng)
	}
}

func TestGeocodeNoMatch(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL, "ua", time.Second, 3, nil)
	_, _, err := n.Geocode(context.Background(), "nowhere at all")
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("not-found should not be retried, calls = %d", calls)
	}
}

func TestGeocodeHTTPErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL, "ua", time.Second, 3, nil)
	_, _, err := n.Geocode(context.Background(), "Haifa")
	if he, ok := errors.AsHTTP(err); !ok || he.Status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestGeocodeNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	n := NewNominatim(endpoint, "ua", time.Second, 2, nil)
	n.retry.BaseDelay = time.Millisecond
	_, _, err := n.Geocode(context.Background(), "Haifa")
	if !errors.IsNetwork(err) {
		t.Fatalf("expected network error, got %v", err)
	}
}
