// internal/api/client/client_test.go
package client

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"homefinder/internal/domain/auth"
	"homefinder/internal/domain/listing"
	"homefinder/pkg/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api/v1"), srv
}

func TestCurrentUserSendsBearer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/me" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		w.Write([]byte(`{"id":7,"email":"a@b.co","full_name":"Ada"}`))
	})

	u, err := c.CurrentUser(context.Background(), "tok")
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if u.ID != 7 || u.Email != "a@b.co" || u.FullName != "Ada" {
		t.Fatalf("user = %+v", u)
	}
}

func TestHTTPErrorCarriesDetail(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{"string detail", `{"detail":"Incorrect email or password"}`, "Incorrect email or password"},
		{"validation list", `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"}]}`, "value is not a valid email address"},
		{"no body", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			})

			_, err := c.Login(context.Background(), auth.SignInRequest{Email: "a@b.co", Password: "x"})
			he, ok := errors.AsHTTP(err)
			if !ok {
				t.Fatalf("expected HTTPError, got %v", err)
			}
			if he.Status != http.StatusBadRequest || he.Detail != tt.detail {
				t.Fatalf("got %d %q", he.Status, he.Detail)
			}
		})
	}
}

func TestConflictBecomesConflictError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"with detail", `{"detail":"Listing was changed by another request"}`, "Listing was changed by another request"},
		{"no body", ``, errors.MsgConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(tt.body))
			})

			err := c.DeleteListing(context.Background(), "tok", 3)
			var ce *errors.ConflictError
			if !stderrors.As(err, &ce) {
				t.Fatalf("expected ConflictError, got %T %v", err, err)
			}
			if ce.Message != tt.want {
				t.Fatalf("message = %q", ce.Message)
			}
			if he, ok := errors.AsHTTP(err); !ok || he.Status != http.StatusConflict {
				t.Fatalf("wrapped HTTPError = %+v", he)
			}
			if got := errors.UserMessage(err, "fallback"); got != tt.want {
				t.Fatalf("UserMessage = %q", got)
			}
		})
	}
}

func TestNetworkErrorOnClosedServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := New(srv.URL + "/api/v1")
	srv.Close()

	_, err := c.CurrentUser(context.Background(), "tok")
	if !errors.IsNetwork(err) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestLoginPostsJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/login/access-token" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body auth.SignInRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Email != "a@b.co" || body.Password != "pw" {
			t.Errorf("body = %+v", body)
		}
		w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	})

	tok, err := c.Login(context.Background(), auth.SignInRequest{Email: "a@b.co", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken != "abc" {
		t.Fatalf("token = %q", tok.AccessToken)
	}
}

func TestListListingsDefaultsAndMixedPrice(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "100" {
			t.Errorf("limit = %q", got)
		}
		if got := r.URL.Query().Get("skip"); got != "0" {
			t.Errorf("skip = %q", got)
		}
		w.Write([]byte(`[{"id":1,"title":"A","price":"4500"},{"id":2,"title":"B","price":1200000}]`))
	})

	got, err := c.ListListings(context.Background(), listing.ListOptions{})
	if err != nil {
		t.Fatalf("ListListings: %v", err)
	}
	if len(got) != 2 || got[0].Price != 4500 || got[1].Price != 1200000 {
		t.Fatalf("listings = %+v", got)
	}
}

func TestGetListingByID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":41,"title":"A"},{"id":42,"title":"Sea view","location":"Tel Aviv","price":"6000","type":"rent"}]`))
	})

	l, err := c.GetListingByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetListingByID: %v", err)
	}
	if l.Title != "Sea view" || l.Location != "Tel Aviv" || l.Price != 6000 || l.Type != listing.TypeRent {
		t.Fatalf("listing = %+v", l)
	}

	_, err = c.GetListingByID(context.Background(), 99)
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteListing(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/listings/5" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteListing(context.Background(), "tok", 5); err != nil {
		t.Fatalf("DeleteListing: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestUploadResolvesURLs(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/upload/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("multipart: %v", err)
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 2 {
			t.Errorf("files = %d", len(files))
		}
		w.Write([]byte(`["/uploads/listings/a.jpg","/uploads/listings/b.png"]`))
	})

	urls, err := c.Upload(context.Background(), "tok", []listing.UploadFile{
		{Name: "a.jpg", Size: 3, Content: strings.NewReader("abc")},
		{Name: "b.PNG", Size: 3, Content: strings.NewReader("def")},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	want := []string{srv.URL + "/uploads/listings/a.jpg", srv.URL + "/uploads/listings/b.png"}
	if len(urls) != 2 || urls[0] != want[0] || urls[1] != want[1] {
		t.Fatalf("urls = %v, want %v", urls, want)
	}
}

func TestUploadRejectsBeforeSending(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	tests := []listing.UploadFile{
		{Name: "doc.pdf", Size: 10, Content: strings.NewReader("x")},
		{Name: "big.jpg", Size: MaxUploadSize + 1, Content: strings.NewReader("x")},
		{Name: "huge.jpg", Size: 1, Content: io.LimitReader(zeroReader{}, MaxUploadSize+10)},
	}
	for _, f := range tests {
		_, err := c.Upload(context.Background(), "tok", []listing.UploadFile{f})
		if _, ok := err.(*errors.ValidationError); !ok {
			t.Errorf("%s: expected ValidationError, got %v", f.Name, err)
		}
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("server was called %d times", calls)
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestResolveURL(t *testing.T) {
	c := New("http://localhost:8000/api/v1/")
	if got := c.ResolveURL("/uploads/x.jpg"); got != "http://localhost:8000/uploads/x.jpg" {
		t.Errorf("relative = %q", got)
	}
	if got := c.ResolveURL("https://cdn.example/x.jpg"); got != "https://cdn.example/x.jpg" {
		t.Errorf("absolute = %q", got)
	}
}
