// internal/api/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"homefinder/internal/utils"
	"homefinder/pkg/errors"
)

// Client talks to the HomeFinder REST API. Every method maps to one endpoint;
// none of them retries.
type Client struct {
	baseURL   string
	origin    string
	http      *http.Client
	logger    *utils.Logger
	userAgent string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(l *utils.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithOrigin overrides the origin upload paths are resolved against. By
// default it is baseURL without its /api/v1 suffix.
func WithOrigin(origin string) Option {
	return func(c *Client) { c.origin = strings.TrimRight(origin, "/") }
}

// New builds a client for baseURL, e.g. http://localhost:8000/api/v1.
func New(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	c := &Client{
		baseURL:   base,
		origin:    strings.TrimSuffix(base, "/api/v1"),
		http:      &http.Client{Timeout: 15 * time.Second},
		logger:    utils.Discard(),
		userAgent: "homefinder-client/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// ResolveURL turns a server-relative path such as /uploads/listings/x.jpg into
// an absolute URL on the API origin.
func (c *Client) ResolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.origin + path
}

type request struct {
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
}

func (c *Client) jsonRequest(method, path, token string, payload any) (request, error) {
	r := request{method: method, path: path, token: token}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return r, fmt.Errorf("client: encode %s %s: %w", method, path, err)
		}
		r.body = bytes.NewReader(data)
		r.contentType = "application/json"
	}
	return r, nil
}

// do sends r and decodes a 2xx body into out when out is non-nil. Transport
// failures become *errors.NetworkError, a 409 *errors.ConflictError wrapping
// the *errors.HTTPError every other non-2xx answer becomes.
func (c *Client) do(ctx context.Context, r request, out any) error {
	op := r.method + " " + r.path

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return fmt.Errorf("client: build %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("[api] %s failed after %v: %v", op, time.Since(start), err)
		return errors.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetworkError(op, err)
	}
	c.logger.Debug("[api] %s -> %d (%v)", op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		he := errors.NewHTTPError(resp.StatusCode, parseDetail(body))
		if resp.StatusCode == http.StatusConflict {
			return errors.NewConflictError(he.Detail, he)
		}
		return he
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", op, err)
	}
	return nil
}

// parseDetail extracts FastAPI's error detail, which is either a string or a
// list of {loc, msg} objects.
func parseDetail(body []byte) string {
	var env struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if len(env.Detail) == 0 {
		return env.Message
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
