package board

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/five82/panegrid/internal/layout"
)

// EventSource defines the interface for reading the backend's event feed
// and mirroring view and environment changes back to it.
// This interface is implemented by *Client and can be used for testing.
type EventSource interface {
	FetchEvents(ctx context.Context, since uint64) (EventBatch, error)
	PushView(ctx context.Context, env string, view layout.View) error
	DeleteView(ctx context.Context, env, name string) error
	ForkEnv(ctx context.Context, src, dst string) error
	DeleteEnv(ctx context.Context, env string) error
}

// Ensure Client implements EventSource at compile time.
var _ EventSource = (*Client)(nil)

// Client talks to the dashboard backend HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	session   string
}

const (
	defaultAPIBind   = "127.0.0.1:8097"
	defaultUserAgent = "panegrid/0.1"
	sessionHeader    = "X-Panegrid-Session"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		session:   uuid.NewString(),
	}, nil
}

// Session returns the id sent with every request.
func (c *Client) Session() string {
	return c.session
}

// FetchEvents retrieves events with a sequence number above since.
func (c *Client) FetchEvents(ctx context.Context, since uint64) (EventBatch, error) {
	if c == nil {
		return EventBatch{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("since", strconv.FormatUint(since, 10))
	rel := &url.URL{Path: "/api/events", RawQuery: values.Encode()}
	var payload EventBatch
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return EventBatch{}, err
	}
	return payload, nil
}

// PushView stores a view definition on the backend.
func (c *Client) PushView(ctx context.Context, env string, view layout.View) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(env) == "" {
		return fmt.Errorf("env required")
	}
	body := ViewPayload{Name: view.Name, Entries: view.Entries}
	rel := apiPath("envs", env, "views")
	return c.doURL(ctx, http.MethodPost, rel, body, nil)
}

// DeleteView removes a view definition from the backend.
func (c *Client) DeleteView(ctx context.Context, env, name string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(env) == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("env and view name required")
	}
	rel := apiPath("envs", env, "views", name)
	return c.doURL(ctx, http.MethodDelete, rel, nil, nil)
}

// ForkEnv copies an environment on the backend.
func (c *Client) ForkEnv(ctx context.Context, src, dst string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(src) == "" || strings.TrimSpace(dst) == "" {
		return fmt.Errorf("source and destination env required")
	}
	values := url.Values{}
	values.Set("to", dst)
	rel := apiPath("envs", src, "fork")
	rel.RawQuery = values.Encode()
	return c.doURL(ctx, http.MethodPost, rel, nil, nil)
}

// DeleteEnv removes an environment on the backend.
func (c *Client) DeleteEnv(ctx context.Context, env string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(env) == "" {
		return fmt.Errorf("env required")
	}
	rel := apiPath("envs", env)
	return c.doURL(ctx, http.MethodDelete, rel, nil, nil)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(sessionHeader, c.session)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s %s returned status %d", method, rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiPath joins segments under /api, escaping each one.
func apiPath(segments ...string) *url.URL {
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}
	return &url.URL{
		Path:    "/api/" + strings.Join(segments, "/"),
		RawPath: "/api/" + strings.Join(escaped, "/"),
	}
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
