// Package api talks to the remote item collection.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/itemdesk/internal/model"
)

// HeaderUserID carries the session identifier on authenticated calls.
const HeaderUserID = "user-id"

// ErrUnauthenticated is returned, without touching the network, when an
// authenticated call is made with an empty user id.
var ErrUnauthenticated = errors.New("not signed in")

// StatusError is a non-2xx response.
type StatusError struct {
	Op     string
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: %s %s: %d %s", e.Op, e.Method, e.Path, e.Status, http.StatusText(e.Status))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// Client is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// New returns a client for baseURL, e.g. http://localhost:5000.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing scheme or host", baseURL)
	}
	c := &Client{base: u, http: http.DefaultClient}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.base.String() }

// ListItems fetches the full item collection.
func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, "list items", http.MethodGet, "/items", "", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// ListCategories fetches the distinct categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	if err := c.do(ctx, "list categories", http.MethodGet, "/items/categories", "", nil, &cats); err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []model.Category{}
	}
	return cats, nil
}

// GetItem fetches one item.
func (c *Client) GetItem(ctx context.Context, id model.ID) (model.Item, error) {
	var it model.Item
	err := c.do(ctx, "get item", http.MethodGet, itemPath(id), "", nil, &it)
	return it, err
}

// CreateItem posts a new item on behalf of userID.
func (c *Client) CreateItem(ctx context.Context, userID model.ID, in model.ItemInput) (model.Item, error) {
	if userID.IsZero() {
		return model.Item{}, ErrUnauthenticated
	}
	var it model.Item
	err := c.do(ctx, "create item", http.MethodPost, "/items", userID, in, &it)
	return it, err
}

// UpdateItem replaces the editable fields of id on behalf of userID.
func (c *Client) UpdateItem(ctx context.Context, userID, id model.ID, in model.ItemInput) (model.Item, error) {
	if userID.IsZero() {
		return model.Item{}, ErrUnauthenticated
	}
	var it model.Item
	err := c.do(ctx, "update item", http.MethodPut, itemPath(id), userID, in, &it)
	return it, err
}

// DeleteItem removes id on behalf of userID.
func (c *Client) DeleteItem(ctx context.Context, userID, id model.ID) error {
	if userID.IsZero() {
		return ErrUnauthenticated
	}
	return c.do(ctx, "delete item", http.MethodDelete, itemPath(id), userID, nil, nil)
}

func itemPath(id model.ID) string {
	return "/items/" + url.PathEscape(id.String())
}

func (c *Client) do(ctx context.Context, op, method, path string, userID model.ID, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, rdr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !userID.IsZero() {
		req.Header.Set(HeaderUserID, userID.String())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Op:     op,
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(b)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
