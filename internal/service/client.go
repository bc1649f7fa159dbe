// Package service is the HTTP client for the remote Directory Service. It
// knows the two calls the browser makes: listing a directory and fetching a
// file body from the static tree.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"v2browse/internal/errors"
	"v2browse/internal/log"
	"v2browse/pkg/types"

	"github.com/google/uuid"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "v2browse/1.0"

// RequestIDHeader carries a per-request uuid so service logs can be matched
// with client logs.
const RequestIDHeader = "X-Request-ID"

// maxListingBytes bounds a listing response body.
const maxListingBytes = 32 << 20

// Client talks to a Directory Service rooted at a base URL.
type Client struct {
	base      *url.URL
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero leaves the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.NewConfigError("invalid service base url", "service.base_url", errors.InvalidConfig, err)
	}
	c := &Client{
		base:      u,
		http:      http.DefaultClient,
		userAgent: DefaultUserAgent,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ListURL returns the list-directory URL for path p.
func (c *Client) ListURL(p string) string {
	u := c.base.JoinPath("list-directory")
	q := url.Values{}
	q.Set("path", types.CleanPath(p))
	u.RawQuery = q.Encode()
	return u.String()
}

// StaticURL returns the URL of file name inside directory dir. Every path
// segment is escaped; a root dir yields /static/<name>.
func (c *Client) StaticURL(dir, name string) string {
	var segs []string
	if d := types.CleanPath(dir); d != "" {
		segs = strings.Split(d, "/")
	}
	segs = append(segs, name)

	var b strings.Builder
	b.WriteString(c.base.String())
	b.WriteString("/static")
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// ListDirectory fetches the listing of path p.
func (c *Client) ListDirectory(ctx context.Context, p string) (types.Listing, error) {
	p = types.CleanPath(p)

	resp, err := c.get(ctx, c.ListURL(p))
	if err != nil {
		return nil, errors.NewDirectoryLoadError(p, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		return nil, errors.NewDirectoryLoadError(p, nil).WithStatus(resp.StatusCode)
	}

	var listing types.Listing
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxListingBytes)).Decode(&listing); err != nil {
		return nil, errors.NewDirectoryLoadError(p, fmt.Errorf("decode listing: %w", err))
	}
	if listing == nil {
		listing = types.Listing{}
	}

	c.logger.With(log.F("path", p), log.F("entries", len(listing))).Debug("listing loaded")
	return listing, nil
}

// ReadFile fetches the raw body of file name inside directory dir.
func (c *Client) ReadFile(ctx context.Context, dir, name string) ([]byte, error) {
	full := types.JoinPath(dir, name)
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewFileLoadError(full, errors.ErrInvalidPath)
	}

	resp, err := c.get(ctx, c.StaticURL(dir, name))
	if err != nil {
		return nil, errors.NewFileLoadError(full, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		return nil, errors.NewFileLoadError(full, nil).WithStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewFileLoadError(full, err)
	}

	c.logger.With(log.F("path", full), log.F("bytes", len(body))).Debug("file loaded")
	return body, nil
}

func (c *Client) get(ctx context.Context, target string) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		// the body is read by the caller, so cancel only once it is closed
		req, err := c.newRequest(ctx, target)
		if err != nil {
			cancel()
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			cancel()
			return nil, err
		}
		resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}

	req, err := c.newRequest(ctx, target)
	if err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

func (c *Client) newRequest(ctx context.Context, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)
	req.Header.Set("User-Agent", c.userAgent)
	c.logger.With(log.F("url", target), log.F("request_id", id)).Debug("GET")
	return req, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64<<10))
}
