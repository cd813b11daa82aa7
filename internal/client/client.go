// Package client talks to the CRM JSON API. A Client is both the dashboard
// backend and the session auth client of a terminal or other remote UI.
package client

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
	"sync"
	"time"

	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/dashboard"
	"github.com/Henok-Haile/crm-dashboard/internal/dashboard/session"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

var (
	_ dashboard.Backend  = (*Client)(nil)
	_ session.AuthClient = (*Client)(nil)
)

type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger

	mu      sync.Mutex
	token   string
	subs    map[int]func(session.Event)
	nextSub int
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithToken restores a session token saved by an earlier SignIn.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must be http or https", baseURL)
	}

	c := &Client{
		base: base,
		http: &http.Client{Timeout: defaultTimeout},
		log:  zap.NewNop(),
		subs: map[int]func(session.Event){},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("client")
	return c, nil
}

// Token is the current session token, empty when signed out.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Subscribe registers fn for sign-in and sign-out events.
func (c *Client) Subscribe(fn func(session.Event)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Client) emit(ev session.Event) {
	c.mu.Lock()
	subs := make([]func(session.Event), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// do sends one request and decodes the response into out when it is non-nil.
// Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.base.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// CurrentUser asks the server who owns the stored token. It returns nil, nil
// when there is no token or the server rejects it.
func (c *Client) CurrentUser(ctx context.Context) (*authdomain.User, error) {
	if c.Token() == "" {
		return nil, nil
	}
	var out envelope[*authdomain.User]
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, nil
		}
		return nil, err
	}
	return out.Data, nil
}
