// Package gateway is the console's REST client for the granite backend.
// It attaches the session token to every call and maps failures onto the
// core error types.
package gateway

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

	"granite-console/internal/core"
	"granite-console/internal/logger"

	"go.uber.org/zap"
)

// AuthHeader carries the session token on every authenticated request.
const AuthHeader = "x-auth-token"

// Client talks to the backend REST API rooted at baseURL (".../api").
type Client struct {
	baseURL string
	http    *http.Client
	store   TokenStore
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock overrides time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(baseURL string, store TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ core.InvoiceGateway = (*Client)(nil)

// Login exchanges credentials for a session token and stores it.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var sess Session
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", body, &sess, false); err != nil {
		var ge *core.GatewayError
		if errors.As(err, &ge) && ge.Message == "" {
			ge.Message = "Invalid credentials. Please try again."
		}
		return nil, err
	}
	if sess.Token == "" {
		return nil, &core.GatewayError{StatusCode: http.StatusOK, Message: "login response did not include a token"}
	}
	if sess.Username == "" {
		sess.Username = username
	}
	if err := c.store.Save(sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Logout forgets the stored session.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// Session returns the stored session, or ErrUnauthenticated if there is none
// or its token has expired.
func (c *Client) Session() (Session, error) {
	sess, err := c.store.Load()
	if err != nil {
		return Session{}, err
	}
	if sess.Token == "" || TokenExpired(sess.Token, c.now()) {
		return Session{}, core.ErrUnauthenticated
	}
	return sess, nil
}

// errorBody is the backend's JSON error shape. Older endpoints use message or error.
type errorBody struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	for _, s := range []string{b.Msg, b.Message, b.Error} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// do performs one request. op names the operation for TransportError.
// A nil out discards the response body.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any, auth bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		sess, err := c.Session()
		if err != nil {
			return err
		}
		req.Header.Set(AuthHeader, sess.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &core.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	logger.FromContext(ctx).Debug("backend call",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &core.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && auth {
		_ = c.store.Clear()
		return core.ErrUnauthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		msg := eb.text()
		if msg == "" && resp.StatusCode != http.StatusUnauthorized {
			msg = fmt.Sprintf("%s failed: %s", op, http.StatusText(resp.StatusCode))
		}
		return &core.GatewayError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
