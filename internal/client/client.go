// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package client is a Go client for the hotel CMS JSON API. Every request
// gets its own timeout and transient failures are retried a fixed number
// of times with a fixed delay.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 10 * time.Second

	// DefaultRetries is how many times a transient failure is retried.
	DefaultRetries = 2

	// DefaultRetryDelay is the pause between attempts.
	DefaultRetryDelay = time.Second

	csrfCookie = "hc_csrf"
	csrfHeader = "X-CSRF-Token"
)

// ErrTimeout is returned when an attempt runs out of time. Timed out
// requests are not retried.
var ErrTimeout = errors.New("request timed out")

// APIError is an error envelope returned by the server.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d): %s %v", e.Status, e.Message, e.Fields)
}

// retryable reports whether the server asked us to try again later.
func (e *APIError) retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Client talks to one API server. It keeps cookies, so a successful Login
// authenticates later admin calls made with the same Client.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	jar     http.CookieJar
	timeout time.Duration
	retries int
	delay   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = max(n, 0) }
}

// WithRetryDelay sets the fixed pause between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: invalid base url %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client: cookie jar: %w", err)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar},
		jar:     jar,
		timeout: DefaultTimeout,
		retries: DefaultRetries,
		delay:   DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope mirrors the server's response shape.
type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

// do sends the request, retrying transient failures, and decodes the data
// field of a successful response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			slog.Debug("retrying request", "method", method, "path", path, "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.delay):
			}
		}

		status, data, err := c.attempt(ctx, method, path, contentType, body)
		if err != nil {
			// Caller cancellation and timeouts end the request.
			if ctx.Err() != nil || errors.Is(err, ErrTimeout) {
				return err
			}
			lastErr = err
			continue
		}

		err = decode(status, data, out)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.retryable() {
			lastErr = err
			continue
		}
		return err
	}
	return lastErr
}

// attempt performs one HTTP exchange under its own deadline.
func (c *Client) attempt(ctx context.Context, method, path, contentType string, body []byte) (int, []byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, method, c.baseURL.String()+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("client request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if method != http.MethodGet {
		if token := c.csrfToken(); token != "" {
			req.Header.Set(csrfHeader, token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, c.wrapErr(ctx, attemptCtx, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, c.wrapErr(ctx, attemptCtx, method, path, err)
	}
	return resp.StatusCode, data, nil
}

// wrapErr tells caller cancellation and attempt timeouts apart from other
// transport failures.
func (c *Client) wrapErr(ctx, attemptCtx context.Context, method, path string, err error) error {
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(attemptCtx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %s %s after %s", ErrTimeout, method, path, c.timeout)
	default:
		return fmt.Errorf("client %s %s: %w", method, path, err)
	}
}

// csrfToken returns the CSRF cookie the server issued, if any.
func (c *Client) csrfToken() string {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == csrfCookie {
			return ck.Value
		}
	}
	return ""
}

// decode turns a response into either out or an *APIError.
func decode(status int, data []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if status >= 400 {
			return &APIError{Status: status, Message: http.StatusText(status)}
		}
		return fmt.Errorf("client decode: %w", err)
	}

	if status >= 400 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &APIError{Status: status, Message: msg, Fields: env.Fields}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("client decode data: %w", err)
	}
	return nil
}

// getJSON issues a GET and decodes the data field into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

// sendJSON marshals in and issues the request.
func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client marshal: %w", err)
		}
	}
	return c.do(ctx, method, path, "application/json", body, out)
}
