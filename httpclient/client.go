package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kbukum/transcribekit/resilience"
)

// Client is a configurable HTTP client with auth and optional client-side resilience.
// It never retries on its own; callers decide what is safe to repeat.
type Client struct {
	httpClient *http.Client
	config     Config
	cb         *resilience.CircuitBreaker
	rl         *resilience.RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client. Its Timeout is left as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}

	if cfg.CircuitBreaker != nil {
		c.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.RateLimiter != nil {
		c.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Name returns the configured client name.
func (c *Client) Name() string {
	return c.config.Name
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// CircuitState reports the breaker state, or StateClosed when no breaker is configured.
func (c *Client) CircuitState() resilience.State {
	if c.cb == nil {
		return resilience.StateClosed
	}
	return c.cb.State()
}

// Do executes an HTTP request and returns the complete response.
// Non-2xx responses are returned together with a classified *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.rl != nil {
		if err := c.rl.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if c.cb != nil {
		var resp *Response
		err := c.cb.Execute(func() error {
			var execErr error
			resp, execErr = c.executeRequest(ctx, req)
			return execErr
		})
		return resp, err
	}

	return c.executeRequest(ctx, req)
}

// Ping issues a HEAD request to the base URL. Any HTTP response counts as reachable.
func (c *Client) Ping(ctx context.Context) bool {
	_, err := c.executeRequest(ctx, Request{Method: http.MethodHead, Path: "/"})
	if err == nil {
		return true
	}
	var httpErr *Error
	return errors.As(err, &httpErr) && httpErr.StatusCode > 0
}

// executeRequest builds and sends the HTTP request.
func (c *Client) executeRequest(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isTimeout(err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}

	return result, nil
}

// buildRequest constructs an *http.Request from the client config and request.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if c.config.BaseURL != "" && !isAbsolute(req.Path) {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	auth := c.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	if err := auth.apply(httpReq); err != nil {
		return nil, err
	}

	return httpReq, nil
}

func isAbsolute(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
