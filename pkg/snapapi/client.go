// Package snapapi is a client for the SnapAPI screenshot, PDF, video and
// content extraction service.
package snapapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/snapapi-hq/snapapi-go/pkg/httpclient"
)

// Version is reported in the User-Agent header.
const Version = "1.2.0"

const (
	DefaultBaseURL         = "https://api.snapapi.pics"
	DefaultTimeout         = 60 * time.Second
	DefaultPollInterval    = 2 * time.Second
	DefaultMaxPollAttempts = 60
)

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// Client talks to the SnapAPI HTTP API. It is immutable after New and safe for
// concurrent use.
type Client struct {
	apiKey          string
	baseURL         string
	timeout         time.Duration
	userAgent       string
	pollInterval    time.Duration
	maxPollAttempts int
	http            httpclient.Client
	log             Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout sets the per-request timeout of the default transport.
// It has no effect when WithHTTPClient is also used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient replaces the resty-backed transport.
func WithHTTPClient(h httpclient.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger for request and polling diagnostics.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithPollInterval sets the fixed sleep between job status fetches.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// WithMaxPollAttempts bounds the number of job status fetches.
func WithMaxPollAttempts(n int) Option {
	return func(c *Client) { c.maxPollAttempts = n }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New builds a Client. apiKey must be non-empty and the base URL must be an
// absolute http(s) URL.
func New(apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		apiKey:          strings.TrimSpace(apiKey),
		baseURL:         DefaultBaseURL,
		timeout:         DefaultTimeout,
		userAgent:       "snapapi-go/" + Version,
		pollInterval:    DefaultPollInterval,
		maxPollAttempts: DefaultMaxPollAttempts,
		log:             noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.apiKey == "" {
		return nil, invalidParams("api key is required")
	}
	base, err := normalizeBaseURL(c.baseURL)
	if err != nil {
		return nil, err
	}
	c.baseURL = base
	if c.pollInterval < 0 {
		return nil, invalidParams("poll interval must not be negative")
	}
	if c.maxPollAttempts <= 0 {
		return nil, invalidParams("max poll attempts must be positive")
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(c.timeout)
	}
	return c, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(trimmed)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &Error{Code: CodeInvalidURL, Message: fmt.Sprintf("invalid base url %q", raw), cause: err}
	}
	return trimmed, nil
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// do issues one request and returns the raw body of a successful response.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, 0, &Error{Code: CodeInvalidParams, Message: "encode request: " + err.Error(), StatusCode: http.StatusBadRequest, cause: err}
		}
		payload = raw
	}

	req := httpclient.Request{
		Method: method,
		URL:    c.baseURL + path,
		Headers: map[string]string{
			"X-Api-Key":    c.apiKey,
			"Content-Type": "application/json",
			"User-Agent":   c.userAgent,
		},
		Body: payload,
	}

	c.log.DebugObj("snapapi request", "request", map[string]any{"method": method, "path": path})
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, canceled(ctxErr)
		}
		c.log.WarnObj("snapapi transport error", "error", map[string]any{"path": path, "err": err.Error()})
		return nil, 0, &Error{Code: CodeConnectionError, Message: err.Error(), cause: err}
	}

	status := resp.StatusCode()
	if status >= http.StatusBadRequest {
		apiErr := parseErrorResponse(resp.Body(), status)
		c.log.WarnObj("snapapi request failed", "error", map[string]any{"path": path, "status": status, "code": apiErr.Code})
		return nil, status, apiErr
	}
	return resp.Body(), status, nil
}

// doJSON dispatches and decodes a successful JSON body into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	raw, status, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	return decodeJSON(raw, status, out)
}

func decodeJSON(raw []byte, status int, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Code: CodeDecodeError, Message: "decode response: " + err.Error(), StatusCode: status, cause: err}
	}
	return nil
}

func canceled(err error) *Error {
	msg := "operation canceled"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "operation deadline exceeded"
	}
	return &Error{Code: CodeCanceled, Message: msg, cause: err}
}
