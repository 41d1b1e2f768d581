package snapapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/snapapi-hq/snapapi-go/pkg/httpclient"
)

// countingClient records calls and never touches the network.
type countingClient struct {
	calls int32
}

func (c *countingClient) Do(context.Context, httpclient.Request) (httpclient.Response, error) {
	atomic.AddInt32(&c.calls, 1)
	return nil, errors.New("unexpected network call")
}

type failingClient struct{ err error }

func (f failingClient) Do(context.Context, httpclient.Request) (httpclient.Response, error) {
	return nil, f.err
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	all := append([]Option{WithBaseURL(srv.URL), WithTimeout(2 * time.Second)}, opts...)
	c, err := New("test-key", all...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewValidation(t *testing.T) {
	if _, err := New("  "); CodeOf(err) != CodeInvalidParams {
		t.Fatalf("blank key: expected INVALID_PARAMS, got %v", err)
	}
	for _, base := range []string{"ftp://example.com", "not a url", "https://", ""} {
		if _, err := New("k", WithBaseURL(base)); CodeOf(err) != CodeInvalidURL {
			t.Fatalf("base %q: expected INVALID_URL, got %v", base, err)
		}
	}
	c, err := New("k", WithBaseURL("https://api.example.com/"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != "https://api.example.com" {
		t.Fatalf("BaseURL = %s", c.BaseURL())
	}
	if _, err := New("k", WithMaxPollAttempts(0)); CodeOf(err) != CodeInvalidParams {
		t.Fatalf("expected INVALID_PARAMS for zero attempts, got %v", err)
	}
}

func TestScreenshotSendsHeadersAndReturnsBytes(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0xFF, 0x10}
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/screenshot" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("X-Api-Key = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "snapapi-go/"+Version {
			t.Errorf("User-Agent = %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("decode body: %v", err)
			http.Error(w, "bad body", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	got, err := c.Screenshot(context.Background(), ScreenshotOptions{URL: String("https://example.com"), Format: String("png")})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if !bytes.Equal(got, png) {
		t.Fatalf("bytes modified: %v", got)
	}
	if !bytes.HasPrefix(got, []byte{0x89, 0x50, 0x4E, 0x47}) {
		t.Fatalf("missing PNG magic")
	}
	if len(body) != 2 || body["url"] != "https://example.com" || body["format"] != "png" {
		t.Fatalf("unexpected request body %v", body)
	}
}

func TestOptionsSerializeOnlySetFields(t *testing.T) {
	raw, err := json.Marshal(ScreenshotOptions{URL: String("https://example.com"), Format: String("png")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected exactly url and format, got %s", raw)
	}
	if _, ok := keys["url"]; !ok {
		t.Fatalf("url missing: %s", raw)
	}
	if _, ok := keys["format"]; !ok {
		t.Fatalf("format missing: %s", raw)
	}
	if strings.Contains(string(raw), "null") {
		t.Fatalf("null emitted: %s", raw)
	}
}

func TestPreconditionsIssueNoNetworkCall(t *testing.T) {
	transport := &countingClient{}
	c, err := New("k", WithHTTPClient(transport))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	calls := map[string]func() error{
		"Screenshot": func() error { _, err := c.Screenshot(ctx, ScreenshotOptions{Format: String("png")}); return err },
		"ScreenshotWithMetadata": func() error {
			_, err := c.ScreenshotWithMetadata(ctx, ScreenshotOptions{URL: String("")})
			return err
		},
		"ScreenshotAsync":        func() error { _, err := c.ScreenshotAsync(ctx, ScreenshotOptions{}); return err },
		"ScreenshotFromHTML":     func() error { _, err := c.ScreenshotFromHTML(ctx, " ", nil); return err },
		"ScreenshotFromMarkdown": func() error { _, err := c.ScreenshotFromMarkdown(ctx, "", nil); return err },
		"ScreenshotDevice":       func() error { _, err := c.ScreenshotDevice(ctx, "", DeviceIPhone15Pro, nil); return err },
		"PDF":                    func() error { _, err := c.PDF(ctx, ScreenshotOptions{}); return err },
		"PDFFromHTML":            func() error { _, err := c.PDFFromHTML(ctx, "", nil); return err },
		"Video":                  func() error { _, err := c.Video(ctx, VideoOptions{}); return err },
		"Batch":                  func() error { _, err := c.Batch(ctx, BatchOptions{}); return err },
		"BatchEmptyEntry":        func() error { _, err := c.Batch(ctx, BatchOptions{URLs: []string{"https://a", ""}}); return err },
		"Extract":                func() error { _, err := c.Extract(ctx, ExtractOptions{}); return err },
		"AnalyzeNoPrompt": func() error {
			_, err := c.Analyze(ctx, AnalyzeOptions{URL: "https://a", APIKey: "sk"})
			return err
		},
		"AnalyzeNoKey": func() error {
			_, err := c.Analyze(ctx, AnalyzeOptions{URL: "https://a", Prompt: "p"})
			return err
		},
		"AnalyzeNoURL": func() error {
			_, err := c.Analyze(ctx, AnalyzeOptions{Prompt: "p", APIKey: "sk"})
			return err
		},
		"GetBatchStatus": func() error { _, err := c.GetBatchStatus(ctx, ""); return err },
		"WaitForBatch":   func() error { _, err := c.WaitForBatch(ctx, ""); return err },
		"GetAsyncStatus": func() error { _, err := c.GetScreenshotAsyncStatus(ctx, " "); return err },
	}
	for name, call := range calls {
		err := call()
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("%s: expected *Error, got %v", name, err)
		}
		if apiErr.Code != CodeInvalidParams || apiErr.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: got %v", name, apiErr)
		}
	}
	if n := atomic.LoadInt32(&transport.calls); n != 0 {
		t.Fatalf("expected no network calls, got %d", n)
	}
}

func TestErrorEnvelopeUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"statusCode":401,"error":"Unauthorized","message":"Invalid API key."}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Screenshot(context.Background(), ScreenshotOptions{URL: String("https://example.com")})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Code != CodeUnauthorized || apiErr.StatusCode != 401 {
		t.Fatalf("unexpected error %v", apiErr)
	}
	if !strings.Contains(apiErr.Message, "Invalid API key.") {
		t.Fatalf("message = %q", apiErr.Message)
	}
	if apiErr.IsRetryable() || IsRetryable(err) {
		t.Fatalf("401 must not be retryable")
	}
	if apiErr.Error() != "[UNAUTHORIZED] Invalid API key. (HTTP 401)" {
		t.Fatalf("Error() = %q", apiErr.Error())
	}
}

func TestErrorEnvelopeRateLimitedWithDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"statusCode":429,"error":"Rate Limited","message":"Slow down","details":[{"retryAfter":30}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).GetUsage(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Code != CodeRateLimited || !apiErr.IsRetryable() {
		t.Fatalf("unexpected error %v", apiErr)
	}
	if apiErr.Details == nil || apiErr.Details.Len() != 1 {
		t.Fatalf("details not decoded: %v", apiErr.Details)
	}
	first, _ := apiErr.Details.Index(0)
	retry, _ := first.Get("retryAfter")
	if n, ok := retry.AsInt64(); !ok || n != 30 {
		t.Fatalf("retryAfter = %v", retry)
	}
}

func TestErrorFallbackToHTTPError(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"html":   {http.StatusBadGateway, "<html>bad gateway</html>"},
		"nested": {http.StatusBadRequest, `{"error":{"code":"INVALID","message":"x"}}`},
		"empty":  {http.StatusInternalServerError, ""},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv).Ping(context.Background())
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if apiErr.Code != CodeHTTPError || apiErr.StatusCode != tc.status {
				t.Fatalf("unexpected error %v", apiErr)
			}
			if apiErr.Message != fmt.Sprintf("HTTP %d", tc.status) {
				t.Fatalf("message = %q", apiErr.Message)
			}
			if apiErr.IsRetryable() != (tc.status >= 500) {
				t.Fatalf("retryable mismatch for %d", tc.status)
			}
		})
	}
}

func TestConnectionErrorWrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	c, err := New("k", WithHTTPClient(failingClient{err: cause}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Ping(context.Background())
	if CodeOf(err) != CodeConnectionError {
		t.Fatalf("expected CONNECTION_ERROR, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable through Unwrap")
	}
	if IsRetryable(err) {
		t.Fatalf("connection errors report status 0 and are not retryable")
	}
}

func TestDecodeErrorOnBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).GetDevices(context.Background())
	if CodeOf(err) != CodeDecodeError {
		t.Fatalf("expected DECODE_ERROR, got %v", err)
	}
}

func TestIsRetryableIgnoresForeignErrors(t *testing.T) {
	if IsRetryable(errors.New("x")) || IsRetryable(nil) {
		t.Fatalf("foreign errors must not be retryable")
	}
	if !(&Error{Code: CodeHTTPError, StatusCode: 503}).IsRetryable() {
		t.Fatalf("5xx must be retryable")
	}
	if !(&Error{Code: CodeTimeout, StatusCode: 408}).IsRetryable() {
		t.Fatalf("TIMEOUT must be retryable")
	}
}

func TestNormalizeCode(t *testing.T) {
	cases := map[string]string{
		"Unauthorized":       "UNAUTHORIZED",
		"Rate Limited":       "RATE_LIMITED",
		" Validation Error ": "VALIDATION_ERROR",
	}
	for in, want := range cases {
		if got := NormalizeCode(in); got != want {
			t.Fatalf("NormalizeCode(%q) = %q, want %q", in, got, want)
		}
	}
}
