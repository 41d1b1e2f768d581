package snapapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Screenshot captures a page and returns the image bytes exactly as served.
func (c *Client) Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error) {
	if !opts.hasSource() {
		return nil, invalidParams("one of url, html or markdown is required")
	}
	raw, _, err := c.do(ctx, http.MethodPost, "/v1/screenshot", opts)
	return raw, err
}

// ScreenshotWithMetadata forces a JSON response and decodes it. opts is not modified.
func (c *Client) ScreenshotWithMetadata(ctx context.Context, opts ScreenshotOptions) (*ScreenshotResult, error) {
	if !opts.hasSource() {
		return nil, invalidParams("one of url, html or markdown is required")
	}
	opts.ResponseType = String(ResponseTypeJSON)
	var out ScreenshotResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/screenshot", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScreenshotFromHTML renders html. Any url or markdown in base is dropped.
func (c *Client) ScreenshotFromHTML(ctx context.Context, html string, base *ScreenshotOptions) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, invalidParams("html is required")
	}
	opts := copyScreenshotOptions(base)
	opts.URL, opts.Markdown = nil, nil
	opts.HTML = String(html)
	return c.Screenshot(ctx, opts)
}

// ScreenshotFromMarkdown renders markdown. Any url or html in base is dropped.
func (c *Client) ScreenshotFromMarkdown(ctx context.Context, markdown string, base *ScreenshotOptions) ([]byte, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, invalidParams("markdown is required")
	}
	opts := copyScreenshotOptions(base)
	opts.URL, opts.HTML = nil, nil
	opts.Markdown = String(markdown)
	return c.Screenshot(ctx, opts)
}

// ScreenshotDevice captures url emulating a device preset.
func (c *Client) ScreenshotDevice(ctx context.Context, pageURL string, device DevicePreset, base *ScreenshotOptions) ([]byte, error) {
	if strings.TrimSpace(pageURL) == "" {
		return nil, invalidParams("url is required")
	}
	opts := copyScreenshotOptions(base)
	opts.URL = String(pageURL)
	if device != "" {
		opts.Device = String(string(device))
	}
	return c.Screenshot(ctx, opts)
}

// ScreenshotAsync queues a capture and returns its job handle.
func (c *Client) ScreenshotAsync(ctx context.Context, opts ScreenshotOptions) (*AsyncJob, error) {
	if !opts.hasSource() {
		return nil, invalidParams("one of url, html or markdown is required")
	}
	opts.Async = Bool(true)
	var out AsyncJob
	if err := c.doJSON(ctx, http.MethodPost, "/v1/screenshot", opts, &out); err != nil {
		return nil, err
	}
	if out.JobID == "" {
		return nil, &Error{Code: CodeDecodeError, Message: "async response has no jobId", StatusCode: http.StatusOK}
	}
	return &out, nil
}

// GetScreenshotAsyncStatus fetches the current state of an async screenshot job.
func (c *Client) GetScreenshotAsyncStatus(ctx context.Context, jobID string) (*AsyncScreenshotStatus, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, invalidParams("job id is required")
	}
	var out AsyncScreenshotStatus
	if err := c.doJSON(ctx, http.MethodGet, "/v1/screenshot/async/"+url.PathEscape(jobID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func copyScreenshotOptions(base *ScreenshotOptions) ScreenshotOptions {
	if base == nil {
		return ScreenshotOptions{}
	}
	return *base
}
