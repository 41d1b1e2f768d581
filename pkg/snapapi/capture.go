package snapapi

import (
	"context"
	"net/http"
	"strings"
)

// PDF renders a page as PDF. Format and response type are forced to pdf and binary.
func (c *Client) PDF(ctx context.Context, opts ScreenshotOptions) ([]byte, error) {
	if !opts.hasSource() {
		return nil, invalidParams("one of url, html or markdown is required")
	}
	opts.Format = String("pdf")
	opts.ResponseType = String(ResponseTypeBinary)
	raw, _, err := c.do(ctx, http.MethodPost, "/v1/pdf", opts)
	return raw, err
}

// PDFFromHTML renders raw HTML as PDF.
func (c *Client) PDFFromHTML(ctx context.Context, html string, pdf *PDFOptions) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, invalidParams("html is required")
	}
	return c.PDF(ctx, ScreenshotOptions{HTML: String(html), PDFOptions: pdf})
}

// PDFFromMarkdown renders markdown as PDF.
func (c *Client) PDFFromMarkdown(ctx context.Context, markdown string, pdf *PDFOptions) ([]byte, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, invalidParams("markdown is required")
	}
	return c.PDF(ctx, ScreenshotOptions{Markdown: String(markdown), PDFOptions: pdf})
}

// Video records a page and returns the encoded video bytes.
func (c *Client) Video(ctx context.Context, opts VideoOptions) ([]byte, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, invalidParams("url is required")
	}
	raw, _, err := c.do(ctx, http.MethodPost, "/v1/video", opts)
	return raw, err
}

// VideoWithResult forces a JSON response carrying base64 video data.
func (c *Client) VideoWithResult(ctx context.Context, opts VideoOptions) (*VideoResult, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, invalidParams("url is required")
	}
	opts.ResponseType = String(ResponseTypeJSON)
	var out VideoResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/video", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
