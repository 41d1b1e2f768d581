package snapapi

import (
	"context"
	"net/http"
	"strings"
)

// Extract pulls content out of a page in the requested ExtractType.
func (c *Client) Extract(ctx context.Context, opts ExtractOptions) (*ExtractResult, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, invalidParams("url is required")
	}
	var out ExtractResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/extract", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) extractAs(ctx context.Context, pageURL string, typ ExtractType) (*ExtractResult, error) {
	return c.Extract(ctx, ExtractOptions{URL: pageURL, Type: &typ})
}

// ExtractMarkdown extracts the page content as markdown.
func (c *Client) ExtractMarkdown(ctx context.Context, pageURL string) (*ExtractResult, error) {
	return c.extractAs(ctx, pageURL, ExtractTypeMarkdown)
}

// ExtractText extracts the visible page text.
func (c *Client) ExtractText(ctx context.Context, pageURL string) (*ExtractResult, error) {
	return c.extractAs(ctx, pageURL, ExtractTypeText)
}

// ExtractHTML extracts the page HTML.
func (c *Client) ExtractHTML(ctx context.Context, pageURL string) (*ExtractResult, error) {
	return c.extractAs(ctx, pageURL, ExtractTypeHTML)
}

// ExtractArticle returns the readable article body; see ExtractResult.Article.
func (c *Client) ExtractArticle(ctx context.Context, pageURL string) (*ExtractResult, error) {
	return c.extractAs(ctx, pageURL, ExtractTypeArticle)
}

// ExtractStructured extracts structured page data.
func (c *Client) ExtractStructured(ctx context.Context, pageURL string) (*ExtractResult, error) {
	return c.extractAs(ctx, pageURL, ExtractTypeStructured)
}

// ExtractLinks lists the links on a page.
func (c *Client) ExtractLinks(ctx context.Context, pageURL string) (*ExtractResult, error) {
	return c.extractAs(ctx, pageURL, ExtractTypeLinks)
}

// ExtractImages lists the images on a page.
func (c *Client) ExtractImages(ctx context.Context, pageURL string) (*ExtractResult, error) {
	return c.extractAs(ctx, pageURL, ExtractTypeImages)
}

// ExtractMetadata extracts page metadata such as title and Open Graph tags.
func (c *Client) ExtractMetadata(ctx context.Context, pageURL string) (*ExtractResult, error) {
	return c.extractAs(ctx, pageURL, ExtractTypeMetadata)
}

// Analyze runs prompt against the page with the caller's LLM provider key.
func (c *Client) Analyze(ctx context.Context, opts AnalyzeOptions) (*AnalyzeResult, error) {
	switch {
	case strings.TrimSpace(opts.URL) == "":
		return nil, invalidParams("url is required")
	case strings.TrimSpace(opts.Prompt) == "":
		return nil, invalidParams("prompt is required")
	case strings.TrimSpace(opts.APIKey) == "":
		return nil, invalidParams("provider api key is required")
	}
	var out AnalyzeResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/analyze", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
