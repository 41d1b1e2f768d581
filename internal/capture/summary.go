package capture

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/snapapi-hq/snapapi-go/internal/domain"
)

const maxHTMLBodyBytes = 1 << 20 // 1 MiB

// summarizeHTML pulls title, description and OG image plus link and image
// counts from extracted HTML.
func summarizeHTML(body string) (*domain.PageSummary, error) {
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return &domain.PageSummary{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			doc.Find("title").First().Text(),
			doc.Find("h1").First().Text(),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: extract(`meta[property="og:image"]`),
		Links:    doc.Find("a[href]").Length(),
		Images:   doc.Find("img[src]").Length(),
	}, nil
}
