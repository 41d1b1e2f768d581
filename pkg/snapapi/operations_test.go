package snapapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

// recorder answers every request with the configured body and keeps the last request.
func recorder(t *testing.T, reply string, last *recordedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &rec.Body); err != nil {
				t.Errorf("decode body: %v", err)
				http.Error(w, "bad body", http.StatusInternalServerError)
				return
			}
		}
		*last = rec
		_, _ = io.WriteString(w, reply)
	}))
}

func TestPDFForcesFormatAndBinary(t *testing.T) {
	var last recordedRequest
	srv := recorder(t, "%PDF-1.7", &last)
	defer srv.Close()

	out, err := newTestClient(t, srv).PDFFromHTML(context.Background(), "<h1>hi</h1>", &PDFOptions{PageSize: String("a4"), Landscape: Bool(true)})
	if err != nil {
		t.Fatalf("PDFFromHTML: %v", err)
	}
	if string(out) != "%PDF-1.7" {
		t.Fatalf("unexpected body %q", out)
	}
	if last.Method != http.MethodPost || last.Path != "/v1/pdf" {
		t.Fatalf("unexpected request %s %s", last.Method, last.Path)
	}
	if last.Body["format"] != "pdf" || last.Body["responseType"] != "binary" || last.Body["html"] != "<h1>hi</h1>" {
		t.Fatalf("unexpected body %v", last.Body)
	}
	pdf, ok := last.Body["pdfOptions"].(map[string]any)
	if !ok || pdf["pageSize"] != "a4" || pdf["landscape"] != true {
		t.Fatalf("pdfOptions = %v", last.Body["pdfOptions"])
	}
}

func TestScreenshotWithMetadataDoesNotMutateOptions(t *testing.T) {
	var last recordedRequest
	srv := recorder(t, `{"success":true,"data":"iVBORw0KGgo=","width":1280,"height":720,"fileSize":8,"took":120,"format":"png","metadata":{"title":"Example"}}`, &last)
	defer srv.Close()

	opts := ScreenshotOptions{URL: String("https://example.com")}
	res, err := newTestClient(t, srv).ScreenshotWithMetadata(context.Background(), opts)
	if err != nil {
		t.Fatalf("ScreenshotWithMetadata: %v", err)
	}
	if opts.ResponseType != nil {
		t.Fatalf("caller options were modified")
	}
	if last.Body["responseType"] != "json" {
		t.Fatalf("responseType not forced: %v", last.Body)
	}
	if res.Width != 1280 || res.Metadata == nil || res.Metadata.Title != "Example" {
		t.Fatalf("unexpected result %+v", res)
	}
	img, err := res.ImageData()
	if err != nil {
		t.Fatalf("ImageData: %v", err)
	}
	if len(img) != 8 || img[0] != 0x89 || img[1] != 'P' {
		t.Fatalf("unexpected image bytes %v", img)
	}
}

func TestScreenshotFromMarkdownClearsOtherSources(t *testing.T) {
	var last recordedRequest
	srv := recorder(t, "img", &last)
	defer srv.Close()

	base := &ScreenshotOptions{URL: String("https://ignored.example"), HTML: String("<p>x</p>"), Width: Int(800)}
	if _, err := newTestClient(t, srv).ScreenshotFromMarkdown(context.Background(), "# Title", base); err != nil {
		t.Fatalf("ScreenshotFromMarkdown: %v", err)
	}
	if _, ok := last.Body["url"]; ok {
		t.Fatalf("url should be cleared: %v", last.Body)
	}
	if _, ok := last.Body["html"]; ok {
		t.Fatalf("html should be cleared: %v", last.Body)
	}
	if last.Body["markdown"] != "# Title" || last.Body["width"] != float64(800) {
		t.Fatalf("unexpected body %v", last.Body)
	}
	if base.URL == nil || *base.URL != "https://ignored.example" {
		t.Fatalf("base options were modified")
	}
}

func TestScreenshotDeviceSetsPreset(t *testing.T) {
	var last recordedRequest
	srv := recorder(t, "img", &last)
	defer srv.Close()

	if _, err := newTestClient(t, srv).ScreenshotDevice(context.Background(), "https://example.com", DeviceIPhone15Pro, nil); err != nil {
		t.Fatalf("ScreenshotDevice: %v", err)
	}
	if last.Body["device"] != "iphone-15-pro" || last.Body["url"] != "https://example.com" {
		t.Fatalf("unexpected body %v", last.Body)
	}
}

func TestVideoDefaults(t *testing.T) {
	var last recordedRequest
	srv := recorder(t, `{"success":true,"data":"AAAAIGZ0eXA=","format":"mp4","width":1280,"height":720,"fileSize":8,"duration":5000,"took":900}`, &last)
	defer srv.Close()

	res, err := newTestClient(t, srv).VideoWithResult(context.Background(), NewVideoOptions("https://example.com"))
	if err != nil {
		t.Fatalf("VideoWithResult: %v", err)
	}
	if last.Path != "/v1/video" || last.Body["format"] != "mp4" || last.Body["fps"] != float64(24) || last.Body["responseType"] != "json" {
		t.Fatalf("unexpected request %s %v", last.Path, last.Body)
	}
	data, err := res.VideoData()
	if err != nil || len(data) != 8 {
		t.Fatalf("VideoData = %v, %v", data, err)
	}
}

func TestExtractArticle(t *testing.T) {
	var last recordedRequest
	srv := recorder(t, `{"success":true,"type":"article","url":"https://example.com","data":{"title":"Hello","content":"<p>x</p>","readingTime":3},"responseTime":410}`, &last)
	defer srv.Close()

	res, err := newTestClient(t, srv).ExtractArticle(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("ExtractArticle: %v", err)
	}
	if last.Path != "/v1/extract" || last.Body["type"] != "article" {
		t.Fatalf("unexpected request %s %v", last.Path, last.Body)
	}
	article, err := res.Article()
	if err != nil {
		t.Fatalf("Article: %v", err)
	}
	if article.Title != "Hello" || article.ReadingTime != 3 {
		t.Fatalf("unexpected article %+v", article)
	}
	if _, ok := res.Text(); ok {
		t.Fatalf("object data should not read as text")
	}
}

func TestExtractLinksAndMarkdown(t *testing.T) {
	var last recordedRequest
	srv := recorder(t, `{"success":true,"type":"links","url":"https://example.com","data":[{"text":"Docs","href":"/docs"}],"responseTime":10}`, &last)
	defer srv.Close()
	c := newTestClient(t, srv)

	res, err := c.ExtractLinks(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("ExtractLinks: %v", err)
	}
	links, err := res.Links()
	if err != nil || len(links) != 1 || links[0].Href != "/docs" {
		t.Fatalf("Links = %v, %v", links, err)
	}

	srv2 := recorder(t, `{"success":true,"type":"markdown","url":"https://example.com","data":"# Hi","responseTime":10}`, &last)
	defer srv2.Close()
	res, err = newTestClient(t, srv2).ExtractMarkdown(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("ExtractMarkdown: %v", err)
	}
	if text, ok := res.Text(); !ok || text != "# Hi" {
		t.Fatalf("Text = %q, %v", text, ok)
	}
}

func TestAnalyzeSendsSchema(t *testing.T) {
	var last recordedRequest
	srv := recorder(t, `{"success":true,"url":"https://example.com","analysis":{"sentiment":"positive"},"provider":"openai","model":"gpt-4o-mini","responseTime":1200}`, &last)
	defer srv.Close()

	schema := ObjectValue(map[string]Value{
		"type": StringValue("object"),
		"properties": ObjectValue(map[string]Value{
			"sentiment": ObjectValue(map[string]Value{"type": StringValue("string")}),
		}),
	})
	res, err := newTestClient(t, srv).Analyze(context.Background(), AnalyzeOptions{
		URL:        "https://example.com",
		Prompt:     "Summarize sentiment",
		APIKey:     "sk-test",
		Provider:   String("openai"),
		JSONSchema: &schema,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if last.Path != "/v1/analyze" || last.Body["apiKey"] != "sk-test" {
		t.Fatalf("unexpected request %s %v", last.Path, last.Body)
	}
	sent, ok := last.Body["jsonSchema"].(map[string]any)
	if !ok || sent["type"] != "object" {
		t.Fatalf("jsonSchema = %v", last.Body["jsonSchema"])
	}
	sentiment, _ := res.Analysis.Get("sentiment")
	if s, _ := sentiment.AsString(); s != "positive" {
		t.Fatalf("analysis = %s", res.Analysis)
	}
	if !res.Metadata.IsNull() {
		t.Fatalf("metadata should be null when absent")
	}
}

func TestInfoEndpoints(t *testing.T) {
	responses := map[string]string{
		"/v1/ping":         `{"status":"ok","timestamp":1700000000}`,
		"/v1/devices":      `{"success":true,"devices":{"mobile":[{"id":"iphone-15-pro","name":"iPhone 15 Pro","width":393,"height":852,"deviceScaleFactor":3,"isMobile":true}]},"total":1}`,
		"/v1/capabilities": `{"success":true,"version":"2.1.0","capabilities":{"formats":["png","jpeg","webp"],"maxWidth":3840}}`,
		"/v1/usage":        `{"used":120,"limit":1000,"remaining":880,"resetAt":"2026-11-01T00:00:00Z"}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
			http.Error(w, "bad method", http.StatusInternalServerError)
			return
		}
		body, ok := responses[r.URL.Path]
		if !ok {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.Error(w, "unexpected path", http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()

	ping, err := c.Ping(ctx)
	if err != nil || ping.Status != "ok" {
		t.Fatalf("Ping = %+v, %v", ping, err)
	}
	devices, err := c.GetDevices(ctx)
	if err != nil || devices.Total != 1 || devices.Devices["mobile"][0].ID != "iphone-15-pro" {
		t.Fatalf("GetDevices = %+v, %v", devices, err)
	}
	caps, err := c.GetCapabilities(ctx)
	if err != nil {
		t.Fatalf("GetCapabilities: %v", err)
	}
	if caps.Capabilities["formats"].Len() != 3 {
		t.Fatalf("formats = %s", caps.Capabilities["formats"])
	}
	if n, ok := caps.Capabilities["maxWidth"].AsInt64(); !ok || n != 3840 {
		t.Fatalf("maxWidth = %s", caps.Capabilities["maxWidth"])
	}
	usage, err := c.GetUsage(ctx)
	if err != nil || usage.Remaining != 880 {
		t.Fatalf("GetUsage = %+v, %v", usage, err)
	}
}

func TestDevicePresets(t *testing.T) {
	presets := DevicePresets()
	if len(presets) != 25 {
		t.Fatalf("expected 25 presets, got %d", len(presets))
	}
	seen := map[DevicePreset]bool{}
	for _, p := range presets {
		if seen[p] {
			t.Fatalf("duplicate preset %s", p)
		}
		seen[p] = true
	}
	presets[0] = "mutated"
	if DevicePresets()[0] != DeviceDesktop1080p {
		t.Fatalf("DevicePresets must return a copy")
	}
}
