package tasks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/snapapi-hq/snapapi-go/pkg/snapapi"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadRegistryYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tasks.yaml")
	content := `
tasks:
  - id: home
    name: Homepage
    kind: screenshot
    options:
      url: https://example.com
      format: png
      fullPage: true
      width: 1440
  - id: docs-pdf
    kind: PDF
    enabled: false
    output: docs
    options:
      url: https://example.com/docs
      pdfOptions:
        pageSize: a4
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write tasks file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(reg.All()))
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "home" {
		t.Fatalf("unexpected enabled tasks %+v", enabled)
	}

	home, ok := reg.ByID("home")
	if !ok {
		t.Fatalf("home not found")
	}
	var opts snapapi.ScreenshotOptions
	if err := home.Decode(&opts); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if *opts.URL != "https://example.com" || *opts.Width != 1440 || !*opts.FullPage {
		t.Fatalf("unexpected options %+v", opts)
	}
	if home.Output != "home" || home.Name != "Homepage" {
		t.Fatalf("defaults not applied: %+v", home)
	}

	docs, _ := reg.ByID("docs-pdf")
	if docs.Kind != KindPDF || docs.Output != "docs" {
		t.Fatalf("unexpected docs task %+v", docs)
	}
	var pdf snapapi.ScreenshotOptions
	if err := docs.Decode(&pdf); err != nil || pdf.PDFOptions == nil || *pdf.PDFOptions.PageSize != "a4" {
		t.Fatalf("pdf options = %+v, %v", pdf.PDFOptions, err)
	}
}

func TestParseJSONWithEnvExpansion(t *testing.T) {
	data := []byte(`{"tasks":[{"id":"sentiment","kind":"analyze","options":{"url":"https://example.com","prompt":"Summarize","apiKey":"${OPENAI_API_KEY}","jsonSchema":{"type":"object"}}}]}`)
	reg, err := Parse(data, ".json", envMap(map[string]string{"OPENAI_API_KEY": "sk-test"}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	task, _ := reg.ByID("sentiment")
	var opts snapapi.AnalyzeOptions
	if err := task.Decode(&opts); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if opts.APIKey != "sk-test" {
		t.Fatalf("APIKey = %q", opts.APIKey)
	}
	if opts.JSONSchema == nil || opts.JSONSchema.Kind() != snapapi.KindObject {
		t.Fatalf("jsonSchema = %v", opts.JSONSchema)
	}
	if task.Options["apiKey"] != "${OPENAI_API_KEY}" {
		t.Fatalf("raw options must keep the reference, got %v", task.Options["apiKey"])
	}

	other, err := Parse(data, ".json", envMap(map[string]string{"OPENAI_API_KEY": "sk-rotated"}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rotated, _ := other.ByID("sentiment")
	if rotated.Fingerprint() != task.Fingerprint() {
		t.Fatalf("fingerprint must not depend on resolved secrets")
	}
}

func TestParseRejectsInvalidTasks(t *testing.T) {
	cases := map[string]string{
		"missing id":     `{"tasks":[{"kind":"screenshot"}]}`,
		"unknown kind":   `{"tasks":[{"id":"a","kind":"gif"}]}`,
		"duplicate":      `{"tasks":[{"id":"a","kind":"screenshot"},{"id":"a","kind":"pdf"}]}`,
		"unknown option": `{"tasks":[{"id":"a","kind":"video","options":{"url":"https://x","colour":"red"}}]}`,
		"bad output":     `{"tasks":[{"id":"a","kind":"screenshot","output":"../etc/passwd"}]}`,
		"unset env":      `{"tasks":[{"id":"a","kind":"extract","options":{"url":"${MISSING_URL}"}}]}`,
		"empty":          `{"tasks":[]}`,
	}
	for name, body := range cases {
		if _, err := Parse([]byte(body), ".json", envMap(nil)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestFingerprintChangesWithOptions(t *testing.T) {
	a := Task{ID: "home", Kind: KindScreenshot, Options: map[string]any{"url": "https://a", "format": "png"}}
	b := Task{ID: "home", Kind: KindScreenshot, Options: map[string]any{"format": "png", "url": "https://a"}}
	c := Task{ID: "home", Kind: KindScreenshot, Options: map[string]any{"url": "https://a", "format": "jpeg"}}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("key order must not matter")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("different options must change the fingerprint")
	}
	if !strings.HasPrefix(a.Fingerprint(), "home:") {
		t.Fatalf("fingerprint should start with the task id: %s", a.Fingerprint())
	}
}

func TestKindsAreAllDecodable(t *testing.T) {
	for _, kind := range Kinds() {
		if _, ok := optionTargets[kind]; !ok {
			t.Fatalf("kind %s has no options target", kind)
		}
	}
}

func TestDisabledTasksSkipEnvExpansion(t *testing.T) {
	data := []byte(`{"tasks":[{"id":"later","kind":"analyze","enabled":false,"options":{"url":"https://example.com","prompt":"p","apiKey":"${NOT_SET_YET}"}}]}`)
	reg, err := Parse(data, ".json", envMap(nil))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(reg.Enabled()) != 0 {
		t.Fatalf("expected no enabled tasks")
	}
}
