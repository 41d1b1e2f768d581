package tasks

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/snapapi-hq/snapapi-go/pkg/snapapi"
	"gopkg.in/yaml.v3"
)

// Package tasks loads capture task definitions (YAML/JSON) for the runner.

// Supported task kinds.
const (
	KindScreenshot         = "screenshot"
	KindScreenshotMetadata = "screenshot_metadata"
	KindScreenshotAsync    = "screenshot_async"
	KindPDF                = "pdf"
	KindVideo              = "video"
	KindBatch              = "batch"
	KindExtract            = "extract"
	KindAnalyze            = "analyze"
)

// Task is one capture declared in the tasks file. Options holds the request
// fields of the matching snapapi options struct, keyed by their JSON names.
type Task struct {
	ID      string         `json:"id" yaml:"id"`
	Name    string         `json:"name" yaml:"name"`
	Kind    string         `json:"kind" yaml:"kind"`
	Enabled *bool          `json:"enabled" yaml:"enabled"`
	Output  string         `json:"output" yaml:"output"`
	Options map[string]any `json:"options" yaml:"options"`

	expanded map[string]any
}

type configFile struct {
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

// Registry holds the validated tasks of one file.
type Registry struct {
	mu    sync.RWMutex
	tasks []Task
	idx   map[string]Task
}

// optionTargets returns a fresh options value for a kind, used to validate
// and decode task options.
var optionTargets = map[string]func() any{
	KindScreenshot:         func() any { return &snapapi.ScreenshotOptions{} },
	KindScreenshotMetadata: func() any { return &snapapi.ScreenshotOptions{} },
	KindScreenshotAsync:    func() any { return &snapapi.ScreenshotOptions{} },
	KindPDF:                func() any { return &snapapi.ScreenshotOptions{} },
	KindVideo:              func() any { return &snapapi.VideoOptions{} },
	KindBatch:              func() any { return &snapapi.BatchOptions{} },
	KindExtract:            func() any { return &snapapi.ExtractOptions{} },
	KindAnalyze:            func() any { return &snapapi.AnalyzeOptions{} },
}

// Kinds lists the supported task kinds.
func Kinds() []string {
	return []string{
		KindScreenshot, KindScreenshotMetadata, KindScreenshotAsync, KindPDF,
		KindVideo, KindBatch, KindExtract, KindAnalyze,
	}
}

// LoadRegistry loads tasks from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("tasks file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tasks file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read tasks file: %w", err)
	}
	return Parse(raw, filepath.Ext(path), os.LookupEnv)
}

// Parse decodes task definitions. ext selects the decoder (".yaml", ".yml",
// ".json"); when empty every decoder is tried. lookup resolves ${VAR}
// references in string option values of enabled tasks.
func Parse(data []byte, ext string, lookup func(string) (string, bool)) (*Registry, error) {
	file, err := parseTasksFile(data, ext)
	if err != nil {
		return nil, err
	}
	if len(file.Tasks) == 0 {
		return nil, errors.New("tasks file contains no tasks entries")
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}

	reg := &Registry{
		tasks: make([]Task, len(file.Tasks)),
		idx:   make(map[string]Task, len(file.Tasks)),
	}
	for i := range file.Tasks {
		task := sanitizeTask(file.Tasks[i])
		if err := validateTask(task); err != nil {
			return nil, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		if _, exists := reg.idx[task.ID]; exists {
			return nil, fmt.Errorf("duplicate task id %q", task.ID)
		}
		// Disabled tasks keep their references unresolved so their secrets
		// need not be set.
		if task.EnabledValue() {
			expanded, err := expandValue(task.Options, lookup)
			if err != nil {
				return nil, fmt.Errorf("task %q: %w", task.ID, err)
			}
			task.expanded = expanded.(map[string]any)
		}
		if err := task.Decode(optionTargets[task.Kind]()); err != nil {
			return nil, fmt.Errorf("task %q: %w", task.ID, err)
		}
		reg.tasks[i] = task
		reg.idx[task.ID] = task
	}
	return reg, nil
}

func parseTasksFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var file configFile
		if err := d.fn(data, &file); err != nil {
			lastErr = fmt.Errorf("decode %s tasks: %w", d.name, err)
			continue
		}
		return file, nil
	}
	if lastErr != nil {
		return configFile{}, lastErr
	}
	return configFile{}, errors.New("tasks file format not recognized (expected YAML or JSON)")
}

func sanitizeTask(t Task) Task {
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.Kind = strings.ToLower(strings.TrimSpace(t.Kind))
	t.Output = strings.TrimSpace(t.Output)
	if t.Name == "" {
		t.Name = t.ID
	}
	if t.Output == "" {
		t.Output = t.ID
	}
	if t.Enabled == nil {
		def := true
		t.Enabled = &def
	}
	if t.Options == nil {
		t.Options = map[string]any{}
	}
	return t
}

func validateTask(t Task) error {
	if t.ID == "" {
		return errors.New("id is required")
	}
	if t.Kind == "" {
		return fmt.Errorf("kind is required for task %q", t.ID)
	}
	if _, ok := optionTargets[t.Kind]; !ok {
		return fmt.Errorf("unsupported kind %q for task %q", t.Kind, t.ID)
	}
	if strings.ContainsAny(t.Output, `/\`) || t.Output == "." || t.Output == ".." {
		return fmt.Errorf("output %q for task %q must be a plain file name", t.Output, t.ID)
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandValue replaces ${VAR} in every string of v. Unset variables are errors.
func expandValue(v any, lookup func(string) (string, bool)) (any, error) {
	switch val := v.(type) {
	case string:
		var missing []string
		out := envRef.ReplaceAllStringFunc(val, func(ref string) string {
			name := envRef.FindStringSubmatch(ref)[1]
			if s, ok := lookup(name); ok {
				return s
			}
			missing = append(missing, name)
			return ""
		})
		if len(missing) > 0 {
			return nil, fmt.Errorf("environment variable %s is not set", strings.Join(missing, ", "))
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			expanded, err := expandValue(item, lookup)
			if err != nil {
				return nil, err
			}
			out[k] = expanded
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			expanded, err := expandValue(item, lookup)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}

// Decode maps the task's expanded options onto dst, which must be a pointer to
// the snapapi options struct of the task's kind. Unknown keys are rejected.
func (t Task) Decode(dst any) error {
	opts := t.expanded
	if opts == nil {
		opts = t.Options
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode %s options: %w", t.Kind, err)
	}
	return nil
}

// Fingerprint is a stable hash of the task identity and its options as
// written in the file, so secrets resolved from the environment do not
// change it.
func (t Task) Fingerprint() string {
	raw, _ := json.Marshal(t.Options)
	sum := sha1.Sum([]byte(t.ID + "\x00" + t.Kind + "\x00" + string(raw)))
	return t.ID + ":" + hex.EncodeToString(sum[:])
}

// EnabledValue returns enabled flag defaulting to true.
func (t Task) EnabledValue() bool {
	if t.Enabled == nil {
		return true
	}
	return *t.Enabled
}

// ByID returns the task by id.
func (r *Registry) ByID(id string) (Task, bool) {
	if r == nil {
		return Task{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Task{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.idx[id]
	return t, ok
}

// All returns every task in file order.
func (r *Registry) All() []Task {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Enabled returns tasks that are enabled.
func (r *Registry) Enabled() []Task {
	all := r.All()
	if len(all) == 0 {
		return nil
	}
	out := make([]Task, 0, len(all))
	for _, t := range all {
		if t.EnabledValue() {
			out = append(out, t)
		}
	}
	return out
}
