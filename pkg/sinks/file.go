package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// fileSink writes artifacts to a local directory.
type fileSink struct {
	id         string
	dir        string
	writeEvent bool
	log        Logger
}

func newFileSink(_ context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.File == nil || cfg.File.Dir == "" {
		return nil, fmt.Errorf("sink %q missing file configuration", cfg.ID)
	}
	if err := os.MkdirAll(cfg.File.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &fileSink{
		id:         cfg.ID,
		dir:        cfg.File.Dir,
		writeEvent: cfg.File.WriteEvent,
		log:        ensureLogger(log),
	}, nil
}

func (f *fileSink) ID() string   { return f.id }
func (f *fileSink) Type() string { return TypeFile }

// Publish writes the artifact bytes, or its JSON result when there are none.
func (f *fileSink) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	art := evt.Artifact
	data := art.Data
	if len(data) == 0 && len(art.Result) > 0 {
		data = indentJSON(art.Result)
	}
	if len(data) == 0 {
		return fmt.Errorf("artifact %q has no content", art.TaskID)
	}

	path := filepath.Join(f.dir, art.FileName())
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}

	if f.writeEvent {
		payload, err := json.MarshalIndent(evt, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if err := writeFileAtomic(path+".event.json", payload); err != nil {
			return err
		}
	}

	f.log.DebugObj("file sink wrote artifact", "sink_file_write", map[string]any{
		"sink_id": f.id,
		"path":    path,
		"bytes":   len(data),
	})
	return nil
}

func indentJSON(raw []byte) []byte {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return raw
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return raw
	}
	return out
}

// writeFileAtomic writes to a temp file in the same dir and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapapi-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
