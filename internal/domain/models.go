package domain

import (
	"encoding/json"
	"time"
)

// Domain contains core models shared by the runner packages.

// PageSummary is title/description/image metadata pulled from extracted HTML.
type PageSummary struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Links       int    `json:"links"`
	Images      int    `json:"images"`
}

// Artifact is the output of one capture task. Data holds binary captures and
// is never serialized; Result holds the JSON body of JSON-returning calls.
type Artifact struct {
	TaskID      string          `json:"task_id"`
	Kind        string          `json:"kind"`
	Output      string          `json:"output"`
	ContentType string          `json:"content_type"`
	Extension   string          `json:"extension"`
	Size        int             `json:"size"`
	Width       int             `json:"width,omitempty"`
	Height      int             `json:"height,omitempty"`
	JobID       string          `json:"job_id,omitempty"`
	JobStatus   string          `json:"job_status,omitempty"`
	Summary     *PageSummary    `json:"summary,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Data        []byte          `json:"-"`
}

// FileName is the output name with extension.
func (a Artifact) FileName() string {
	name := a.Output
	if name == "" {
		name = a.TaskID
	}
	if a.Extension == "" {
		return name
	}
	return name + "." + a.Extension
}

// TaskRecord is what the store keeps about the last delivered run of a task.
type TaskRecord struct {
	Key         string    `json:"key"`
	TaskID      string    `json:"task_id"`
	Kind        string    `json:"kind"`
	RunID       string    `json:"run_id"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int       `json:"size"`
	MarkedAt    time.Time `json:"marked_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Live reports whether the record has not expired at now.
func (r TaskRecord) Live(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && r.ExpiresAt.After(now)
}
