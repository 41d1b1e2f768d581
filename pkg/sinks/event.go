package sinks

import (
	"encoding/json"
	"time"

	"github.com/snapapi-hq/snapapi-go/internal/domain"
)

// Event represents one delivered artifact. Message sinks receive its JSON
// form, which excludes raw artifact bytes.
type Event struct {
	RunID       string          `json:"run_id"`
	TaskID      string          `json:"task_id"`
	TaskName    string          `json:"task_name"`
	Artifact    domain.Artifact `json:"artifact"`
	CollectedAt time.Time       `json:"collected_at"`
}

// NewEvent constructs an Event for the given run and artifact.
func NewEvent(runID, taskName string, artifact domain.Artifact) Event {
	return Event{
		RunID:       runID,
		TaskID:      artifact.TaskID,
		TaskName:    taskName,
		Artifact:    artifact,
		CollectedAt: time.Now().UTC(),
	}
}

func (e Event) payload() ([]byte, error) {
	return json.Marshal(e)
}
