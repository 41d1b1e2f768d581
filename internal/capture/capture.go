package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/snapapi-hq/snapapi-go/internal/domain"
	"github.com/snapapi-hq/snapapi-go/internal/logger"
	"github.com/snapapi-hq/snapapi-go/pkg/sinks"
	"github.com/snapapi-hq/snapapi-go/pkg/tasks"
)

// Service executes capture tasks and delivers their artifacts.
type Service struct {
	client    SnapClient
	publisher EventPublisher
	deduper   Deduper
}

// Stats summarizes one pass.
type Stats struct {
	Captured int
	Skipped  int
	Failed   int
}

// NewService wires a capture service. deduper may be nil.
func NewService(client SnapClient, pub EventPublisher, deduper Deduper) *Service {
	return &Service{client: client, publisher: pub, deduper: deduper}
}

// Run executes a pass over tasks. Task failures are joined into the returned
// error; a cancelled context ends the pass and returns only ctx.Err().
func (s *Service) Run(ctx context.Context, runID string, list []tasks.Task) (Stats, error) {
	if s == nil || s.client == nil {
		return Stats{}, fmt.Errorf("capture service is not initialized")
	}
	if len(list) == 0 {
		return Stats{}, fmt.Errorf("no tasks configured for capture")
	}

	var (
		stats Stats
		errs  []error
	)
	for _, task := range list {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		captured, err := s.runTask(ctx, runID, task)
		switch {
		case ctx.Err() != nil:
			return stats, ctx.Err()
		case err != nil:
			stats.Failed++
			errs = append(errs, err)
			logger.ErrorObj("capture task failed", "task_error", map[string]any{
				"run_id":  runID,
				"task_id": task.ID,
				"kind":    task.Kind,
				"error":   err.Error(),
			})
		case captured:
			stats.Captured++
		default:
			stats.Skipped++
		}
	}

	logger.InfoObj("capture pass completed", "capture_result", map[string]any{
		"run_id":   runID,
		"captured": stats.Captured,
		"skipped":  stats.Skipped,
		"failed":   stats.Failed,
	})
	return stats, errors.Join(errs...)
}

// runTask reports whether the task was captured (false when skipped).
func (s *Service) runTask(ctx context.Context, runID string, task tasks.Task) (bool, error) {
	key := task.Fingerprint()
	if s.deduper != nil {
		last, seen, err := s.deduper.LastRun(ctx, key)
		if err != nil {
			return false, fmt.Errorf("task %s: check store: %w", task.ID, err)
		}
		if seen {
			logger.DebugObj("capture task skipped", "task_skipped", map[string]any{
				"run_id":      runID,
				"task_id":     task.ID,
				"last_run_id": last.RunID,
				"expires_at":  last.ExpiresAt,
			})
			return false, nil
		}
	}

	art, err := s.execute(ctx, task)
	if err != nil {
		return false, fmt.Errorf("task %s: %w", task.ID, err)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if s.publisher != nil {
		delivered, err := s.publisher.Publish(ctx, sinks.NewEvent(runID, task.Name, art))
		if err != nil {
			return false, fmt.Errorf("task %s: deliver (%d sinks ok): %w", task.ID, delivered, err)
		}
	}

	if s.deduper != nil {
		rec := domain.TaskRecord{
			TaskID:      task.ID,
			Kind:        task.Kind,
			RunID:       runID,
			ContentType: art.ContentType,
			Size:        art.Size,
		}
		if err := s.deduper.MarkTask(ctx, key, rec); err != nil {
			return true, fmt.Errorf("task %s: mark delivered: %w", task.ID, err)
		}
	}

	logger.InfoObj("capture task delivered", "task_delivered", map[string]any{
		"run_id":       runID,
		"task_id":      task.ID,
		"kind":         task.Kind,
		"content_type": art.ContentType,
		"size":         art.Size,
	})
	return true, nil
}

func (s *Service) execute(ctx context.Context, task tasks.Task) (domain.Artifact, error) {
	switch task.Kind {
	case tasks.KindScreenshot:
		return s.screenshot(ctx, task)
	case tasks.KindScreenshotMetadata:
		return s.screenshotMetadata(ctx, task)
	case tasks.KindScreenshotAsync:
		return s.screenshotAsync(ctx, task)
	case tasks.KindPDF:
		return s.pdf(ctx, task)
	case tasks.KindVideo:
		return s.video(ctx, task)
	case tasks.KindBatch:
		return s.batch(ctx, task)
	case tasks.KindExtract:
		return s.extract(ctx, task)
	case tasks.KindAnalyze:
		return s.analyze(ctx, task)
	default:
		return domain.Artifact{}, fmt.Errorf("unsupported kind %q", task.Kind)
	}
}
