package snapapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type jobState interface {
	jobStatus() JobStatus
}

// poll sleeps the poll interval, fetches, and stops on a terminal status.
// It never fetches more than maxPollAttempts times.
func poll[T jobState](ctx context.Context, c *Client, jobID string, fetch func(context.Context, string) (T, error)) (T, error) {
	var zero T
	if strings.TrimSpace(jobID) == "" {
		return zero, invalidParams("job id is required")
	}
	for attempt := 1; attempt <= c.maxPollAttempts; attempt++ {
		if err := sleep(ctx, c.pollInterval); err != nil {
			return zero, canceled(err)
		}
		state, err := fetch(ctx, jobID)
		if err != nil {
			return zero, err
		}
		status := state.jobStatus()
		c.log.DebugObj("snapapi job polled", "job", map[string]any{"job_id": jobID, "status": status, "attempt": attempt})
		if status.IsTerminal() {
			return state, nil
		}
	}
	return zero, &Error{
		Code:       CodeTimeout,
		Message:    fmt.Sprintf("job %s did not finish after %d polls", jobID, c.maxPollAttempts),
		StatusCode: http.StatusRequestTimeout,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WaitForScreenshotAsync polls an async screenshot job until it completes or
// fails. A failed job is returned as a status, not an error.
func (c *Client) WaitForScreenshotAsync(ctx context.Context, jobID string) (*AsyncScreenshotStatus, error) {
	return poll(ctx, c, jobID, c.GetScreenshotAsyncStatus)
}

// ScreenshotAsyncAndWait submits an async screenshot and waits for it.
func (c *Client) ScreenshotAsyncAndWait(ctx context.Context, opts ScreenshotOptions) (*AsyncScreenshotStatus, error) {
	job, err := c.ScreenshotAsync(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c.WaitForScreenshotAsync(ctx, job.JobID)
}

// WaitForBatch polls a batch job until it completes or fails.
func (c *Client) WaitForBatch(ctx context.Context, jobID string) (*BatchStatus, error) {
	return poll(ctx, c, jobID, c.GetBatchStatus)
}

// BatchAndWait submits a batch and waits for it.
func (c *Client) BatchAndWait(ctx context.Context, opts BatchOptions) (*BatchStatus, error) {
	job, err := c.Batch(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c.WaitForBatch(ctx, job.JobID)
}
