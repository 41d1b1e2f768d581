package snapapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Batch queues screenshots of several URLs as one job.
func (c *Client) Batch(ctx context.Context, opts BatchOptions) (*BatchResult, error) {
	if len(opts.URLs) == 0 {
		return nil, invalidParams("urls must not be empty")
	}
	for _, u := range opts.URLs {
		if strings.TrimSpace(u) == "" {
			return nil, invalidParams("urls must not contain empty entries")
		}
	}
	var out BatchResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/screenshot/batch", opts, &out); err != nil {
		return nil, err
	}
	if out.JobID == "" {
		return nil, &Error{Code: CodeDecodeError, Message: "batch response has no jobId", StatusCode: http.StatusOK}
	}
	return &out, nil
}

// GetBatchStatus fetches the current state of a batch job, including per-URL
// results once available.
func (c *Client) GetBatchStatus(ctx context.Context, jobID string) (*BatchStatus, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, invalidParams("job id is required")
	}
	var out BatchStatus
	if err := c.doJSON(ctx, http.MethodGet, "/v1/screenshot/batch/"+url.PathEscape(jobID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
