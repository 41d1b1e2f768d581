package capture

import (
	"context"

	"github.com/snapapi-hq/snapapi-go/internal/domain"
	"github.com/snapapi-hq/snapapi-go/pkg/sinks"
	"github.com/snapapi-hq/snapapi-go/pkg/snapapi"
)

// SnapClient is the subset of *snapapi.Client the service drives.
type SnapClient interface {
	Screenshot(ctx context.Context, opts snapapi.ScreenshotOptions) ([]byte, error)
	ScreenshotWithMetadata(ctx context.Context, opts snapapi.ScreenshotOptions) (*snapapi.ScreenshotResult, error)
	ScreenshotAsyncAndWait(ctx context.Context, opts snapapi.ScreenshotOptions) (*snapapi.AsyncScreenshotStatus, error)
	PDF(ctx context.Context, opts snapapi.ScreenshotOptions) ([]byte, error)
	Video(ctx context.Context, opts snapapi.VideoOptions) ([]byte, error)
	BatchAndWait(ctx context.Context, opts snapapi.BatchOptions) (*snapapi.BatchStatus, error)
	Extract(ctx context.Context, opts snapapi.ExtractOptions) (*snapapi.ExtractResult, error)
	Analyze(ctx context.Context, opts snapapi.AnalyzeOptions) (*snapapi.AnalyzeResult, error)
}

// EventPublisher delivers artifacts downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt sinks.Event) (int, error)
}

// Deduper remembers tasks that were already delivered.
type Deduper interface {
	LastRun(ctx context.Context, key string) (domain.TaskRecord, bool, error)
	MarkTask(ctx context.Context, key string, rec domain.TaskRecord) error
}
