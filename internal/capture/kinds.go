package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/snapapi-hq/snapapi-go/internal/domain"
	"github.com/snapapi-hq/snapapi-go/internal/logger"
	"github.com/snapapi-hq/snapapi-go/pkg/snapapi"
	"github.com/snapapi-hq/snapapi-go/pkg/snapapi/imageutil"
	"github.com/snapapi-hq/snapapi-go/pkg/tasks"
)

func (s *Service) screenshot(ctx context.Context, task tasks.Task) (domain.Artifact, error) {
	var opts snapapi.ScreenshotOptions
	if err := task.Decode(&opts); err != nil {
		return domain.Artifact{}, err
	}
	data, err := s.client.Screenshot(ctx, opts)
	if err != nil {
		return domain.Artifact{}, err
	}
	return binaryArtifact(task, data), nil
}

func (s *Service) screenshotMetadata(ctx context.Context, task tasks.Task) (domain.Artifact, error) {
	var opts snapapi.ScreenshotOptions
	if err := task.Decode(&opts); err != nil {
		return domain.Artifact{}, err
	}
	res, err := s.client.ScreenshotWithMetadata(ctx, opts)
	if err != nil {
		return domain.Artifact{}, err
	}
	return screenshotResultArtifact(task, res)
}

func (s *Service) screenshotAsync(ctx context.Context, task tasks.Task) (domain.Artifact, error) {
	var opts snapapi.ScreenshotOptions
	if err := task.Decode(&opts); err != nil {
		return domain.Artifact{}, err
	}
	status, err := s.client.ScreenshotAsyncAndWait(ctx, opts)
	if err != nil {
		return domain.Artifact{}, err
	}
	if status.Status == snapapi.JobFailed {
		return domain.Artifact{}, fmt.Errorf("job %s failed: %s", status.JobID, status.Error)
	}
	if status.Result == nil {
		return domain.Artifact{}, fmt.Errorf("job %s completed without a result", status.JobID)
	}

	art, err := screenshotResultArtifact(task, status.Result)
	if err != nil {
		return domain.Artifact{}, err
	}
	art.JobID = status.JobID
	art.JobStatus = string(status.Status)
	return art, nil
}

func (s *Service) pdf(ctx context.Context, task tasks.Task) (domain.Artifact, error) {
	var opts snapapi.ScreenshotOptions
	if err := task.Decode(&opts); err != nil {
		return domain.Artifact{}, err
	}
	data, err := s.client.PDF(ctx, opts)
	if err != nil {
		return domain.Artifact{}, err
	}
	return binaryArtifact(task, data), nil
}

func (s *Service) video(ctx context.Context, task tasks.Task) (domain.Artifact, error) {
	// Decoding over the defaults keeps them for keys the task omits.
	opts := snapapi.NewVideoOptions("")
	if err := task.Decode(&opts); err != nil {
		return domain.Artifact{}, err
	}
	data, err := s.client.Video(ctx, opts)
	if err != nil {
		return domain.Artifact{}, err
	}
	return binaryArtifact(task, data), nil
}

func (s *Service) batch(ctx context.Context, task tasks.Task) (domain.Artifact, error) {
	var opts snapapi.BatchOptions
	if err := task.Decode(&opts); err != nil {
		return domain.Artifact{}, err
	}
	status, err := s.client.BatchAndWait(ctx, opts)
	if err != nil {
		return domain.Artifact{}, err
	}
	if status.Status == snapapi.JobFailed {
		return domain.Artifact{}, fmt.Errorf("batch %s failed (%d/%d items failed)", status.JobID, status.Failed, status.Total)
	}

	// Item images are dropped from the result; the status keeps per-URL outcomes.
	trimmed := *status
	trimmed.Results = make([]snapapi.BatchItemResult, len(status.Results))
	for i, item := range status.Results {
		item.Data = ""
		trimmed.Results[i] = item
	}

	art, err := jsonArtifact(task, trimmed)
	if err != nil {
		return domain.Artifact{}, err
	}
	art.JobID = status.JobID
	art.JobStatus = string(status.Status)
	return art, nil
}

func (s *Service) extract(ctx context.Context, task tasks.Task) (domain.Artifact, error) {
	var opts snapapi.ExtractOptions
	if err := task.Decode(&opts); err != nil {
		return domain.Artifact{}, err
	}
	res, err := s.client.Extract(ctx, opts)
	if err != nil {
		return domain.Artifact{}, err
	}

	typ := snapapi.ExtractTypeMarkdown
	switch {
	case opts.Type != nil:
		typ = *opts.Type
	case res.Type != "":
		typ = snapapi.ExtractType(res.Type)
	}

	text, isText := res.Text()
	if !isText {
		return jsonArtifact(task, res)
	}

	art := domain.Artifact{
		TaskID: task.ID,
		Kind:   task.Kind,
		Output: task.Output,
		Data:   []byte(text),
		Size:   len(text),
	}
	switch typ {
	case snapapi.ExtractTypeHTML:
		art.ContentType = "text/html; charset=utf-8"
		art.Extension = "html"
		summary, err := summarizeHTML(text)
		if err != nil {
			logger.WarnObj("html summary failed", "summary_error", map[string]any{
				"task_id": task.ID,
				"error":   err.Error(),
			})
		} else {
			art.Summary = summary
		}
	case snapapi.ExtractTypeText:
		art.ContentType = "text/plain; charset=utf-8"
		art.Extension = "txt"
	default:
		art.ContentType = "text/markdown; charset=utf-8"
		art.Extension = "md"
	}
	return art, nil
}

func (s *Service) analyze(ctx context.Context, task tasks.Task) (domain.Artifact, error) {
	var opts snapapi.AnalyzeOptions
	if err := task.Decode(&opts); err != nil {
		return domain.Artifact{}, err
	}
	res, err := s.client.Analyze(ctx, opts)
	if err != nil {
		return domain.Artifact{}, err
	}
	return jsonArtifact(task, res)
}

// binaryArtifact sniffs data to fill content type, extension and, for
// images, dimensions.
func binaryArtifact(task tasks.Task, data []byte) domain.Artifact {
	format := imageutil.Detect(data)
	art := domain.Artifact{
		TaskID:      task.ID,
		Kind:        task.Kind,
		Output:      task.Output,
		ContentType: imageutil.ContentType(format),
		Extension:   imageutil.Extension(format),
		Size:        len(data),
		Data:        data,
	}
	if imageutil.IsImage(format) {
		if cfg, _, err := imageutil.DecodeConfig(data); err == nil {
			art.Width, art.Height = cfg.Width, cfg.Height
		}
	}
	return art
}

// screenshotResultArtifact decodes the base64 image and keeps the rest of the
// result (metadata, timings) as JSON.
func screenshotResultArtifact(task tasks.Task, res *snapapi.ScreenshotResult) (domain.Artifact, error) {
	data, err := res.ImageData()
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("decode image: %w", err)
	}
	art := binaryArtifact(task, data)
	if res.Width > 0 && res.Height > 0 {
		art.Width, art.Height = res.Width, res.Height
	}

	meta := *res
	meta.Data = ""
	meta.Thumbnail = ""
	raw, err := json.Marshal(meta)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("encode result: %w", err)
	}
	art.Result = raw
	return art, nil
}

func jsonArtifact(task tasks.Task, v any) (domain.Artifact, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("encode result: %w", err)
	}
	return domain.Artifact{
		TaskID:      task.ID,
		Kind:        task.Kind,
		Output:      task.Output,
		ContentType: "application/json",
		Extension:   "json",
		Size:        len(raw),
		Result:      raw,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
