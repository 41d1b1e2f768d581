package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/snapapi-hq/snapapi-go/internal/capture"
	"github.com/snapapi-hq/snapapi-go/internal/config"
	"github.com/snapapi-hq/snapapi-go/internal/logger"
	"github.com/snapapi-hq/snapapi-go/internal/storage"
	"github.com/snapapi-hq/snapapi-go/pkg/sinks"
	"github.com/snapapi-hq/snapapi-go/pkg/snapapi"
	"github.com/snapapi-hq/snapapi-go/pkg/tasks"
)

// passRunner executes one capture pass.
type passRunner interface {
	Run(ctx context.Context, runID string, list []tasks.Task) (capture.Stats, error)
}

// Runner represents the capture runtime. It runs capture passes over the
// configured tasks on an interval or cron schedule and owns the sinks and
// storage it opened.
type Runner struct {
	cfg      *config.Config
	tasks    []tasks.Task
	fanout   *sinks.Fanout
	service  passRunner
	store    storage.Store
	interval time.Duration
	schedule cron.Schedule
	log      logger.Logger
	newRunID func() string
}

var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule parses a five-field cron expression or a descriptor such as
// "@hourly" or "@every 10m".
func ParseSchedule(spec string) (cron.Schedule, error) {
	sched, err := scheduleParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid run_schedule %q: %w", spec, err)
	}
	return sched, nil
}

// NewRunner builds a runner from config files.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var sched cron.Schedule
	if cfg.RunSchedule != "" {
		s, err := ParseSchedule(cfg.RunSchedule)
		if err != nil {
			return nil, err
		}
		sched = s
	}

	client, err := snapapi.New(cfg.APIKey,
		snapapi.WithBaseURL(cfg.BaseURL),
		snapapi.WithTimeout(cfg.Timeout),
		snapapi.WithPollInterval(cfg.PollInterval),
		snapapi.WithMaxPollAttempts(cfg.PollMaxAttempts),
		snapapi.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create snapapi client: %w", err)
	}

	taskReg, err := tasks.LoadRegistry(cfg.TasksFile)
	if err != nil {
		return nil, fmt.Errorf("load tasks registry: %w", err)
	}
	enabledTasks := taskReg.Enabled()
	taskIDs := make([]string, 0, len(enabledTasks))
	for _, t := range enabledTasks {
		taskIDs = append(taskIDs, t.ID)
	}
	log.InfoObj("tasks registry loaded", "tasks_meta", map[string]any{
		"count":   len(taskReg.All()),
		"enabled": taskIDs,
	})

	sinkReg, err := sinks.LoadRegistry(cfg.SinksFile)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}
	enabledSinks := sinkReg.Enabled()
	if len(enabledSinks) == 0 {
		return nil, fmt.Errorf("no sinks configured")
	}

	sinkClients, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabledSinks, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}
	fanout := sinks.NewFanout(sinkClients)
	sinkSummaries := make([]map[string]string, 0, len(enabledSinks))
	for _, sinkCfg := range enabledSinks {
		sinkSummaries = append(sinkSummaries, map[string]string{
			"id":   sinkCfg.ID,
			"type": sinkCfg.Type,
		})
	}
	log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(sinkSummaries),
		"sinks": sinkSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, storage.Options{
		TaskTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
		BBoltPath:       cfg.BBoltPath,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDB:         cfg.RedisDB,
		RedisPrefix:     cfg.RedisPrefix,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"task_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Runner{
		cfg:      cfg,
		tasks:    enabledTasks,
		fanout:   fanout,
		service:  capture.NewService(client, fanout, store),
		store:    store,
		interval: cfg.RunInterval,
		schedule: sched,
		log:      log,
		newRunID: uuid.NewString,
	}, nil
}

// Run executes a pass immediately and then repeats it on the schedule or
// interval until ctx is cancelled. Without either it returns the result of
// the single pass.
func (r *Runner) Run(ctx context.Context) error {
	if r == nil || r.service == nil {
		return fmt.Errorf("runner is not initialized")
	}
	defer r.Close()

	repeating := r.schedule != nil || r.interval > 0
	if len(r.tasks) == 0 {
		r.log.WarnObj("no enabled tasks; runner idle", "tasks_file", r.cfg.TasksFile)
		if !repeating {
			return nil
		}
		<-ctx.Done()
		return nil
	}

	r.log.InfoObj("runner starting", "runner_state", map[string]any{
		"tasks_count": len(r.tasks),
		"sinks_count": r.fanout.Size(),
		"interval":    r.interval.String(),
		"schedule":    r.cfg.RunSchedule,
	})

	err := r.runOnce(ctx)
	if !repeating {
		return err
	}
	if err != nil && ctx.Err() == nil {
		r.log.ErrorObj("initial capture failed", "error", err.Error())
	}

	for {
		wait := r.nextDelay(time.Now())
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.log.InfoObj("runner loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-timer.C:
			if err := r.runOnce(ctx); err != nil && ctx.Err() == nil {
				r.log.ErrorObj("scheduled capture failed", "error", err.Error())
			}
		}
	}
}

// nextDelay returns how long to wait before the next pass.
func (r *Runner) nextDelay(now time.Time) time.Duration {
	if r.schedule != nil {
		if d := r.schedule.Next(now).Sub(now); d > 0 {
			return d
		}
		return time.Second
	}
	return r.interval
}

// RunOnce performs a single capture pass with a fresh run id.
func (r *Runner) RunOnce(ctx context.Context) error {
	if r == nil || r.service == nil {
		return fmt.Errorf("runner is not initialized")
	}
	return r.runOnce(ctx)
}

func (r *Runner) runOnce(ctx context.Context) error {
	runID := r.newRunID()
	start := time.Now()
	r.log.InfoObj("capture started", "capture_meta", map[string]any{
		"run_id":      runID,
		"tasks_count": len(r.tasks),
		"started_at":  start.UTC(),
	})

	stats, err := r.service.Run(ctx, runID, r.tasks)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return err
	}
	r.log.InfoObj("capture completed", "capture_meta", map[string]any{
		"run_id":     runID,
		"captured":   stats.Captured,
		"skipped":    stats.Skipped,
		"failed":     stats.Failed,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}
	return nil
}

// Close releases sinks and storage. It is safe to call more than once.
func (r *Runner) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.fanout != nil {
		if err := r.fanout.Close(); err != nil {
			errs = append(errs, err)
		}
		r.fanout = nil
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.ErrorObj("storage close failed", "error", err.Error())
			errs = append(errs, err)
		}
		r.store = nil
	}
	return errors.Join(errs...)
}
