package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/snapapi-hq/snapapi-go/internal/domain"
)

// Package storage records which capture tasks already ran so repeated passes
// inside the TTL skip them.

// Store keeps one record per delivered task fingerprint until its TTL ends.
type Store interface {
	Close() error
	// LastRun returns the live record for key, if any.
	LastRun(ctx context.Context, key string) (domain.TaskRecord, bool, error)
	// MarkTask stores rec under key, stamping MarkedAt and ExpiresAt.
	MarkTask(ctx context.Context, key string, rec domain.TaskRecord) error
}

// Options selects and tunes a concrete store implementation.
type Options struct {
	TaskTTL         time.Duration
	CleanupInterval time.Duration

	BBoltPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

const (
	defaultTaskTTL         = 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
	defaultRedisPrefix     = "snapapi:task:"
)

// NewStore creates the configured storage backend.
func NewStore(typ string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(opts.BBoltPath) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(opts.BBoltPath, opts)
	case "redis":
		if strings.TrimSpace(opts.RedisAddr) == "" {
			return nil, fmt.Errorf("redis storage requires an address")
		}
		return openRedis(opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TaskTTL <= 0 {
		opts.TaskTTL = defaultTaskTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	if opts.RedisPrefix == "" {
		opts.RedisPrefix = defaultRedisPrefix
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error { return nil }

func (noopStore) LastRun(context.Context, string) (domain.TaskRecord, bool, error) {
	return domain.TaskRecord{}, false, nil
}

func (noopStore) MarkTask(context.Context, string, domain.TaskRecord) error { return nil }
