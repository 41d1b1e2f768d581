package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName   string `mapstructure:"app_name"`
	Env       string `mapstructure:"app_env"`
	LogLevel  string `mapstructure:"log_level"`
	LogOutput string `mapstructure:"log_output"`

	APIKey          string        `mapstructure:"snapapi_api_key"`
	BaseURL         string        `mapstructure:"snapapi_base_url"`
	TimeoutSeconds  int64         `mapstructure:"snapapi_timeout_seconds"`
	PollIntervalMS  int64         `mapstructure:"poll_interval_ms"`
	PollMaxAttempts int           `mapstructure:"poll_max_attempts"`
	Timeout         time.Duration `mapstructure:"-"`
	PollInterval    time.Duration `mapstructure:"-"`

	TasksFile          string        `mapstructure:"tasks_file"`
	SinksFile          string        `mapstructure:"sinks_file"`
	RunIntervalSeconds int64         `mapstructure:"run_interval"`
	RunSchedule        string        `mapstructure:"run_schedule"`
	RunInterval        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	RedisAddr              string        `mapstructure:"redis_addr"`
	RedisPassword          string        `mapstructure:"redis_password"`
	RedisDB                int           `mapstructure:"redis_db"`
	RedisPrefix            string        `mapstructure:"redis_prefix"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "snapapi")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_output", "stdout")
	v.SetDefault("snapapi_api_key", "")
	v.SetDefault("snapapi_base_url", "https://api.snapapi.pics")
	v.SetDefault("snapapi_timeout_seconds", 60)
	v.SetDefault("poll_interval_ms", 2000)
	v.SetDefault("poll_max_attempts", 60)
	v.SetDefault("tasks_file", "./configs/tasks.yaml")
	v.SetDefault("sinks_file", "./configs/sinks.yaml")
	v.SetDefault("run_interval", 0) // seconds, 0 runs once
	v.SetDefault("run_schedule", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/snapapi.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", "snapapi:task:")
	v.SetDefault("storage_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	cfg.LogOutput = strings.ToLower(strings.TrimSpace(cfg.LogOutput))
	if cfg.LogOutput != "stdout" && cfg.LogOutput != "stderr" {
		return fmt.Errorf("invalid log_output %q (must be stdout or stderr)", cfg.LogOutput)
	}

	if cfg.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid snapapi_timeout_seconds (must be positive seconds)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	if cfg.PollIntervalMS < 0 {
		return fmt.Errorf("invalid poll_interval_ms (must not be negative)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalMS) * time.Millisecond
	if cfg.PollMaxAttempts <= 0 {
		return fmt.Errorf("invalid poll_max_attempts (must be positive)")
	}

	if cfg.RunIntervalSeconds < 0 {
		return fmt.Errorf("invalid run_interval (must be zero or positive seconds)")
	}
	cfg.RunInterval = time.Duration(cfg.RunIntervalSeconds) * time.Second
	cfg.RunSchedule = strings.TrimSpace(cfg.RunSchedule)

	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))
	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}

// Redacted returns a copy safe to log.
func (cfg Config) Redacted() Config {
	if cfg.APIKey != "" {
		cfg.APIKey = "***"
	}
	if cfg.RedisPassword != "" {
		cfg.RedisPassword = "***"
	}
	return cfg
}
