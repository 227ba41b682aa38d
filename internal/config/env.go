package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// ServerConfig defines the HTTP surface and upload handling.
type ServerConfig struct {
	Port            string
	ScratchDir      string
	MaxUploadMB     int64
	FileTTL         time.Duration
	InlinePageLimit int // documents up to this many pages are processed inline
	PreviewDPI      int
	PreviewQuality  int
}

// WorkerConfig defines the background PDF worker pool.
type WorkerConfig struct {
	Concurrency int
	JobTimeout  time.Duration
}

// QueueConfig defines queue connectivity and names.
type QueueConfig struct {
	RedisURL string
	Stream   string
	Group    string
}

// StorageConfig selects where processed results go. When Bucket is empty
// results stay on local disk under Dir.
type StorageConfig struct {
	Bucket     string
	Prefix     string
	Passphrase string
	Dir        string
}

// RateLimitConfig bounds uploads per client.
type RateLimitConfig struct {
	UploadsPerMinute int
	MaxConcurrentOps int
}

// Config is the top-level configuration.
type Config struct {
	Logging   LoggingConfig
	Axiom     AxiomConfig
	Server    ServerConfig
	Worker    WorkerConfig
	Queue     QueueConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", "logs/toolbench.log"),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_toolbench",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	cfg.Server = ServerConfig{
		Port:            getEnv("PORT", "8080"),
		ScratchDir:      getEnv("SCRATCH_DIR", os.TempDir()),
		MaxUploadMB:     int64(parseInt(getEnv("MAX_UPLOAD_MB", "64"), 64)),
		FileTTL:         parseDuration(getEnv("FILE_TTL", "2h"), 2*time.Hour),
		InlinePageLimit: parseInt(getEnv("INLINE_PAGE_LIMIT", "200"), 200),
		PreviewDPI:      parseInt(getEnv("PREVIEW_DPI", "72"), 72),
		PreviewQuality:  parseInt(getEnv("PREVIEW_QUALITY", "70"), 70),
	}

	cfg.Worker = WorkerConfig{
		Concurrency: parseInt(getEnv("WORKER_CONCURRENCY", "4"), 4),
		JobTimeout:  parseDuration(getEnv("JOB_TIMEOUT", "120s"), 120*time.Second),
	}

	cfg.Queue = QueueConfig{
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		Stream:   getEnv("QUEUE_STREAM", "jobs:pdf:tools"),
		Group:    getEnv("QUEUE_GROUP", "workers:pdf"),
	}

	cfg.Storage = StorageConfig{
		Bucket:     getEnv("RESULTS_S3_BUCKET", ""),
		Prefix:     getEnv("RESULTS_S3_PREFIX", "results"),
		Passphrase: getEnv("RESULTS_PASSPHRASE", ""),
		Dir:        getEnv("RESULTS_DIR", "results"),
	}

	cfg.RateLimit = RateLimitConfig{
		UploadsPerMinute: parseInt(getEnv("UPLOADS_PER_MINUTE", "10"), 10),
		MaxConcurrentOps: parseInt(getEnv("MAX_CONCURRENT_OPS", "8"), 8),
	}

	return cfg
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" {
		return "true"
	}
	return "false"
}
