// Package config loads process configuration from environment variables.
// There is no config framework: the teacher's main.go reads os.Getenv
// directly, and this service has too few knobs to justify one.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/batchwell/batchwell/internal/errs"
	"github.com/batchwell/batchwell/internal/ingest"
)

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = "8443"
	defaultMaxBodyBytes    = 64 << 20  // 64 MiB compressed
	defaultMaxUncompressed = 256 << 20 // 256 MiB decompressed
	defaultRateLimitPerSec = 200
	defaultRateLimitBurst  = 400
)

// Config holds every environment-derived setting the server needs at
// startup. It is built once in main and never mutated afterward.
type Config struct {
	DatabaseURL string
	BearerToken string
	Host        string
	Port        string
	CertPath    string
	KeyPath     string

	MaxBodyBytes         int64
	MaxUncompressedBytes int64
	RateLimitPerSecond   float64
	RateLimitBurst       int
	BatchLimit           int
}

// Load reads and validates the process environment. It returns ErrConfig
// (via errs.ErrConfig) wrapped with detail when a required variable is
// missing or malformed; main is expected to log and exit(1) on error,
// before the server binds.
func Load() (Config, error) {
	cfg := Config{
		Host:                 envOr("HOST", defaultHost),
		Port:                 envOr("PORT", defaultPort),
		CertPath:             os.Getenv("CERT_PATH"),
		KeyPath:              os.Getenv("KEY_PATH"),
		MaxBodyBytes:         defaultMaxBodyBytes,
		MaxUncompressedBytes: defaultMaxUncompressed,
		RateLimitPerSecond:   defaultRateLimitPerSec,
		RateLimitBurst:       defaultRateLimitBurst,
		BatchLimit:           ingest.DefaultBatchLimit,
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("%w: DATABASE_URL is required", errs.ErrConfig)
	}

	cfg.BearerToken = strings.TrimSpace(os.Getenv("BEARER_TOKEN"))
	if cfg.BearerToken == "" {
		return Config{}, fmt.Errorf("%w: BEARER_TOKEN is required", errs.ErrConfig)
	}

	if raw := os.Getenv("MAX_BODY_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%w: invalid MAX_BODY_BYTES %q", errs.ErrConfig, raw)
		}
		cfg.MaxBodyBytes = n
	}
	if raw := os.Getenv("MAX_UNCOMPRESSED_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%w: invalid MAX_UNCOMPRESSED_BYTES %q", errs.ErrConfig, raw)
		}
		cfg.MaxUncompressedBytes = n
	}
	if raw := os.Getenv("BATCH_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%w: invalid BATCH_LIMIT %q", errs.ErrConfig, raw)
		}
		cfg.BatchLimit = n
	}

	return cfg, nil
}

// TLSEnabled reports whether both a certificate and key path were provided.
func (c Config) TLSEnabled() bool {
	return strings.TrimSpace(c.CertPath) != "" && strings.TrimSpace(c.KeyPath) != ""
}

// Addr is the host:port pair http.Server listens on.
func (c Config) Addr() string { return c.Host + ":" + c.Port }

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
