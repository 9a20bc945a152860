package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	Import         Import
}

// Import bounds a single roster upload.
type Import struct {
	MaxRows  int
	Workers  int
	MaxBytes int64
}

const (
	DefaultAddr           = ":8080"
	DefaultEnvironment    = "development"
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxBodyBytes   = 1 << 20
	DefaultImportMaxRows  = 2000
	DefaultImportWorkers  = 8
	DefaultImportMaxBytes = 10 << 20
)

// FromEnv builds a Server config from environment variables so main stays lean.
// Unparseable or non-positive values fall back to their defaults.
func FromEnv() Server {
	return Server{
		Addr:           stringEnv("CAREHUB_ADDR", DefaultAddr),
		Environment:    stringEnv("CAREHUB_ENV", DefaultEnvironment),
		LogLevel:       stringEnv("LOG_LEVEL", "info"),
		RequestTimeout: durationEnv("REQUEST_TIMEOUT", DefaultRequestTimeout),
		MaxBodyBytes:   int64(intEnv("MAX_BODY_BYTES", DefaultMaxBodyBytes)),
		Import: Import{
			MaxRows:  intEnv("IMPORT_MAX_ROWS", DefaultImportMaxRows),
			Workers:  intEnv("IMPORT_WORKERS", DefaultImportWorkers),
			MaxBytes: int64(intEnv("IMPORT_MAX_BYTES", DefaultImportMaxBytes)),
		},
	}
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
