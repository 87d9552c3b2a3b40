// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"time"
)

// Default configuration values.
const (
	DefaultLogLevel    = "info"
	DefaultAddr        = ":9080"
	DefaultCacheTTL    = 30 * time.Second
	DefaultStoreDriver = "file"
	DefaultS3Key       = "jury/snapshot.json"
	DefaultS3Region    = "us-east-1"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the operational HTTP listen address (metrics, health).
	Addr string `koanf:"addr"`

	// CacheTTL bounds how long a loaded snapshot is served without a reload.
	// Zero reloads on every read.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// StoreDriver selects the persistence backend:
	// memory, file, bolt, sqlite, postgres or s3.
	StoreDriver string `koanf:"store_driver"`

	// StorePath is the file location for the file, bolt and sqlite drivers.
	// Empty selects the driver's default location under data/.
	StorePath string `koanf:"store_path"`

	// StoreDSN is the connection string for the postgres driver.
	StoreDSN string `koanf:"store_dsn"`

	// S3 settings for the s3 driver.
	S3Bucket          string `koanf:"s3_bucket"`
	S3Key             string `koanf:"s3_key"`
	S3Region          string `koanf:"s3_region"`
	S3Endpoint        string `koanf:"s3_endpoint"`
	S3PathStyle       bool   `koanf:"s3_path_style"`
	S3AccessKeyID     string `koanf:"s3_access_key_id"`
	S3SecretAccessKey string `koanf:"s3_secret_access_key"`
}

// New creates a Config populated with defaults. The context is reserved for
// loaders that need it.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:    DefaultLogLevel,
		Addr:        DefaultAddr,
		CacheTTL:    DefaultCacheTTL,
		StoreDriver: DefaultStoreDriver,
		S3Key:       DefaultS3Key,
		S3Region:    DefaultS3Region,
	}
}
