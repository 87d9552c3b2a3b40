package storage

import (
	"context"
	"fmt"
	"strings"
)

// Default locations for the file-based drivers.
const (
	DefaultFilePath   = "data/jury.json"
	DefaultBoltPath   = "data/jury.db"
	DefaultSQLitePath = "data/jury.sqlite"
)

// Config selects and parameterises a backend.
type Config struct {
	Driver Driver
	Path   string // file, bolt and sqlite
	DSN    string // postgres
	S3     S3Config
}

// ParseDriver resolves a driver name case-insensitively.
func ParseDriver(name string) (Driver, error) {
	n := Driver(strings.ToLower(strings.TrimSpace(name)))
	for _, d := range Drivers() {
		if d == n {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDriver, name)
}

// Open constructs the backend named by cfg.Driver. An empty driver means file.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	name := cfg.Driver
	if name == "" {
		name = DriverFile
	}
	driver, err := ParseDriver(string(name))
	if err != nil {
		return nil, err
	}
	switch driver {
	case DriverMemory:
		return NewMemoryBackend(), nil
	case DriverFile:
		return NewFileBackend(pathOr(cfg.Path, DefaultFilePath))
	case DriverBolt:
		return OpenBolt(pathOr(cfg.Path, DefaultBoltPath))
	case DriverSQLite:
		return OpenSQLite(ctx, pathOr(cfg.Path, DefaultSQLitePath))
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	case DriverS3:
		return OpenS3(ctx, cfg.S3)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
}

func pathOr(path, def string) string {
	if strings.TrimSpace(path) == "" {
		return def
	}
	return path
}
