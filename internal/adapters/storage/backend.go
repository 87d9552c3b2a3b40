// Package storage persists the evaluation snapshot as a single JSON document
// on one of several interchangeable backends.
package storage

import (
	"context"
)

// Driver names a storage backend.
type Driver string

// Supported drivers.
const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverBolt     Driver = "bolt"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverS3       Driver = "s3"
)

// Drivers lists every supported driver.
func Drivers() []Driver {
	return []Driver{DriverMemory, DriverFile, DriverBolt, DriverSQLite, DriverPostgres, DriverS3}
}

// Backend stores one opaque document. Write replaces the whole document;
// Read returns ErrEmpty when nothing has been written yet.
type Backend interface {
	Driver() Driver
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}
