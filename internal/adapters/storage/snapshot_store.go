package storage

import (
	"context"
	"errors"
	"time"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/pkg/logger"
	"github.com/okian/jury/pkg/metrics"
)

// Operation names reported in storage errors and metrics.
const (
	OpLoad = "load"
	OpSave = "save"
)

// SnapshotStore reads and writes whole snapshots through a Backend.
type SnapshotStore struct {
	backend Backend
	log     logger.Logger
}

// NewSnapshotStore wraps backend. A nil log discards output.
func NewSnapshotStore(backend Backend, log logger.Logger) *SnapshotStore {
	if log == nil {
		log = logger.Nop()
	}
	return &SnapshotStore{backend: backend, log: log.Named("storage")}
}

// Driver reports the backend driver.
func (s *SnapshotStore) Driver() Driver { return s.backend.Driver() }

// Load returns the persisted snapshot. It never fails: an empty medium
// yields an empty snapshot, and so does an unreadable or corrupt one, after a
// warning. The damaged document is left in place until the next Save.
func (s *SnapshotStore) Load(ctx context.Context) model.Snapshot {
	driver := string(s.backend.Driver())
	start := time.Now()
	data, err := s.backend.Read(ctx)
	metrics.RecordStoreLoad(driver, metrics.Since(start))

	switch {
	case errors.Is(err, ErrEmpty):
		return model.EmptySnapshot()
	case err != nil:
		metrics.RecordStoreFailure(driver, OpLoad)
		metrics.RecordStoreReset()
		s.log.Warn(ctx, "snapshot read failed, starting empty",
			logger.String("driver", driver), logger.Error(err))
		return model.EmptySnapshot()
	}

	snap, err := Decode(data)
	if err != nil {
		metrics.RecordStoreReset()
		s.log.Warn(ctx, "snapshot is corrupt, starting empty",
			logger.String("driver", driver), logger.Int("bytes", len(data)), logger.Error(err))
		return model.EmptySnapshot()
	}
	return snap
}

// Save persists snap, replacing the previous document.
func (s *SnapshotStore) Save(ctx context.Context, snap model.Snapshot) error {
	driver := string(s.backend.Driver())
	data, err := Encode(snap)
	if err != nil {
		return &model.StorageError{Op: OpSave, Driver: driver, Err: err}
	}
	start := time.Now()
	err = s.backend.Write(ctx, data)
	metrics.RecordStoreSave(driver, metrics.Since(start))
	if err != nil {
		metrics.RecordStoreFailure(driver, OpSave)
		s.log.Error(ctx, "snapshot save failed", logger.String("driver", driver), logger.Error(err))
		return &model.StorageError{Op: OpSave, Driver: driver, Err: err}
	}
	s.log.Debug(ctx, "snapshot saved", logger.String("driver", driver), logger.Int("bytes", len(data)))
	return nil
}

// Close releases the backend.
func (s *SnapshotStore) Close() error { return s.backend.Close() }
