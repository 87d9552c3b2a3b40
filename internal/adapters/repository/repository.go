// Package repository owns the four record collections. Every mutation reads
// the current snapshot, builds the next one, saves it whole, refreshes the
// read cache and then notifies subscribers, in that order.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/pkg/logger"
	"github.com/okian/jury/pkg/metrics"
)

// Mutation names reported to metrics.
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
	opUpsert = "upsert"
)

// Saver persists whole snapshots.
type Saver interface {
	Save(ctx context.Context, snap model.Snapshot) error
}

// Cache serves reads and accepts the state just written.
type Cache interface {
	Get(ctx context.Context) model.Snapshot
	Invalidate(snap model.Snapshot)
}

// Publisher signals that state changed.
type Publisher interface {
	Publish()
}

// Repository is the single writer of evaluation records.
type Repository struct {
	store     Saver
	cache     Cache
	publisher Publisher

	// mu serialises mutations; reads go straight to the cache.
	mu     sync.Mutex
	now    func() time.Time
	newID  func() string
	logger logger.Logger
}

// New wires a repository over its store, cache and publisher.
func New(store Saver, cache Cache, publisher Publisher, opts ...Option) *Repository {
	r := &Repository{
		store:     store,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
		newID:     model.NewID,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("repository")
	return r
}

// Snapshot returns a copy of the full current state.
func (r *Repository) Snapshot(ctx context.Context) model.Snapshot {
	return r.read(ctx).Clone()
}

func (r *Repository) read(ctx context.Context) model.Snapshot {
	return r.cache.Get(ctx)
}

// mutate runs fn against a private copy of the current state under the
// writer lock and commits the result. fn returning an error aborts the
// mutation with nothing saved.
func (r *Repository) mutate(ctx context.Context, entity, op string, fn func(next *model.Snapshot) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.read(ctx).Clone()
	if err := fn(&next); err != nil {
		return r.fail(ctx, entity, op, err)
	}
	if err := r.store.Save(ctx, next); err != nil {
		return r.fail(ctx, entity, op, err)
	}
	r.cache.Invalidate(next)
	r.publisher.Publish()

	metrics.RecordMutation(entity, op)
	updateCounts(next)
	r.logger.Debug(ctx, "mutation committed",
		logger.String("entity", entity),
		logger.String("op", op),
	)
	return nil
}

func (r *Repository) fail(ctx context.Context, entity, op string, err error) error {
	kind := errorKind(err)
	metrics.RecordDomainError(kind)
	if kind == kindStorage {
		r.logger.Error(ctx, "mutation not persisted",
			logger.String("entity", entity),
			logger.String("op", op),
			logger.Error(err),
		)
	}
	return err
}

func (r *Repository) timestamp() time.Time {
	return r.now().UTC()
}

func updateCounts(s model.Snapshot) {
	metrics.UpdateEntityCount(model.EntityProject, len(s.Projects))
	metrics.UpdateEntityCount(model.EntityJudge, len(s.Judges))
	metrics.UpdateEntityCount(model.EntityCriterion, len(s.Criteria))
	metrics.UpdateEntityCount(model.EntityScore, len(s.Scores))
}
