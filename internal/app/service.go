// Package service provides the core business service that wires storage,
// cache, notifier and repository together and exposes the judging operations
// and aggregate views to presentation code.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/jury/internal/adapters/cache"
	"github.com/okian/jury/internal/adapters/mq/notify"
	"github.com/okian/jury/internal/adapters/repository"
	"github.com/okian/jury/internal/adapters/storage"
	"github.com/okian/jury/internal/domain/assignment"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/ranking"
	"github.com/okian/jury/internal/domain/scoring"
	"github.com/okian/jury/internal/domain/types"
	"github.com/okian/jury/pkg/logger"
	"github.com/okian/jury/pkg/metrics"
)

// ErrNotStarted is returned by operations invoked before Start.
var ErrNotStarted = errors.New("service not started")

// Service implements the judging operations on top of a single snapshot store.
type Service struct {
	mu sync.RWMutex

	// Core components
	backend  storage.Backend
	store    *storage.SnapshotStore
	cache    *cache.Snapshot
	notifier *notify.Notifier
	repo     *repository.Repository

	// Configuration
	storeConfig storage.Config
	cacheTTL    time.Duration
	now         func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBackend injects an already opened storage backend. The service takes
// ownership and closes it on Stop.
func WithBackend(b storage.Backend) Option {
	return func(s *Service) {
		if b != nil {
			s.backend = b
		}
	}
}

// WithStorageConfig selects the backend opened by Start when none was injected.
func WithStorageConfig(cfg storage.Config) Option {
	return func(s *Service) {
		s.storeConfig = cfg
	}
}

// WithCacheTTL sets how long a cached snapshot is served before reloading.
// Zero disables time-based reuse.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithClock replaces the time source used for timestamps and cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeConfig: storage.Config{Driver: storage.DriverFile},
		cacheTTL:    cache.DefaultTTL,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the backend and builds the components around it.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.backend == nil {
		b, err := storage.Open(ctx, s.storeConfig)
		if err != nil {
			return fmt.Errorf("open %s backend: %w", s.storeConfig.Driver, err)
		}
		s.backend = b
	}

	s.logger.Info(ctx, "starting evaluation service...",
		logger.String("driver", string(s.backend.Driver())),
	)

	s.store = storage.NewSnapshotStore(s.backend, s.logger)
	s.cache = cache.New(s.store,
		cache.WithTTL(s.cacheTTL),
		cache.WithClock(s.now),
	)
	s.notifier = notify.New(notify.WithLogger(s.logger))
	s.repo = repository.New(s.store, s.cache, s.notifier,
		repository.WithClock(s.now),
		repository.WithLogger(s.logger),
	)

	// Warm the cache.
	snap := s.cache.Get(ctx)

	s.started = true
	s.logger.Info(ctx, "evaluation service started",
		logger.Int("projects", len(snap.Projects)),
		logger.Int("judges", len(snap.Judges)),
		logger.Int("criteria", len(snap.Criteria)),
		logger.Int("scores", len(snap.Scores)),
		logger.Duration("cacheTTL", s.cacheTTL),
	)

	return nil
}

// Stop gracefully shuts down the service. Running subscribers may still call
// back into the service while Stop waits for them; those calls see
// ErrNotStarted.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	notifier, store, log := s.notifier, s.store, s.logger
	s.backend = nil
	s.mu.Unlock()

	ctx := context.Background()
	log.Info(ctx, "stopping evaluation service...")

	notifier.Close()
	if err := store.Close(); err != nil {
		log.Warn(ctx, "closing backend failed", logger.Error(err))
	}

	log.Info(ctx, "evaluation service stopped")
}

func (s *Service) activeRepo() (*repository.Repository, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.repo, nil
}

// snapshot returns the current state for the derived views.
func (s *Service) snapshot(ctx context.Context) (model.Snapshot, error) {
	r, err := s.activeRepo()
	if err != nil {
		return model.Snapshot{}, err
	}
	return r.Snapshot(ctx), nil
}

// Projects

// ListProjects returns projects matching the filter.
func (s *Service) ListProjects(ctx context.Context, f repository.ProjectFilter) ([]model.Project, error) {
	r, err := s.activeRepo()
	if err != nil {
		return nil, err
	}
	return r.ListProjects(ctx, f), nil
}

// GetProject returns one project.
func (s *Service) GetProject(ctx context.Context, id string) (model.Project, error) {
	r, err := s.activeRepo()
	if err != nil {
		return model.Project{}, err
	}
	return r.GetProject(ctx, id)
}

// CreateProject registers a project.
func (s *Service) CreateProject(ctx context.Context, in repository.ProjectInput) (model.Project, error) {
	r, err := s.activeRepo()
	if err != nil {
		return model.Project{}, err
	}
	return r.CreateProject(ctx, in)
}

// UpdateProject applies a partial update.
func (s *Service) UpdateProject(ctx context.Context, id string, patch repository.ProjectPatch) (model.Project, error) {
	r, err := s.activeRepo()
	if err != nil {
		return model.Project{}, err
	}
	return r.UpdateProject(ctx, id, patch)
}

// DeleteProject removes a project and every score recorded for it.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	r, err := s.activeRepo()
	if err != nil {
		return err
	}
	return r.DeleteProject(ctx, id)
}

// Judges

// ListJudges returns judges matching the filter.
func (s *Service) ListJudges(ctx context.Context, f repository.JudgeFilter) ([]model.Judge, error) {
	r, err := s.activeRepo()
	if err != nil {
		return nil, err
	}
	return r.ListJudges(ctx, f), nil
}

// GetJudge returns one judge.
func (s *Service) GetJudge(ctx context.Context, id string) (model.Judge, error) {
	r, err := s.activeRepo()
	if err != nil {
		return model.Judge{}, err
	}
	return r.GetJudge(ctx, id)
}

// CreateJudge registers a judge.
func (s *Service) CreateJudge(ctx context.Context, in repository.JudgeInput) (model.Judge, error) {
	r, err := s.activeRepo()
	if err != nil {
		return model.Judge{}, err
	}
	return r.CreateJudge(ctx, in)
}

// UpdateJudge applies a partial update.
func (s *Service) UpdateJudge(ctx context.Context, id string, patch repository.JudgePatch) (model.Judge, error) {
	r, err := s.activeRepo()
	if err != nil {
		return model.Judge{}, err
	}
	return r.UpdateJudge(ctx, id, patch)
}

// DeleteJudge removes a judge and every score they recorded.
func (s *Service) DeleteJudge(ctx context.Context, id string) error {
	r, err := s.activeRepo()
	if err != nil {
		return err
	}
	return r.DeleteJudge(ctx, id)
}

// Criteria

// ListCriteria returns criteria matching the filter.
func (s *Service) ListCriteria(ctx context.Context, f repository.CriterionFilter) ([]model.Criterion, error) {
	r, err := s.activeRepo()
	if err != nil {
		return nil, err
	}
	return r.ListCriteria(ctx, f), nil
}

// GetCriterion returns one criterion.
func (s *Service) GetCriterion(ctx context.Context, id string) (model.Criterion, error) {
	r, err := s.activeRepo()
	if err != nil {
		return model.Criterion{}, err
	}
	return r.GetCriterion(ctx, id)
}

// CreateCriterion registers a criterion.
func (s *Service) CreateCriterion(ctx context.Context, in repository.CriterionInput) (model.Criterion, error) {
	r, err := s.activeRepo()
	if err != nil {
		return model.Criterion{}, err
	}
	return r.CreateCriterion(ctx, in)
}

// UpdateCriterion applies a partial update.
func (s *Service) UpdateCriterion(ctx context.Context, id string, patch repository.CriterionPatch) (model.Criterion, error) {
	r, err := s.activeRepo()
	if err != nil {
		return model.Criterion{}, err
	}
	return r.UpdateCriterion(ctx, id, patch)
}

// DeleteCriterion removes a criterion. Scores referencing it are kept.
func (s *Service) DeleteCriterion(ctx context.Context, id string) error {
	r, err := s.activeRepo()
	if err != nil {
		return err
	}
	return r.DeleteCriterion(ctx, id)
}

// Scores

// ListScores returns scores matching the filter.
func (s *Service) ListScores(ctx context.Context, f repository.ScoreFilter) ([]model.Score, error) {
	r, err := s.activeRepo()
	if err != nil {
		return nil, err
	}
	return r.ListScores(ctx, f), nil
}

// SubmitScore records or replaces the score for a (project, judge, criterion) triple.
func (s *Service) SubmitScore(ctx context.Context, in repository.ScoreInput) (model.Score, error) {
	r, err := s.activeRepo()
	if err != nil {
		return model.Score{}, err
	}
	return r.UpsertScore(ctx, in)
}

// DeleteScore removes one score.
func (s *Service) DeleteScore(ctx context.Context, id string) error {
	r, err := s.activeRepo()
	if err != nil {
		return err
	}
	return r.DeleteScore(ctx, id)
}

// Derived views

// AssignedProjects returns the projects in the judge's tracks.
func (s *Service) AssignedProjects(ctx context.Context, judgeID string) ([]model.Project, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	judge, ok := snap.Judge(judgeID)
	if !ok {
		return nil, &model.NotFoundError{Entity: model.EntityJudge, ID: judgeID}
	}
	return assignment.AssignedProjects(judge, snap.Projects), nil
}

// JudgeProgress reports how far a judge is through their assigned projects.
func (s *Service) JudgeProgress(ctx context.Context, judgeID string) (types.JudgeProgress, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.JudgeProgress{}, err
	}
	judge, ok := snap.Judge(judgeID)
	if !ok {
		return types.JudgeProgress{}, &model.NotFoundError{Entity: model.EntityJudge, ID: judgeID}
	}
	return assignment.Progress(judge, snap), nil
}

// ProjectResult returns the weighted average for one project.
func (s *Service) ProjectResult(ctx context.Context, projectID string) (scoring.Result, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return scoring.Result{}, err
	}
	if _, ok := snap.Project(projectID); !ok {
		return scoring.Result{}, &model.NotFoundError{Entity: model.EntityProject, ID: projectID}
	}
	return scoring.ProjectResult(projectID, snap), nil
}

// Rankings returns the overall ranking of evaluated projects.
func (s *Service) Rankings(ctx context.Context) ([]types.RankedProject, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { metrics.RecordAggregationLatency(metrics.Since(start)) }()
	return ranking.Overall(snap), nil
}

// TrackRankings returns a ranking for every known track.
func (s *Service) TrackRankings(ctx context.Context) (map[model.Track][]types.RankedProject, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { metrics.RecordAggregationLatency(metrics.Since(start)) }()
	return ranking.ByTrack(snap), nil
}

// TrackRanking returns the ranking restricted to one track.
func (s *Service) TrackRanking(ctx context.Context, track string) ([]types.RankedProject, error) {
	t, ok := model.ParseTrack(track, false)
	if !ok {
		return nil, &model.ValidationError{Entity: "ranking", Field: "track", Reason: fmt.Sprintf("unknown track %q", track)}
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { metrics.RecordAggregationLatency(metrics.Since(start)) }()
	return ranking.ForTrack(snap, t), nil
}

// Dashboard returns event-wide totals and means.
func (s *Service) Dashboard(ctx context.Context) (types.Dashboard, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.Dashboard{}, err
	}
	start := time.Now()
	defer func() { metrics.RecordAggregationLatency(metrics.Since(start)) }()
	return ranking.Dashboard(snap), nil
}

// Subscribe registers a handler called after every successful mutation.
// Bursts of mutations are coalesced into a single call.
func (s *Service) Subscribe(handler notify.Handler) (func(), error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.notifier.Subscribe(handler), nil
}

// GetAllData returns a copy of the full dataset.
func (s *Service) GetAllData(ctx context.Context) (model.Snapshot, error) {
	return s.snapshot(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":  s.started,
		"cacheTTL": s.cacheTTL.String(),
	}

	if s.started {
		snap := s.repo.Snapshot(context.Background())
		stats["driver"] = string(s.store.Driver())
		stats["subscribers"] = s.notifier.Subscribers()
		stats["projects"] = len(snap.Projects)
		stats["judges"] = len(snap.Judges)
		stats["criteria"] = len(snap.Criteria)
		stats["scores"] = len(snap.Scores)
	}

	return stats
}
