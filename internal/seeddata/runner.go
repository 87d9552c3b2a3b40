package seeddata

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/jury/internal/adapters/repository"
	"github.com/okian/jury/internal/adapters/storage"
	"github.com/okian/jury/pkg/logger"
)

// ids maps plan indices to the identities minted by the target.
type ids struct {
	projects []string
	judges   []string
	criteria []string
}

// Run generates a plan, writes it through target and verifies the rankings.
// The target must start empty.
func Run(ctx context.Context, target Target, config *Config, log logger.Logger) (*Stats, error) {
	if log == nil {
		log = logger.Nop()
	}
	cfg := withDefaults(*config)
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting seed run",
		logger.Int("projects", cfg.Projects),
		logger.Int("judges", cfg.Judges),
		logger.Int("criteria", cfg.Criteria),
		logger.Float64("coverage", cfg.Coverage),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", cfg.Seed),
	)

	existing, err := target.GetAllData(ctx)
	if err != nil {
		return stats, fmt.Errorf("read existing data: %w", err)
	}
	if len(existing.Projects)+len(existing.Judges)+len(existing.Criteria)+len(existing.Scores) > 0 {
		return stats, ErrNotEmpty
	}

	// Step 1: Generate the plan
	plan := Generate(cfg)
	stats.ScoresPlanned = len(plan.Scores)

	// Step 2: Create records
	created, err := createRecords(ctx, target, plan, stats)
	if err != nil {
		return stats, fmt.Errorf("record creation failed: %w", err)
	}

	// Step 3: Submit scores concurrently
	if err := submitScores(ctx, target, cfg, plan, created, stats, log); err != nil {
		return stats, fmt.Errorf("score submission failed: %w", err)
	}

	// Step 4: Verify rankings
	if err := verifyResults(ctx, target, plan, stats, log); err != nil {
		return stats, err
	}

	// Step 5: Export the snapshot
	if cfg.OutputFile != "" {
		if err := exportSnapshot(ctx, target, cfg.OutputFile); err != nil {
			log.Warn(ctx, "failed to export snapshot", logger.Error(err))
		} else {
			log.Info(ctx, "snapshot exported", logger.String("file", cfg.OutputFile))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats, log)
	return stats, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Projects <= 0 {
		cfg.Projects = DefaultProjects
	}
	if cfg.Judges <= 0 {
		cfg.Judges = DefaultJudges
	}
	if cfg.Criteria <= 0 {
		cfg.Criteria = DefaultCriteria
	}
	if cfg.Coverage <= 0 || cfg.Coverage > 1 {
		cfg.Coverage = DefaultCoverage
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg
}

func createRecords(ctx context.Context, target Target, plan Plan, stats *Stats) (ids, error) {
	var out ids
	for i, in := range plan.Projects {
		p, err := target.CreateProject(ctx, in)
		if err != nil {
			return out, fmt.Errorf("project %d: %w", i, err)
		}
		out.projects = append(out.projects, p.ID)
	}
	stats.ProjectsCreated = len(out.projects)

	for i, in := range plan.Judges {
		j, err := target.CreateJudge(ctx, in)
		if err != nil {
			return out, fmt.Errorf("judge %d: %w", i, err)
		}
		out.judges = append(out.judges, j.ID)
	}
	stats.JudgesCreated = len(out.judges)

	for i, in := range plan.Criteria {
		c, err := target.CreateCriterion(ctx, in)
		if err != nil {
			return out, fmt.Errorf("criterion %d: %w", i, err)
		}
		out.criteria = append(out.criteria, c.ID)
	}
	stats.CriteriaCreated = len(out.criteria)
	return out, nil
}

// submitScores fans the planned scores out to a pool of writers.
func submitScores(ctx context.Context, target Target, cfg Config, plan Plan, created ids, stats *Stats, log logger.Logger) error {
	log.Info(ctx, "submitting scores", logger.Int("scores", len(plan.Scores)), logger.Int("workers", cfg.Workers))

	var (
		submitted  int64
		failed     int64
		mu         sync.Mutex
		lastReport = time.Now()
		firstErr   error
	)

	jobs := make(chan int, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s := plan.Scores[i]
				_, err := target.SubmitScore(ctx, repository.ScoreInput{
					ProjectID:   created.projects[s.Project],
					JudgeID:     created.judges[s.Judge],
					CriterionID: created.criteria[s.Criterion],
					Value:       s.Value,
				})
				if err != nil {
					atomic.AddInt64(&failed, 1)
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					log.Warn(ctx, "score rejected", logger.Int("index", i), logger.Error(err))
					continue
				}
				atomic.AddInt64(&submitted, 1)
				if cfg.Verbose {
					log.Debug(ctx, "score submitted", logger.Int("index", i), logger.Float64("value", s.Value))
				}

				mu.Lock()
				if time.Since(lastReport) >= progressInterval {
					lastReport = time.Now()
					log.Info(ctx, "score progress",
						logger.Int("submitted", int(atomic.LoadInt64(&submitted))),
						logger.Int("failed", int(atomic.LoadInt64(&failed))),
						logger.Int("total", len(plan.Scores)),
					)
				}
				mu.Unlock()
			}
		}()
	}

	// Send score indices to workers
	go func() {
		defer close(jobs)
		for i := range plan.Scores {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	stats.ScoresSubmitted = int(submitted)
	stats.ScoresFailed = int(failed)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled during submission: %w", err)
	}
	if firstErr != nil {
		return fmt.Errorf("%d of %d scores rejected: %w", failed, len(plan.Scores), firstErr)
	}
	return nil
}

// exportSnapshot writes the target's dataset as a snapshot document.
func exportSnapshot(ctx context.Context, target Target, path string) error {
	snap, err := target.GetAllData(ctx)
	if err != nil {
		return err
	}
	data, err := storage.Encode(snap)
	if err != nil {
		return err
	}
	out, err := storage.NewFileBackend(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	return out.Write(ctx, data)
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, stats *Stats, log logger.Logger) {
	var scoresPerSecond float64
	if stats.Duration > 0 {
		scoresPerSecond = float64(stats.ScoresSubmitted) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("projectsCreated", stats.ProjectsCreated),
		logger.Int("judgesCreated", stats.JudgesCreated),
		logger.Int("criteriaCreated", stats.CriteriaCreated),
		logger.Int("scoresPlanned", stats.ScoresPlanned),
		logger.Int("scoresSubmitted", stats.ScoresSubmitted),
		logger.Int("scoresFailed", stats.ScoresFailed),
		logger.Int("rankedProjects", stats.RankedProjects),
		logger.Duration("duration", stats.Duration),
		logger.Float64("scoresPerSecond", scoresPerSecond),
	)
}
