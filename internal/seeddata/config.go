// Package seeddata generates a reproducible judging event, writes it through
// the evaluation service and verifies the resulting rankings against an
// independent recomputation.
package seeddata

import (
	"context"
	"time"

	"github.com/okian/jury/internal/adapters/repository"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/types"
)

// Config holds configuration for a seeding run.
type Config struct {
	Projects   int     // Number of projects to generate
	Judges     int     // Number of judges to generate
	Criteria   int     // Number of criteria taken from the catalog
	Coverage   float64 // Share of assigned projects each judge scores, 0..1
	Workers    int     // Number of concurrent score writers
	Seed       uint64  // Generator seed; equal seeds give equal plans
	OutputFile string  // Optional snapshot export after the run
	Verbose    bool    // Log every submitted score
}

// Target is the subset of the evaluation service a run writes through.
type Target interface {
	CreateProject(ctx context.Context, in repository.ProjectInput) (model.Project, error)
	CreateJudge(ctx context.Context, in repository.JudgeInput) (model.Judge, error)
	CreateCriterion(ctx context.Context, in repository.CriterionInput) (model.Criterion, error)
	SubmitScore(ctx context.Context, in repository.ScoreInput) (model.Score, error)
	Rankings(ctx context.Context) ([]types.RankedProject, error)
	TrackRanking(ctx context.Context, track string) ([]types.RankedProject, error)
	GetAllData(ctx context.Context) (model.Snapshot, error)
}

// Stats holds run statistics.
type Stats struct {
	ProjectsCreated int
	JudgesCreated   int
	CriteriaCreated int
	ScoresPlanned   int
	ScoresSubmitted int
	ScoresFailed    int
	RankedProjects  int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
