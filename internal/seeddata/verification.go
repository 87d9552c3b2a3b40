package seeddata

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/types"
	"github.com/okian/jury/pkg/logger"
)

// Sentinel errors.
var (
	ErrVerification = errors.New("ranking verification failed")
	ErrNotEmpty     = errors.New("target store is not empty")
)

// Expected is the outcome of a project recomputed from the plan alone.
type Expected struct {
	Name        string
	Track       model.Track
	Average     float64
	Evaluations int
}

// ExpectedResults recomputes every evaluated project's average from the plan:
// each judge's weighted mean, then the plain mean over judges.
func ExpectedResults(plan Plan) map[string]Expected {
	type acc struct{ weighted, weights float64 }
	perJudge := make(map[int]map[int]*acc)
	for _, s := range plan.Scores {
		if perJudge[s.Project] == nil {
			perJudge[s.Project] = make(map[int]*acc)
		}
		a := perJudge[s.Project][s.Judge]
		if a == nil {
			a = &acc{}
			perJudge[s.Project][s.Judge] = a
		}
		w := plan.Criteria[s.Criterion].Weight
		a.weighted += w * s.Value
		a.weights += w
	}

	out := make(map[string]Expected, len(perJudge))
	for p, judges := range perJudge {
		var sum float64
		for _, a := range judges {
			sum += a.weighted / a.weights
		}
		project := plan.Projects[p]
		out[project.Name] = Expected{
			Name:        project.Name,
			Track:       project.Track,
			Average:     sum / float64(len(judges)),
			Evaluations: len(judges),
		}
	}
	return out
}

// verifyResults checks the overall and per-track rankings against the plan.
func verifyResults(ctx context.Context, target Target, plan Plan, stats *Stats, log logger.Logger) error {
	log.Info(ctx, "verifying rankings")
	expected := ExpectedResults(plan)

	ranked, err := target.Rankings(ctx)
	if err != nil {
		return fmt.Errorf("fetch rankings: %w", err)
	}
	stats.RankedProjects = len(ranked)
	if err := verifyRanking(ranked, expected, ""); err != nil {
		return err
	}

	for _, track := range model.Tracks() {
		list, err := target.TrackRanking(ctx, string(track))
		if err != nil {
			return fmt.Errorf("fetch %s ranking: %w", track, err)
		}
		if err := verifyRanking(list, expected, track); err != nil {
			return err
		}
	}

	displayTopProjects(ctx, ranked, log)
	log.Info(ctx, "ranking verification completed", logger.Int("ranked", len(ranked)))
	return nil
}

// verifyRanking checks membership, averages, order and dense ranks. An empty
// track checks the overall ranking.
func verifyRanking(ranked []types.RankedProject, expected map[string]Expected, track model.Track) error {
	want := 0
	for _, e := range expected {
		if track == "" || e.Track == track {
			want++
		}
	}
	scope := "overall"
	if track != "" {
		scope = string(track)
	}
	if len(ranked) != want {
		return fmt.Errorf("%w: %s ranking has %d projects, want %d", ErrVerification, scope, len(ranked), want)
	}

	for i, rp := range ranked {
		e, ok := expected[rp.Name]
		if !ok {
			return fmt.Errorf("%w: %s ranking lists unevaluated project %q", ErrVerification, scope, rp.Name)
		}
		if math.Abs(e.Average-rp.Average) > averageTolerance {
			return fmt.Errorf("%w: %q average %.6f, want %.6f", ErrVerification, rp.Name, rp.Average, e.Average)
		}
		if rp.EvaluationCount != e.Evaluations {
			return fmt.Errorf("%w: %q has %d evaluations, want %d", ErrVerification, rp.Name, rp.EvaluationCount, e.Evaluations)
		}
		if i == 0 {
			if rp.Rank != 1 {
				return fmt.Errorf("%w: %s ranking starts at rank %d", ErrVerification, scope, rp.Rank)
			}
			continue
		}
		prev := ranked[i-1]
		if rp.Average > prev.Average+averageTolerance {
			return fmt.Errorf("%w: %s ranking not sorted at position %d", ErrVerification, scope, i+1)
		}
		if step := rp.Rank - prev.Rank; step != 0 && step != 1 {
			return fmt.Errorf("%w: %s ranking skips from rank %d to %d", ErrVerification, scope, prev.Rank, rp.Rank)
		}
	}
	return nil
}

// displayTopProjects logs the head of the overall ranking.
func displayTopProjects(ctx context.Context, ranked []types.RankedProject, log logger.Logger) {
	head := ranked[:min(topListed, len(ranked))]
	for _, rp := range head {
		log.Info(ctx, "ranked project",
			logger.Int("rank", rp.Rank),
			logger.String("name", rp.Name),
			logger.String("track", string(rp.Track)),
			logger.Float64("average", rp.Average),
			logger.Int("evaluations", rp.EvaluationCount),
		)
	}
	if len(ranked) == 0 {
		return
	}
	averages := make([]float64, len(ranked))
	for i, rp := range ranked {
		averages[i] = rp.Average
	}
	log.Info(ctx, "score statistics",
		logger.Float64("max", slices.Max(averages)),
		logger.Float64("min", slices.Min(averages)),
	)
}
