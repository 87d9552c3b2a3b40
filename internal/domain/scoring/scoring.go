// Package scoring turns raw criterion ratings into per-judge weighted means
// and per-project averages.
package scoring

import (
	"github.com/okian/jury/internal/domain/model"
)

// Result is the aggregate for one project. Average is meaningful only when
// HasAverage is set; a project nobody has evaluated has no average at all.
type Result struct {
	ProjectID       string
	Average         float64
	HasAverage      bool
	EvaluationCount int
	// JudgeMeans maps judge ID to that judge's weighted mean.
	JudgeMeans map[string]float64
}

// JudgeMean computes Σ(w·v)/Σw over the scores whose criterion still exists.
// Criteria the judge skipped simply do not contribute. It reports false when
// no score contributes.
func JudgeMean(scores []model.Score, criteria map[string]model.Criterion) (float64, bool) {
	var weighted, weights float64
	for _, s := range scores {
		c, ok := criteria[s.CriterionID]
		if !ok || c.Weight <= 0 {
			continue
		}
		weighted += c.Weight * s.Value
		weights += c.Weight
	}
	if weights == 0 {
		return 0, false
	}
	return weighted / weights, true
}

// ProjectResult aggregates the scores of one project.
func ProjectResult(projectID string, snap model.Snapshot) Result {
	return aggregate(projectID, snap.ScoresFor(projectID), snap.CriteriaByID())
}

// Evaluate aggregates every project in the snapshot in one pass over the
// scores. Projects without evaluations are present with HasAverage unset.
func Evaluate(snap model.Snapshot) map[string]Result {
	byProject := make(map[string][]model.Score, len(snap.Projects))
	for _, s := range snap.Scores {
		byProject[s.ProjectID] = append(byProject[s.ProjectID], s)
	}
	criteria := snap.CriteriaByID()
	out := make(map[string]Result, len(snap.Projects))
	for _, p := range snap.Projects {
		out[p.ID] = aggregate(p.ID, byProject[p.ID], criteria)
	}
	return out
}

func aggregate(projectID string, scores []model.Score, criteria map[string]model.Criterion) Result {
	res := Result{ProjectID: projectID, JudgeMeans: make(map[string]float64)}

	// Judges are visited in order of their first score so the float sum is
	// reproducible.
	var order []string
	byJudge := make(map[string][]model.Score)
	for _, s := range scores {
		if _, seen := byJudge[s.JudgeID]; !seen {
			order = append(order, s.JudgeID)
		}
		byJudge[s.JudgeID] = append(byJudge[s.JudgeID], s)
	}

	var sum float64
	for _, judgeID := range order {
		mean, ok := JudgeMean(byJudge[judgeID], criteria)
		if !ok {
			continue
		}
		res.JudgeMeans[judgeID] = mean
		sum += mean
		res.EvaluationCount++
	}
	if res.EvaluationCount > 0 {
		res.Average = sum / float64(res.EvaluationCount)
		res.HasAverage = true
	}
	return res
}
