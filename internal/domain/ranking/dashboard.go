package ranking

import (
	"maps"
	"slices"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/scoring"
	"github.com/okian/jury/internal/domain/types"
)

type meanAcc struct {
	sum   float64
	count int
}

func (m *meanAcc) add(v float64) {
	m.sum += v
	m.count++
}

func (m meanAcc) mean() (float64, bool) {
	if m.count == 0 {
		return 0, false
	}
	return m.sum / float64(m.count), true
}

// Dashboard reduces snap to whole-event totals. Means are taken over
// evaluations, so a project two judges scored counts twice.
func Dashboard(snap model.Snapshot) types.Dashboard {
	results := scoring.Evaluate(snap)

	d := types.Dashboard{
		TotalProjects: len(snap.Projects),
		TotalJudges:   len(snap.Judges),
		TotalCriteria: len(snap.Criteria),
		TotalScores:   len(snap.Scores),
		StatusCounts:  make(map[model.ProjectStatus]int, len(model.Statuses())),
		Tracks:        make(map[model.Track]types.TrackStats, len(model.Tracks())),
	}
	for _, st := range model.Statuses() {
		d.StatusCounts[st] = 0
	}

	var overall meanAcc
	perTrack := make(map[model.Track]*meanAcc, len(model.Tracks()))
	counts := make(map[model.Track]int, len(model.Tracks()))
	for _, t := range model.Tracks() {
		perTrack[t] = &meanAcc{}
	}

	for _, p := range snap.Projects {
		d.StatusCounts[p.Status]++
		counts[p.Track]++
		acc, ok := perTrack[p.Track]
		if !ok {
			acc = &meanAcc{}
			perTrack[p.Track] = acc
		}
		res := results[p.ID]
		for _, judgeID := range slices.Sorted(maps.Keys(res.JudgeMeans)) {
			m := res.JudgeMeans[judgeID]
			overall.add(m)
			acc.add(m)
		}
	}

	d.TotalEvaluations = overall.count
	d.MeanScore, d.HasMeanScore = overall.mean()
	for t, acc := range perTrack {
		stats := types.TrackStats{Projects: counts[t], Evaluations: acc.count}
		stats.MeanScore, stats.HasMeanScore = acc.mean()
		d.Tracks[t] = stats
	}
	return d
}
