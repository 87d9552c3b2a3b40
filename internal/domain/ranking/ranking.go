// Package ranking orders evaluated projects and reduces a snapshot to
// dashboard totals. Everything is recomputed from the snapshot on demand.
package ranking

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/scoring"
	"github.com/okian/jury/internal/domain/types"
)

// averageScale controls fixed-point scaling of averages. Ratings are bounded
// to [1, 10], so nine decimal places cannot overflow.
const averageScale = 1_000_000_000

type averageFP int64

func toFixedPoint(x float64) averageFP {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return averageFP(math.Round(x * averageScale))
}

type candidate struct {
	row types.RankedProject
	fp  averageFP
}

// Overall ranks every evaluated project.
func Overall(snap model.Snapshot) []types.RankedProject {
	return rank(snap.Projects, scoring.Evaluate(snap))
}

// ForTrack ranks the evaluated projects of one track.
func ForTrack(snap model.Snapshot, track model.Track) []types.RankedProject {
	var projects []model.Project
	for _, p := range snap.Projects {
		if p.Track == track {
			projects = append(projects, p)
		}
	}
	return rank(projects, scoring.Evaluate(snap))
}

// ByTrack ranks each track independently. Every known track has an entry,
// possibly empty.
func ByTrack(snap model.Snapshot) map[model.Track][]types.RankedProject {
	results := scoring.Evaluate(snap)
	grouped := make(map[model.Track][]model.Project)
	for _, p := range snap.Projects {
		grouped[p.Track] = append(grouped[p.Track], p)
	}
	out := make(map[model.Track][]types.RankedProject, len(model.Tracks()))
	for _, t := range model.Tracks() {
		out[t] = rank(grouped[t], results)
	}
	return out
}

func rank(projects []model.Project, results map[string]scoring.Result) []types.RankedProject {
	cands := make([]candidate, 0, len(projects))
	for _, p := range projects {
		res, ok := results[p.ID]
		if !ok || !res.HasAverage {
			continue
		}
		cands = append(cands, candidate{
			row: types.RankedProject{
				ProjectID:       p.ID,
				Name:            p.Name,
				TeamName:        p.TeamName,
				Track:           p.Track,
				Average:         res.Average,
				EvaluationCount: res.EvaluationCount,
			},
			fp: toFixedPoint(res.Average),
		})
	}

	slices.SortFunc(cands, compareCandidates)
	assignRanksWithTies(cands)

	out := make([]types.RankedProject, len(cands))
	for i, c := range cands {
		out[i] = c.row
	}
	return out
}

// compareCandidates orders by average desc, evaluation count desc, then
// name and ID ascending so output is deterministic.
func compareCandidates(a, b candidate) int {
	if c := cmp.Compare(b.fp, a.fp); c != 0 {
		return c
	}
	if c := cmp.Compare(b.row.EvaluationCount, a.row.EvaluationCount); c != 0 {
		return c
	}
	if c := cmp.Compare(strings.ToLower(a.row.Name), strings.ToLower(b.row.Name)); c != 0 {
		return c
	}
	return cmp.Compare(a.row.ProjectID, b.row.ProjectID)
}

func sameStanding(a, b candidate) bool {
	return a.fp == b.fp && a.row.EvaluationCount == b.row.EvaluationCount
}

// assignRanksWithTies assigns dense ranks: entries with the same average and
// evaluation count share a rank and the next distinct entry gets rank+1.
func assignRanksWithTies(cands []candidate) {
	if len(cands) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(cands); i++ {
		cands[i].row.Rank = currentRank

		same := 1
		for j := i + 1; j < len(cands) && sameStanding(cands[j], cands[i]); j++ {
			cands[j].row.Rank = currentRank
			same++
		}

		currentRank++
		i += same - 1
	}
}
