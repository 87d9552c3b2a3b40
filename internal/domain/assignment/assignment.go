// Package assignment resolves which projects a judge may score.
package assignment

import (
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/types"
)

// CanScore reports whether judge is assigned to the track of project.
func CanScore(judge model.Judge, project model.Project) bool {
	return judge.HasTrack(project.Track)
}

// AssignedProjects returns the projects in judge's tracks, in input order.
func AssignedProjects(judge model.Judge, projects []model.Project) []model.Project {
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if CanScore(judge, p) {
			out = append(out, p)
		}
	}
	return out
}

// Progress counts how many assigned projects the judge has started and
// completed. Completion means every existing criterion that applies to the
// project's track carries a score from this judge; a project with no
// applicable criteria is never complete.
func Progress(judge model.Judge, snap model.Snapshot) types.JudgeProgress {
	assigned := AssignedProjects(judge, snap.Projects)
	prog := types.JudgeProgress{JudgeID: judge.ID, Assigned: len(assigned)}

	scored := make(map[string]map[string]struct{})
	for _, s := range snap.Scores {
		if s.JudgeID != judge.ID {
			continue
		}
		if scored[s.ProjectID] == nil {
			scored[s.ProjectID] = make(map[string]struct{})
		}
		scored[s.ProjectID][s.CriterionID] = struct{}{}
	}

	for _, p := range assigned {
		got := scored[p.ID]
		if len(got) == 0 {
			continue
		}
		prog.Started++

		applicable, missing := 0, false
		for _, c := range snap.Criteria {
			if !c.AppliesTo(p.Track) {
				continue
			}
			applicable++
			if _, ok := got[c.ID]; !ok {
				missing = true
				break
			}
		}
		if applicable > 0 && !missing {
			prog.Completed++
		}
	}
	return prog
}
