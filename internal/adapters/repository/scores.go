package repository

import (
	"context"
	"slices"
	"strings"

	"github.com/okian/jury/internal/domain/assignment"
	"github.com/okian/jury/internal/domain/model"
)

// ScoreInput is one judge's rating of one project against one criterion.
type ScoreInput struct {
	ProjectID   string
	JudgeID     string
	CriterionID string
	Value       float64
	Comment     string
}

// ScoreFilter narrows ListScores. Empty fields match everything.
type ScoreFilter struct {
	ProjectID   string
	JudgeID     string
	CriterionID string
}

// ListScores returns the matching scores in insertion order.
func (r *Repository) ListScores(ctx context.Context, f ScoreFilter) []model.Score {
	snap := r.read(ctx)
	out := make([]model.Score, 0, len(snap.Scores))
	for _, s := range snap.Scores {
		if f.ProjectID != "" && s.ProjectID != f.ProjectID {
			continue
		}
		if f.JudgeID != "" && s.JudgeID != f.JudgeID {
			continue
		}
		if f.CriterionID != "" && s.CriterionID != f.CriterionID {
			continue
		}
		out = append(out, s)
	}
	return out
}

// UpsertScore records a rating. A second rating for the same
// (project, judge, criterion) replaces the first in place and keeps its ID
// and creation time.
//
// Checks run in this order: existence of the project and judge, the judge's
// track authorisation, rating range, existence of the criterion, and finally
// whether the criterion applies to the project's track. Nothing is saved on
// failure.
func (r *Repository) UpsertScore(ctx context.Context, in ScoreInput) (model.Score, error) {
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.JudgeID = strings.TrimSpace(in.JudgeID)
	in.CriterionID = strings.TrimSpace(in.CriterionID)
	in.Comment = strings.TrimSpace(in.Comment)

	var saved model.Score
	err := r.mutate(ctx, model.EntityScore, opUpsert, func(next *model.Snapshot) error {
		project, ok := next.Project(in.ProjectID)
		if !ok {
			return notFound(model.EntityProject, in.ProjectID)
		}
		judge, ok := next.Judge(in.JudgeID)
		if !ok {
			return notFound(model.EntityJudge, in.JudgeID)
		}
		if !assignment.CanScore(judge, project) {
			return &model.UnauthorizedTrackError{
				JudgeID:   judge.ID,
				ProjectID: project.ID,
				Track:     project.Track,
				Allowed:   slices.Clone(judge.Tracks),
			}
		}
		if err := model.ValidateRating(in.Value); err != nil {
			return err
		}
		criterion, ok := next.Criterion(in.CriterionID)
		if !ok {
			return notFound(model.EntityCriterion, in.CriterionID)
		}
		if !criterion.AppliesTo(project.Track) {
			return &model.ValidationError{
				Entity: model.EntityScore,
				Field:  "criterionId",
				Reason: "criterion \"" + criterion.Label + "\" does not apply to track \"" + string(project.Track) + "\"",
			}
		}

		now := r.timestamp()
		id := model.ScoreID(project.ID, judge.ID, criterion.ID)
		i := slices.IndexFunc(next.Scores, func(s model.Score) bool { return s.ID == id })
		if i >= 0 {
			s := next.Scores[i]
			s.Value = in.Value
			s.Comment = in.Comment
			s.UpdatedAt = now
			next.Scores[i] = s
			saved = s
			return nil
		}
		saved = model.Score{
			ID:          id,
			ProjectID:   project.ID,
			JudgeID:     judge.ID,
			CriterionID: criterion.ID,
			Value:       in.Value,
			Comment:     in.Comment,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		next.Scores = append(next.Scores, saved)
		return nil
	})
	if err != nil {
		return model.Score{}, err
	}
	return saved, nil
}

// DeleteScore retracts a single score.
func (r *Repository) DeleteScore(ctx context.Context, id string) error {
	return r.mutate(ctx, model.EntityScore, opDelete, func(next *model.Snapshot) error {
		i := slices.IndexFunc(next.Scores, func(s model.Score) bool { return s.ID == id })
		if i < 0 {
			return notFound(model.EntityScore, id)
		}
		next.Scores = slices.Delete(next.Scores, i, i+1)
		return nil
	})
}
