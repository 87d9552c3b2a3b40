package repository

import (
	"context"
	"slices"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/pkg/metrics"
)

// JudgeInput holds the fields of a new judge.
type JudgeInput struct {
	Name   string
	Email  string
	Tracks []model.Track
}

// JudgePatch lists the fields to replace; nil fields are left alone.
type JudgePatch struct {
	Name   *string
	Email  *string
	Tracks *[]model.Track
}

// JudgeFilter narrows ListJudges. Zero values match everything.
type JudgeFilter struct {
	// Track keeps judges authorised for that track.
	Track model.Track
	// Search matches name or email, ignoring case.
	Search     string
	SortByName bool
}

// ListJudges returns the matching judges in insertion order unless
// SortByName is set.
func (r *Repository) ListJudges(ctx context.Context, f JudgeFilter) []model.Judge {
	snap := r.read(ctx)
	m := newMatcher(f.Search)
	out := make([]model.Judge, 0, len(snap.Judges))
	for _, j := range snap.Judges {
		if f.Track != "" && !j.HasTrack(f.Track) {
			continue
		}
		if !m.match(j.Name, j.Email) {
			continue
		}
		out = append(out, j.Clone())
	}
	if f.SortByName {
		sortByName(out, func(j model.Judge) string { return j.Name })
	}
	return out
}

// GetJudge returns the judge with id.
func (r *Repository) GetJudge(ctx context.Context, id string) (model.Judge, error) {
	j, ok := r.read(ctx).Judge(id)
	if !ok {
		return model.Judge{}, notFound(model.EntityJudge, id)
	}
	return j.Clone(), nil
}

// CreateJudge validates in and appends a new judge.
func (r *Repository) CreateJudge(ctx context.Context, in JudgeInput) (model.Judge, error) {
	now := r.timestamp()
	j := model.NormalizeJudge(model.Judge{
		Name:   in.Name,
		Email:  in.Email,
		Tracks: slices.Clone(in.Tracks),
	})
	err := r.mutate(ctx, model.EntityJudge, opCreate, func(next *model.Snapshot) error {
		if err := model.ValidateJudge(j); err != nil {
			return err
		}
		if err := uniqueJudgeEmail(*next, j.Email, ""); err != nil {
			return err
		}
		j.ID = r.newID()
		j.CreatedAt = now
		j.UpdatedAt = now
		next.Judges = append(next.Judges, j)
		return nil
	})
	if err != nil {
		return model.Judge{}, err
	}
	return j.Clone(), nil
}

// UpdateJudge applies patch to the judge with id. Scores the judge already
// submitted stay in place even if a track is removed.
func (r *Repository) UpdateJudge(ctx context.Context, id string, patch JudgePatch) (model.Judge, error) {
	var updated model.Judge
	err := r.mutate(ctx, model.EntityJudge, opUpdate, func(next *model.Snapshot) error {
		i := slices.IndexFunc(next.Judges, func(j model.Judge) bool { return j.ID == id })
		if i < 0 {
			return notFound(model.EntityJudge, id)
		}
		j := next.Judges[i]
		if patch.Name != nil {
			j.Name = *patch.Name
		}
		if patch.Email != nil {
			j.Email = *patch.Email
		}
		if patch.Tracks != nil {
			j.Tracks = slices.Clone(*patch.Tracks)
		}
		j = model.NormalizeJudge(j)
		if err := model.ValidateJudge(j); err != nil {
			return err
		}
		if err := uniqueJudgeEmail(*next, j.Email, id); err != nil {
			return err
		}
		j.UpdatedAt = r.timestamp()
		next.Judges[i] = j
		updated = j
		return nil
	})
	if err != nil {
		return model.Judge{}, err
	}
	return updated.Clone(), nil
}

// DeleteJudge removes the judge and every score they authored in one saved
// snapshot.
func (r *Repository) DeleteJudge(ctx context.Context, id string) error {
	var cascaded int
	err := r.mutate(ctx, model.EntityJudge, opDelete, func(next *model.Snapshot) error {
		i := slices.IndexFunc(next.Judges, func(j model.Judge) bool { return j.ID == id })
		if i < 0 {
			return notFound(model.EntityJudge, id)
		}
		next.Judges = slices.Delete(next.Judges, i, i+1)
		before := len(next.Scores)
		next.Scores = slices.DeleteFunc(next.Scores, func(s model.Score) bool { return s.JudgeID == id })
		cascaded = before - len(next.Scores)
		return nil
	})
	if err != nil {
		return err
	}
	metrics.RecordCascadedScores(cascaded)
	return nil
}

func uniqueJudgeEmail(s model.Snapshot, email, selfID string) error {
	for _, j := range s.Judges {
		if j.ID != selfID && sameFold(j.Email, email) {
			return duplicate(model.EntityJudge, "email", email)
		}
	}
	return nil
}
