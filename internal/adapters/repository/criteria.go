package repository

import (
	"context"
	"slices"

	"github.com/okian/jury/internal/domain/model"
)

// CriterionInput holds the fields of a new criterion. No tracks means all
// tracks.
type CriterionInput struct {
	Label       string
	Description string
	Weight      float64
	Tracks      []model.Track
}

// CriterionPatch lists the fields to replace; nil fields are left alone.
type CriterionPatch struct {
	Label       *string
	Description *string
	Weight      *float64
	Tracks      *[]model.Track
}

// CriterionFilter narrows ListCriteria. Zero values match everything.
type CriterionFilter struct {
	// Track keeps criteria that apply to that track, including "all".
	Track model.Track
	// Search matches label or description, ignoring case.
	Search     string
	SortByName bool
}

// ListCriteria returns the matching criteria in insertion order unless
// SortByName is set, in which case they are ordered by label.
func (r *Repository) ListCriteria(ctx context.Context, f CriterionFilter) []model.Criterion {
	snap := r.read(ctx)
	m := newMatcher(f.Search)
	out := make([]model.Criterion, 0, len(snap.Criteria))
	for _, c := range snap.Criteria {
		if f.Track != "" && !c.AppliesTo(f.Track) {
			continue
		}
		if !m.match(c.Label, c.Description) {
			continue
		}
		out = append(out, c.Clone())
	}
	if f.SortByName {
		sortByName(out, func(c model.Criterion) string { return c.Label })
	}
	return out
}

// GetCriterion returns the criterion with id.
func (r *Repository) GetCriterion(ctx context.Context, id string) (model.Criterion, error) {
	c, ok := r.read(ctx).Criterion(id)
	if !ok {
		return model.Criterion{}, notFound(model.EntityCriterion, id)
	}
	return c.Clone(), nil
}

// CreateCriterion validates in and appends a new criterion.
func (r *Repository) CreateCriterion(ctx context.Context, in CriterionInput) (model.Criterion, error) {
	now := r.timestamp()
	c := model.NormalizeCriterion(model.Criterion{
		Label:       in.Label,
		Description: in.Description,
		Weight:      in.Weight,
		Tracks:      slices.Clone(in.Tracks),
	})
	err := r.mutate(ctx, model.EntityCriterion, opCreate, func(next *model.Snapshot) error {
		if err := model.ValidateCriterion(c); err != nil {
			return err
		}
		if err := uniqueCriterionLabel(*next, c.Label, ""); err != nil {
			return err
		}
		c.ID = r.newID()
		c.CreatedAt = now
		c.UpdatedAt = now
		next.Criteria = append(next.Criteria, c)
		return nil
	})
	if err != nil {
		return model.Criterion{}, err
	}
	return c.Clone(), nil
}

// UpdateCriterion applies patch to the criterion with id. Weight changes
// apply to existing scores at the next aggregation.
func (r *Repository) UpdateCriterion(ctx context.Context, id string, patch CriterionPatch) (model.Criterion, error) {
	var updated model.Criterion
	err := r.mutate(ctx, model.EntityCriterion, opUpdate, func(next *model.Snapshot) error {
		i := slices.IndexFunc(next.Criteria, func(c model.Criterion) bool { return c.ID == id })
		if i < 0 {
			return notFound(model.EntityCriterion, id)
		}
		c := next.Criteria[i]
		if patch.Label != nil {
			c.Label = *patch.Label
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.Weight != nil {
			c.Weight = *patch.Weight
		}
		if patch.Tracks != nil {
			c.Tracks = slices.Clone(*patch.Tracks)
		}
		c = model.NormalizeCriterion(c)
		if err := model.ValidateCriterion(c); err != nil {
			return err
		}
		if err := uniqueCriterionLabel(*next, c.Label, id); err != nil {
			return err
		}
		c.UpdatedAt = r.timestamp()
		next.Criteria[i] = c
		updated = c
		return nil
	})
	if err != nil {
		return model.Criterion{}, err
	}
	return updated.Clone(), nil
}

// DeleteCriterion removes the criterion. Its scores are kept and simply stop
// contributing to aggregates.
func (r *Repository) DeleteCriterion(ctx context.Context, id string) error {
	return r.mutate(ctx, model.EntityCriterion, opDelete, func(next *model.Snapshot) error {
		i := slices.IndexFunc(next.Criteria, func(c model.Criterion) bool { return c.ID == id })
		if i < 0 {
			return notFound(model.EntityCriterion, id)
		}
		next.Criteria = slices.Delete(next.Criteria, i, i+1)
		return nil
	})
}

func uniqueCriterionLabel(s model.Snapshot, label, selfID string) error {
	for _, c := range s.Criteria {
		if c.ID != selfID && sameFold(c.Label, label) {
			return duplicate(model.EntityCriterion, "label", label)
		}
	}
	return nil
}
