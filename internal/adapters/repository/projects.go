package repository

import (
	"context"
	"slices"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/pkg/metrics"
)

// ProjectInput holds the fields of a new project.
type ProjectInput struct {
	Name        string
	TeamName    string
	Track       model.Track
	Description string
	Links       []string
	TRL         int
	Status      model.ProjectStatus
}

// ProjectPatch lists the fields to replace; nil fields are left alone.
type ProjectPatch struct {
	Name        *string
	TeamName    *string
	Track       *model.Track
	Description *string
	Links       *[]string
	TRL         *int
	Status      *model.ProjectStatus
}

// ProjectFilter narrows ListProjects. Zero values match everything.
type ProjectFilter struct {
	Track  model.Track
	Status model.ProjectStatus
	// Search matches name, team name or description, ignoring case.
	Search     string
	SortByName bool
}

// ListProjects returns the matching projects in insertion order unless
// SortByName is set.
func (r *Repository) ListProjects(ctx context.Context, f ProjectFilter) []model.Project {
	snap := r.read(ctx)
	m := newMatcher(f.Search)
	out := make([]model.Project, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		if f.Track != "" && p.Track != f.Track {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if !m.match(p.Name, p.TeamName, p.Description) {
			continue
		}
		out = append(out, p.Clone())
	}
	if f.SortByName {
		sortByName(out, func(p model.Project) string { return p.Name })
	}
	return out
}

// GetProject returns the project with id.
func (r *Repository) GetProject(ctx context.Context, id string) (model.Project, error) {
	p, ok := r.read(ctx).Project(id)
	if !ok {
		return model.Project{}, notFound(model.EntityProject, id)
	}
	return p.Clone(), nil
}

// CreateProject validates in and appends a new project.
func (r *Repository) CreateProject(ctx context.Context, in ProjectInput) (model.Project, error) {
	now := r.timestamp()
	p := model.NormalizeProject(model.Project{
		Name:        in.Name,
		TeamName:    in.TeamName,
		Track:       in.Track,
		Description: in.Description,
		Links:       slices.Clone(in.Links),
		TRL:         in.TRL,
		Status:      in.Status,
	})
	err := r.mutate(ctx, model.EntityProject, opCreate, func(next *model.Snapshot) error {
		if err := model.ValidateProject(p); err != nil {
			return err
		}
		if err := uniqueProjectName(*next, p.Name, ""); err != nil {
			return err
		}
		p.ID = r.newID()
		p.CreatedAt = now
		p.UpdatedAt = now
		next.Projects = append(next.Projects, p)
		return nil
	})
	if err != nil {
		return model.Project{}, err
	}
	return p.Clone(), nil
}

// UpdateProject applies patch to the project with id.
func (r *Repository) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (model.Project, error) {
	var updated model.Project
	err := r.mutate(ctx, model.EntityProject, opUpdate, func(next *model.Snapshot) error {
		i := slices.IndexFunc(next.Projects, func(p model.Project) bool { return p.ID == id })
		if i < 0 {
			return notFound(model.EntityProject, id)
		}
		p := next.Projects[i]
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.TeamName != nil {
			p.TeamName = *patch.TeamName
		}
		if patch.Track != nil {
			p.Track = *patch.Track
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Links != nil {
			p.Links = slices.Clone(*patch.Links)
		}
		if patch.TRL != nil {
			p.TRL = *patch.TRL
		}
		if patch.Status != nil {
			p.Status = *patch.Status
		}
		p = model.NormalizeProject(p)
		if err := model.ValidateProject(p); err != nil {
			return err
		}
		if err := uniqueProjectName(*next, p.Name, id); err != nil {
			return err
		}
		p.UpdatedAt = r.timestamp()
		next.Projects[i] = p
		updated = p
		return nil
	})
	if err != nil {
		return model.Project{}, err
	}
	return updated.Clone(), nil
}

// DeleteProject removes the project and every score referencing it in one
// saved snapshot.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	var cascaded int
	err := r.mutate(ctx, model.EntityProject, opDelete, func(next *model.Snapshot) error {
		i := slices.IndexFunc(next.Projects, func(p model.Project) bool { return p.ID == id })
		if i < 0 {
			return notFound(model.EntityProject, id)
		}
		next.Projects = slices.Delete(next.Projects, i, i+1)
		before := len(next.Scores)
		next.Scores = slices.DeleteFunc(next.Scores, func(s model.Score) bool { return s.ProjectID == id })
		cascaded = before - len(next.Scores)
		return nil
	})
	if err != nil {
		return err
	}
	metrics.RecordCascadedScores(cascaded)
	return nil
}

func uniqueProjectName(s model.Snapshot, name, selfID string) error {
	for _, p := range s.Projects {
		if p.ID != selfID && sameFold(p.Name, name) {
			return duplicate(model.EntityProject, "name", name)
		}
	}
	return nil
}
