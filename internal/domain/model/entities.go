// Package model contains the judging entities shared by every layer: projects,
// judges, criteria, scores and the snapshot that groups them.
package model

import (
	"slices"
	"time"
)

// Rating bounds accepted for a single score value.
const (
	MinRating = 1.0
	MaxRating = 10.0
)

// Technology-readiness level bounds. Zero means unset.
const (
	MinTRL = 1
	MaxTRL = 9
)

// Project is a hackathon submission competing in exactly one track.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	TeamName    string        `json:"teamName"`
	Track       Track         `json:"track"`
	Description string        `json:"description"`
	Links       []string      `json:"links"`
	TRL         int           `json:"trl"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Judge scores projects in the tracks they are authorized for.
type Judge struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Tracks    []Track   `json:"tracks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Criterion is a weighted scoring dimension. Tracks holds TrackAll when the
// criterion applies everywhere.
type Criterion struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Weight      float64   `json:"weight"`
	Tracks      []Track   `json:"tracks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Score is one judge's rating of one project against one criterion.
type Score struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	JudgeID     string    `json:"judgeId"`
	CriterionID string    `json:"criterionId"`
	Value       float64   `json:"value"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no slices with p.
func (p Project) Clone() Project {
	p.Links = slices.Clone(p.Links)
	return p
}

// Clone returns a copy that shares no slices with j.
func (j Judge) Clone() Judge {
	j.Tracks = slices.Clone(j.Tracks)
	return j
}

// Clone returns a copy that shares no slices with c.
func (c Criterion) Clone() Criterion {
	c.Tracks = slices.Clone(c.Tracks)
	return c
}

// HasTrack reports whether the judge may score projects in t.
func (j Judge) HasTrack(t Track) bool {
	return slices.Contains(j.Tracks, t)
}

// AppliesTo reports whether the criterion is used for projects in t.
func (c Criterion) AppliesTo(t Track) bool {
	if len(c.Tracks) == 0 {
		return true
	}
	for _, ct := range c.Tracks {
		if ct == TrackAll || ct == t {
			return true
		}
	}
	return false
}
