package model

import (
	"math"
	"net/mail"
	"net/url"
	"strings"
)

// ValidateRating checks a score value against the inclusive rating range.
// NaN and infinities are rejected like any other out-of-range value.
func ValidateRating(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinRating || v > MaxRating {
		return &InvalidRatingError{Value: v}
	}
	return nil
}

// NormalizeProject trims text fields and fills the default status.
func NormalizeProject(p Project) Project {
	p.Name = strings.TrimSpace(p.Name)
	p.TeamName = strings.TrimSpace(p.TeamName)
	p.Description = strings.TrimSpace(p.Description)
	p.Track = Track(strings.ToLower(strings.TrimSpace(string(p.Track))))
	if st, ok := ParseStatus(string(p.Status)); ok {
		p.Status = st
	}
	links := make([]string, 0, len(p.Links))
	for _, l := range p.Links {
		if l = strings.TrimSpace(l); l != "" {
			links = append(links, l)
		}
	}
	p.Links = links
	return p
}

// ValidateProject checks a normalised project.
func ValidateProject(p Project) error {
	if p.Name == "" {
		return invalid(EntityProject, "name", "is required")
	}
	if p.TeamName == "" {
		return invalid(EntityProject, "teamName", "is required")
	}
	if !p.Track.Valid() {
		return invalid(EntityProject, "track", "unknown track "+quote(string(p.Track)))
	}
	if _, ok := ParseStatus(string(p.Status)); !ok {
		return invalid(EntityProject, "status", "unknown status "+quote(string(p.Status)))
	}
	if p.TRL != 0 && (p.TRL < MinTRL || p.TRL > MaxTRL) {
		return invalid(EntityProject, "trl", "must be between 1 and 9")
	}
	for _, l := range p.Links {
		u, err := url.Parse(l)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid(EntityProject, "links", "not an absolute http(s) URL: "+quote(l))
		}
	}
	return nil
}

// NormalizeJudge trims text fields, lower-cases tracks and drops duplicates.
func NormalizeJudge(j Judge) Judge {
	j.Name = strings.TrimSpace(j.Name)
	j.Email = strings.TrimSpace(j.Email)
	j.Tracks = normalizeTracks(j.Tracks)
	return j
}

// ValidateJudge checks a normalised judge.
func ValidateJudge(j Judge) error {
	if j.Name == "" {
		return invalid(EntityJudge, "name", "is required")
	}
	if j.Email == "" {
		return invalid(EntityJudge, "email", "is required")
	}
	addr, err := mail.ParseAddress(j.Email)
	if err != nil || addr.Address != j.Email {
		return invalid(EntityJudge, "email", "not a valid address: "+quote(j.Email))
	}
	if len(j.Tracks) == 0 {
		return invalid(EntityJudge, "tracks", "at least one track is required")
	}
	for _, t := range j.Tracks {
		if !t.Valid() {
			return invalid(EntityJudge, "tracks", "unknown track "+quote(string(t)))
		}
	}
	return nil
}

// NormalizeCriterion trims text fields and collapses "all tracks" to TrackAll.
func NormalizeCriterion(c Criterion) Criterion {
	c.Label = strings.TrimSpace(c.Label)
	c.Description = strings.TrimSpace(c.Description)
	c.Tracks = normalizeTracks(c.Tracks)
	if len(c.Tracks) == 0 {
		c.Tracks = []Track{TrackAll}
	}
	for _, t := range c.Tracks {
		if t == TrackAll {
			c.Tracks = []Track{TrackAll}
			break
		}
	}
	return c
}

// ValidateCriterion checks a normalised criterion.
func ValidateCriterion(c Criterion) error {
	if c.Label == "" {
		return invalid(EntityCriterion, "label", "is required")
	}
	if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) || c.Weight <= 0 {
		return invalid(EntityCriterion, "weight", "must be a positive number")
	}
	for _, t := range c.Tracks {
		if t != TrackAll && !t.Valid() {
			return invalid(EntityCriterion, "tracks", "unknown track "+quote(string(t)))
		}
	}
	return nil
}

func normalizeTracks(in []Track) []Track {
	out := make([]Track, 0, len(in))
	seen := make(map[Track]struct{}, len(in))
	for _, t := range in {
		t = Track(strings.ToLower(strings.TrimSpace(string(t))))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func quote(s string) string { return `"` + s + `"` }
