package model

import (
	"strings"
)

// Track is a competition category. It partitions projects and scopes judges.
type Track string

// Known tracks.
const (
	TrackAIML           Track = "ai-ml"
	TrackFintech        Track = "fintech"
	TrackHealthtech     Track = "healthtech"
	TrackSustainability Track = "sustainability"
	TrackWeb3           Track = "web3"
	TrackSocialImpact   Track = "social-impact"

	// TrackAll is only meaningful in a criterion's track list.
	TrackAll Track = "all"
)

var tracks = []Track{
	TrackAIML,
	TrackFintech,
	TrackHealthtech,
	TrackSustainability,
	TrackWeb3,
	TrackSocialImpact,
}

// Tracks returns the competition tracks in their canonical order.
func Tracks() []Track {
	out := make([]Track, len(tracks))
	copy(out, tracks)
	return out
}

// Valid reports whether t is one of the competition tracks. TrackAll is not.
func (t Track) Valid() bool {
	for _, known := range tracks {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTrack normalises case and surrounding space and checks membership.
// TrackAll is accepted only when allowAll is set.
func ParseTrack(s string, allowAll bool) (Track, bool) {
	t := Track(strings.ToLower(strings.TrimSpace(s)))
	if t == TrackAll {
		return t, allowAll
	}
	return t, t.Valid()
}

// ProjectStatus tracks where a project is in the judging workflow.
type ProjectStatus string

// Project statuses.
const (
	StatusSubmitted    ProjectStatus = "submitted"
	StatusInReview     ProjectStatus = "in_review"
	StatusJudged       ProjectStatus = "judged"
	StatusDisqualified ProjectStatus = "disqualified"
)

var statuses = []ProjectStatus{StatusSubmitted, StatusInReview, StatusJudged, StatusDisqualified}

// Statuses returns every project status.
func Statuses() []ProjectStatus {
	out := make([]ProjectStatus, len(statuses))
	copy(out, statuses)
	return out
}

// ParseStatus normalises and validates a status. Empty maps to StatusSubmitted.
func ParseStatus(s string) (ProjectStatus, bool) {
	st := ProjectStatus(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return StatusSubmitted, true
	}
	for _, known := range statuses {
		if st == known {
			return st, true
		}
	}
	return st, false
}
