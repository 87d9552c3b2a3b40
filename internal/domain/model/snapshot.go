package model

// Snapshot is the complete state of the four collections at a point in time.
// Snapshots handed out by the repository are treated as immutable; writers
// build a new one with Clone.
type Snapshot struct {
	Projects []Project   `json:"projects"`
	Judges   []Judge     `json:"judges"`
	Criteria []Criterion `json:"criteria"`
	Scores   []Score     `json:"scores"`
}

// EmptySnapshot returns a valid snapshot with four empty, non-nil collections.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Projects: []Project{},
		Judges:   []Judge{},
		Criteria: []Criterion{},
		Scores:   []Score{},
	}
}

// Clone deep-copies every collection.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Projects: make([]Project, len(s.Projects)),
		Judges:   make([]Judge, len(s.Judges)),
		Criteria: make([]Criterion, len(s.Criteria)),
		Scores:   make([]Score, len(s.Scores)),
	}
	for i, p := range s.Projects {
		out.Projects[i] = p.Clone()
	}
	for i, j := range s.Judges {
		out.Judges[i] = j.Clone()
	}
	for i, c := range s.Criteria {
		out.Criteria[i] = c.Clone()
	}
	copy(out.Scores, s.Scores)
	return out
}

// Normalize replaces nil collections with empty ones so the snapshot always
// encodes as four arrays.
func (s Snapshot) Normalize() Snapshot {
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	if s.Judges == nil {
		s.Judges = []Judge{}
	}
	if s.Criteria == nil {
		s.Criteria = []Criterion{}
	}
	if s.Scores == nil {
		s.Scores = []Score{}
	}
	return s
}

// Project returns the project with id.
func (s Snapshot) Project(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// Judge returns the judge with id.
func (s Snapshot) Judge(id string) (Judge, bool) {
	for _, j := range s.Judges {
		if j.ID == id {
			return j, true
		}
	}
	return Judge{}, false
}

// Criterion returns the criterion with id.
func (s Snapshot) Criterion(id string) (Criterion, bool) {
	for _, c := range s.Criteria {
		if c.ID == id {
			return c, true
		}
	}
	return Criterion{}, false
}

// CriteriaByID indexes the criteria by identity.
func (s Snapshot) CriteriaByID() map[string]Criterion {
	out := make(map[string]Criterion, len(s.Criteria))
	for _, c := range s.Criteria {
		out[c.ID] = c
	}
	return out
}

// ScoresFor returns the scores referencing projectID in insertion order.
func (s Snapshot) ScoresFor(projectID string) []Score {
	var out []Score
	for _, sc := range s.Scores {
		if sc.ProjectID == projectID {
			out = append(out, sc)
		}
	}
	return out
}
