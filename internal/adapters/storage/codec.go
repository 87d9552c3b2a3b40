package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/jury/internal/domain/model"
)

// Top-level document keys.
const (
	keyProjects = "projects"
	keyJudges   = "judges"
	keyCriteria = "criteria"
	keyScores   = "scores"
)

var documentKeys = []string{keyProjects, keyJudges, keyCriteria, keyScores}

// Encode renders a snapshot as the persisted document. Empty collections are
// written as [] rather than null.
func Encode(s model.Snapshot) ([]byte, error) {
	data, err := json.Marshal(s.Normalize())
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a persisted document. The document must be an object with
// exactly the four collection keys, each holding an array of objects that
// carry an id. Anything else is reported as ErrCorrupt.
func Decode(data []byte) (model.Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if raw == nil {
		return model.Snapshot{}, fmt.Errorf("%w: document is not an object", ErrCorrupt)
	}
	if len(raw) != len(documentKeys) {
		return model.Snapshot{}, fmt.Errorf("%w: expected %d keys, got %d", ErrCorrupt, len(documentKeys), len(raw))
	}
	for _, k := range documentKeys {
		v, ok := raw[k]
		if !ok {
			return model.Snapshot{}, fmt.Errorf("%w: missing %q", ErrCorrupt, k)
		}
		if t := bytes.TrimSpace(v); len(t) == 0 || t[0] != '[' {
			return model.Snapshot{}, fmt.Errorf("%w: %q is not an array", ErrCorrupt, k)
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(v, &elems); err != nil {
			return model.Snapshot{}, fmt.Errorf("%w: decode %s: %v", ErrCorrupt, k, err)
		}
		for i, e := range elems {
			if t := bytes.TrimSpace(e); len(t) == 0 || t[0] != '{' {
				return model.Snapshot{}, fmt.Errorf("%w: %s[%d] is not an object", ErrCorrupt, k, i)
			}
		}
	}

	var s model.Snapshot
	targets := map[string]any{
		keyProjects: &s.Projects,
		keyJudges:   &s.Judges,
		keyCriteria: &s.Criteria,
		keyScores:   &s.Scores,
	}
	for _, k := range documentKeys {
		if err := json.Unmarshal(raw[k], targets[k]); err != nil {
			return model.Snapshot{}, fmt.Errorf("%w: decode %s: %v", ErrCorrupt, k, err)
		}
	}
	if err := checkIDs(s); err != nil {
		return model.Snapshot{}, err
	}
	return s.Normalize(), nil
}

// checkIDs rejects records without an identity.
func checkIDs(s model.Snapshot) error {
	missing := func(k string, i int) error {
		return fmt.Errorf("%w: %s[%d] has no id", ErrCorrupt, k, i)
	}
	for i, p := range s.Projects {
		if p.ID == "" {
			return missing(keyProjects, i)
		}
	}
	for i, j := range s.Judges {
		if j.ID == "" {
			return missing(keyJudges, i)
		}
	}
	for i, c := range s.Criteria {
		if c.ID == "" {
			return missing(keyCriteria, i)
		}
	}
	for i, sc := range s.Scores {
		if sc.ID == "" {
			return missing(keyScores, i)
		}
	}
	return nil
}
