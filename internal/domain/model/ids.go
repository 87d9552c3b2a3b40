package model

import (
	"github.com/google/uuid"
)

// scoreNamespace seeds the name-based identities of scores.
var scoreNamespace = uuid.MustParse("6f1c1c8e-2a53-4f4e-9d74-5b0e1f6a9c21")

// NewID mints a time-ordered identity (UUIDv7). Identities minted by one
// process sort by creation time.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ScoreID derives the identity of the score for a (project, judge, criterion)
// triple. The same triple always yields the same ID.
func ScoreID(projectID, judgeID, criterionID string) string {
	key := projectID + "\x00" + judgeID + "\x00" + criterionID
	return uuid.NewSHA1(scoreNamespace, []byte(key)).String()
}
