package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. Every typed error below unwraps to one of these so
// callers can branch with errors.Is and read details with errors.As.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorizedTrack = errors.New("judge not authorized for track")
	ErrInvalidRating     = errors.New("invalid rating")
	ErrStorage           = errors.New("storage failure")
)

// Entity names used in error details.
const (
	EntityProject   = "project"
	EntityJudge     = "judge"
	EntityCriterion = "criterion"
	EntityScore     = "score"
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports an operation on an identity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// UnauthorizedTrackError reports a judge scoring outside their tracks.
type UnauthorizedTrackError struct {
	JudgeID   string
	ProjectID string
	Track     Track
	Allowed   []Track
}

func (e *UnauthorizedTrackError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, t := range e.Allowed {
		allowed[i] = string(t)
	}
	return fmt.Sprintf("judge %q may not score project %q in track %q (allowed: %s)",
		e.JudgeID, e.ProjectID, e.Track, strings.Join(allowed, ", "))
}

func (e *UnauthorizedTrackError) Unwrap() error { return ErrUnauthorizedTrack }

// InvalidRatingError reports a rating outside [MinRating, MaxRating].
type InvalidRatingError struct {
	Value float64
}

func (e *InvalidRatingError) Error() string {
	return fmt.Sprintf("rating %v outside [%v, %v]", e.Value, MinRating, MaxRating)
}

func (e *InvalidRatingError) Unwrap() error { return ErrInvalidRating }

// StorageError reports a failure of the persistence medium.
type StorageError struct {
	Op     string
	Driver string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s (%s): %v", e.Op, e.Driver, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

func invalid(entity, field, reason string) error {
	return &ValidationError{Entity: entity, Field: field, Reason: reason}
}
