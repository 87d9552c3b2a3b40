package repository

import (
	"errors"

	"github.com/okian/jury/internal/domain/model"
)

// Error kinds reported to metrics.
const (
	kindValidation        = "validation"
	kindNotFound          = "not_found"
	kindUnauthorizedTrack = "unauthorized_track"
	kindInvalidRating     = "invalid_rating"
	kindStorage           = "storage"
	kindOther             = "other"
)

func errorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return kindValidation
	case errors.Is(err, model.ErrNotFound):
		return kindNotFound
	case errors.Is(err, model.ErrUnauthorizedTrack):
		return kindUnauthorizedTrack
	case errors.Is(err, model.ErrInvalidRating):
		return kindInvalidRating
	case errors.Is(err, model.ErrStorage):
		return kindStorage
	default:
		return kindOther
	}
}

func notFound(entity, id string) error {
	return &model.NotFoundError{Entity: entity, ID: id}
}

func duplicate(entity, field, value string) error {
	return &model.ValidationError{Entity: entity, Field: field, Reason: "already exists: \"" + value + "\""}
}
