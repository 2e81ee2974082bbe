package service

import (
	"errors"
	"log"

	"go-dulceria-api/internal/repository"
	"go-dulceria-api/pkg/apperr"
	"go-dulceria-api/pkg/validator"
)

var ErrInvalidID = apperr.Validation("invalid_id", "Identificador inválido")

// validationError returns nil when req passes its validate tags
func validationError(req interface{}) error {
	if msg := validator.First(req); msg != "" {
		return apperr.Validation("invalid_request", msg)
	}
	return nil
}

// internalError logs the full cause and hands the caller the generic error.
// Classified errors pass through untouched.
func internalError(op string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	log.Printf("%s: %v", op, err)
	return apperr.Internal.Wrap(err)
}

// lookupError maps repository.ErrNotFound to notFound and anything else to an
// internal error.
func lookupError(op string, err error, notFound *apperr.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return internalError(op, err)
}
