package service

import (
	apperrors "github.com/utafrali/patatpalace/pkg/errors"
	"github.com/utafrali/patatpalace/pkg/validator"
)

// ValidationFailure reports the first invalid field of a submitted form.
type ValidationFailure struct {
	Field   string
	Message string
}

func (e *ValidationFailure) Error() string {
	return e.Message
}

func (e *ValidationFailure) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// firstFailure converts a validator error into a ValidationFailure for the
// first failing field, using messages to look up the user-facing text.
func firstFailure(err error, messages map[string]string) *ValidationFailure {
	field := ""
	if ve, ok := err.(*validator.ValidationError); ok {
		field = ve.FirstField()
	}
	msg, ok := messages[field]
	if !ok {
		msg = err.Error()
	}
	return &ValidationFailure{Field: field, Message: msg}
}
