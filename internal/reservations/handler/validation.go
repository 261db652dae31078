package handler

import (
	"errors"

	"bouncely/internal/reservations/validator"
	apperrors "bouncely/pkg/errors"
)

func validationError(message string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Fields()).WithCause(err)
	}
	return apperrors.Validation(message, nil).WithCause(err)
}
