package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/emrekoc/registrar/internal/pkg/apperrors"
)

// validate is the shared validator instance. Struct tags are the single
// source of field-level constraints.
var validate = validator.New()

// Struct validates an entity against its struct tags. On failure it returns
// an *apperrors.ValidationError listing every offending field; the caller is
// expected to short-circuit before any storage access.
func Struct(entity interface{}) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		// Non-struct input is a programming error, not a user error.
		return apperrors.NewStorageError("validate", err)
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewStorageError("validate", err)
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return apperrors.NewValidationError(fields...)
}

// messageFor renders a human-readable message for a single tag violation.
// Values are echoed back so the caller can re-prompt with context.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
