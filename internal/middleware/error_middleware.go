package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emrekoc/registrar/internal/app/models/dto"
	"github.com/emrekoc/registrar/internal/pkg/apperrors"
)

// HandleAPIError maps the error taxonomy onto HTTP responses. Every error
// kind keeps enough context for the caller to act: validation failures carry
// the field list, concurrency conflicts carry both value sets.
func HandleAPIError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	var conflictErr *apperrors.ConflictError

	switch {
	case errors.As(err, &validationErr):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails(validationErr.Fields)
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))

	case errors.As(err, &conflictErr):
		detail := dto.NewErrorDetail(dto.ErrorCodeConcurrencyConflict, conflictErr.Error()).
			WithDetails(dto.ConflictDetail{
				Attempted: conflictErr.Attempted,
				Current:   conflictErr.Current,
			})
		c.JSON(http.StatusConflict, dto.NewErrorResponse(detail))

	case apperrors.IsNotFound(err):
		detail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(detail))

	case errors.Is(err, apperrors.ErrDepartmentNameTaken),
		errors.Is(err, apperrors.ErrCourseAlreadyExists),
		errors.Is(err, apperrors.ErrStudentAlreadyEnrolled):
		detail := dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())
		c.JSON(http.StatusConflict, dto.NewErrorResponse(detail))

	case errors.Is(err, apperrors.ErrStorage):
		detail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Storage error, retry the operation")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))

	default:
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
	}
}
