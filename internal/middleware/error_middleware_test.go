package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emrekoc/registrar/internal/app/models/dto"
	"github.com/emrekoc/registrar/internal/pkg/apperrors"
)

func handle(t *testing.T, err error) (int, *dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, &body
}

func TestHandleAPIError_ValidationFailed(t *testing.T) {
	err := apperrors.NewValidationError(apperrors.FieldError{Field: "Credits", Message: "must be 5 or less"})

	status, body := handle(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrorCodeValidationFailed, body.Error.Code)
	assert.NotNil(t, body.Error.Details, "field list must be carried in details")
}

func TestHandleAPIError_ConcurrencyConflict(t *testing.T) {
	err := apperrors.NewConflictError("department",
		map[string]any{"budget": 120000},
		map[string]any{"budget": 110000})

	status, body := handle(t, err)
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrorCodeConcurrencyConflict, body.Error.Code)

	details, ok := body.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "attempted")
	assert.Contains(t, details, "current")
}

func TestHandleAPIError_NotFound(t *testing.T) {
	for _, err := range []error{
		apperrors.ErrStudentNotFound,
		apperrors.ErrDepartmentNotFound,
		apperrors.ErrCourseNotFound,
	} {
		status, body := handle(t, err)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, dto.ErrorCodeResourceNotFound, body.Error.Code)
	}
}

func TestHandleAPIError_UniquenessViolations(t *testing.T) {
	for _, err := range []error{
		apperrors.ErrDepartmentNameTaken,
		apperrors.ErrCourseAlreadyExists,
		apperrors.ErrStudentAlreadyEnrolled,
	} {
		status, body := handle(t, err)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, body.Error.Code)
	}
}

func TestHandleAPIError_StorageError(t *testing.T) {
	err := apperrors.NewStorageError("list students", errors.New("connection reset"))

	status, body := handle(t, err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, dto.ErrorCodeDatabaseError, body.Error.Code)
	// The underlying fault stays out of the response body.
	assert.NotContains(t, body.Error.Message, "connection reset")
}

func TestHandleAPIError_UnknownError(t *testing.T) {
	status, body := handle(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, dto.ErrorCodeInternalServer, body.Error.Code)
}
