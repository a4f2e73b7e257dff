package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/app/models/dto"
	"github.com/emrekoc/registrar/internal/app/repositories"
	"github.com/emrekoc/registrar/internal/app/services"
	"github.com/emrekoc/registrar/internal/middleware"
	"github.com/emrekoc/registrar/internal/pkg/helpers"
)

// EnrollmentController handles enrollment endpoints.
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
	defaultPageSize   int
}

// NewEnrollmentController creates a new EnrollmentController.
func NewEnrollmentController(enrollmentService *services.EnrollmentService, defaultPageSize int) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService, defaultPageSize: defaultPageSize}
}

// CreateEnrollment enrolls a student in a course. The grade starts empty
// unless supplied.
func (ctl *EnrollmentController) CreateEnrollment(c *gin.Context) {
	var enrollment models.Enrollment
	if err := c.ShouldBindJSON(&enrollment); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment data").WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	enrollment.ID = 0
	if err := ctl.enrollmentService.CreateEnrollment(c, &enrollment); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, enrollment)
}

// GetEnrollment retrieves a single enrollment with its student and course.
func (ctl *EnrollmentController) GetEnrollment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	enrollment, err := ctl.enrollmentService.GetEnrollment(c, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, enrollment)
}

// ListEnrollments returns one page of enrollments, optionally filtered by
// course or student.
func (ctl *EnrollmentController) ListEnrollments(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c, ctl.defaultPageSize)
	sort, desc := parseSortParams(c)

	var filter repositories.EnrollmentFilter
	if raw := c.Query("courseId"); raw != "" {
		courseID, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid courseId filter")
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
			return
		}
		id32 := int32(courseID)
		filter.CourseID = &id32
	}
	if raw := c.Query("studentId"); raw != "" {
		studentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid studentId filter")
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
			return
		}
		filter.StudentID = &studentID
	}

	enrollments, pagination, err := ctl.enrollmentService.ListEnrollments(c, filter, sort, desc, page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewPagedResponse(enrollments, pagination))
}

// UpdateEnrollment changes the grade of an enrollment. The course and
// student bindings are fixed at creation.
func (ctl *EnrollmentController) UpdateEnrollment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var enrollment models.Enrollment
	if err := c.ShouldBindJSON(&enrollment); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment data").WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	enrollment.ID = id
	if err := ctl.enrollmentService.UpdateEnrollment(c, &enrollment); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, enrollment)
}

// DeleteEnrollment removes an enrollment.
func (ctl *EnrollmentController) DeleteEnrollment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.enrollmentService.DeleteEnrollment(c, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
