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

// CourseController handles course endpoints.
type CourseController struct {
	courseService   *services.CourseService
	defaultPageSize int
}

// NewCourseController creates a new CourseController.
func NewCourseController(courseService *services.CourseService, defaultPageSize int) *CourseController {
	return &CourseController{courseService: courseService, defaultPageSize: defaultPageSize}
}

// CreateCourse handles course creation under a caller-assigned course
// number.
func (ctl *CourseController) CreateCourse(c *gin.Context) {
	var course models.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data").WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	if err := ctl.courseService.CreateCourse(c, &course); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, course)
}

// GetCourse retrieves a course with its department; ?include=instructors
// and ?include=enrollments fetch the related sets in the same response.
func (ctl *CourseController) GetCourse(c *gin.Context) {
	id, ok := parseCourseIDParam(c, "id")
	if !ok {
		return
	}

	var withInstructors, withEnrollments bool
	for _, include := range c.QueryArray("include") {
		switch include {
		case "instructors":
			withInstructors = true
		case "enrollments":
			withEnrollments = true
		}
	}

	course, err := ctl.courseService.GetCourse(c, id, withInstructors, withEnrollments)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, course)
}

// ListCourses returns one page of courses, filterable by department.
func (ctl *CourseController) ListCourses(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c, ctl.defaultPageSize)
	sort, desc := parseSortParams(c)

	filter := repositories.CourseFilter{Search: c.Query("search")}
	if raw := c.Query("departmentId"); raw != "" {
		departmentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || departmentID <= 0 {
			detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid departmentId parameter")
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
			return
		}
		filter.DepartmentID = &departmentID
	}

	courses, pagination, err := ctl.courseService.ListCourses(c, filter, sort, desc, page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewPagedResponse(courses, pagination))
}

// UpdateCourse applies an edit to a course. The course number itself cannot
// change.
func (ctl *CourseController) UpdateCourse(c *gin.Context) {
	id, ok := parseCourseIDParam(c, "id")
	if !ok {
		return
	}

	var course models.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data").WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}
	course.ID = id

	if err := ctl.courseService.UpdateCourse(c, &course); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, course)
}

// DeleteCourse removes a course, its enrollments, and its instructor
// assignments.
func (ctl *CourseController) DeleteCourse(c *gin.Context) {
	id, ok := parseCourseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.courseService.DeleteCourse(c, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetCourseInstructors replaces the instructor set teaching a course.
func (ctl *CourseController) SetCourseInstructors(c *gin.Context) {
	id, ok := parseCourseIDParam(c, "id")
	if !ok {
		return
	}

	var body struct {
		InstructorIDs []int64 `json:"instructorIds"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid instructor list").WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	if err := ctl.courseService.SetCourseInstructors(c, id, body.InstructorIDs); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
