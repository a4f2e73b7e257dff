package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/app/models/dto"
	"github.com/emrekoc/registrar/internal/app/repositories"
	"github.com/emrekoc/registrar/internal/app/services"
	"github.com/emrekoc/registrar/internal/middleware"
	"github.com/emrekoc/registrar/internal/pkg/helpers"
)

// StudentController handles student endpoints.
type StudentController struct {
	studentService  *services.StudentService
	defaultPageSize int
}

// NewStudentController creates a new StudentController.
func NewStudentController(studentService *services.StudentService, defaultPageSize int) *StudentController {
	return &StudentController{studentService: studentService, defaultPageSize: defaultPageSize}
}

// CreateStudent handles student creation.
func (ctl *StudentController) CreateStudent(c *gin.Context) {
	var student models.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data").WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}
	student.ID = 0

	if err := ctl.studentService.CreateStudent(c, &student); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, student)
}

// GetStudent retrieves a student by ID. With ?include=enrollments the
// student's enrollments and their courses are returned in the same response.
func (ctl *StudentController) GetStudent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	withEnrollments := c.Query("include") == "enrollments"

	student, err := ctl.studentService.GetStudent(c, id, withEnrollments)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, student)
}

// ListStudents returns one page of students, filterable by name and sortable
// by lastName, firstName, or enrollmentDate.
func (ctl *StudentController) ListStudents(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c, ctl.defaultPageSize)
	sort, desc := parseSortParams(c)
	filter := repositories.StudentFilter{Search: c.Query("search")}

	students, pagination, err := ctl.studentService.ListStudents(c, filter, sort, desc, page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewPagedResponse(students, pagination))
}

// UpdateStudent applies an edit to a student.
func (ctl *StudentController) UpdateStudent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var student models.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data").WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}
	student.ID = id

	if err := ctl.studentService.UpdateStudent(c, &student); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, student)
}

// DeleteStudent removes a student and all of that student's enrollments.
func (ctl *StudentController) DeleteStudent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.studentService.DeleteStudent(c, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
