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

// InstructorController handles instructor endpoints. The office assignment
// and taught-course set are edited together with the instructor, mirroring
// the instructor edit page of the source system.
type InstructorController struct {
	instructorService *services.InstructorService
	defaultPageSize   int
}

// NewInstructorController creates a new InstructorController.
func NewInstructorController(instructorService *services.InstructorService, defaultPageSize int) *InstructorController {
	return &InstructorController{instructorService: instructorService, defaultPageSize: defaultPageSize}
}

// instructorFromRequest builds the model and course set from the request.
func instructorFromRequest(req dto.InstructorRequest) (*models.Instructor, []int32) {
	instructor := &models.Instructor{
		LastName:  req.LastName,
		FirstName: req.FirstName,
		HireDate:  req.HireDate,
	}
	if req.OfficeLocation != nil {
		instructor.OfficeAssignment = &models.OfficeAssignment{Location: *req.OfficeLocation}
	}
	return instructor, req.CourseIDs
}

// CreateInstructor handles instructor creation.
func (ctl *InstructorController) CreateInstructor(c *gin.Context) {
	var req dto.InstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid instructor data").WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	instructor, courseIDs := instructorFromRequest(req)
	if err := ctl.instructorService.CreateInstructor(c, instructor, courseIDs); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, instructor)
}

// GetInstructor retrieves an instructor with office assignment and taught
// courses.
func (ctl *InstructorController) GetInstructor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	instructor, err := ctl.instructorService.GetInstructor(c, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, instructor)
}

// ListInstructors returns one page of instructors with office assignments
// and taught courses.
func (ctl *InstructorController) ListInstructors(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c, ctl.defaultPageSize)
	sort, desc := parseSortParams(c)
	filter := repositories.InstructorFilter{Search: c.Query("search")}

	instructors, pagination, err := ctl.instructorService.ListInstructors(c, filter, sort, desc, page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewPagedResponse(instructors, pagination))
}

// UpdateInstructor applies an edit, rewriting the office assignment and
// course set with it.
func (ctl *InstructorController) UpdateInstructor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.InstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid instructor data").WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	instructor, courseIDs := instructorFromRequest(req)
	instructor.ID = id
	if err := ctl.instructorService.UpdateInstructor(c, instructor, courseIDs); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, instructor)
}

// DeleteInstructor removes an instructor; taught courses and administered
// departments survive.
func (ctl *InstructorController) DeleteInstructor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.instructorService.DeleteInstructor(c, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
