package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emrekoc/registrar/internal/app/models"
	"github.com/emrekoc/registrar/internal/app/models/dto"
	"github.com/emrekoc/registrar/internal/app/repositories"
	"github.com/emrekoc/registrar/internal/app/services"
	"github.com/emrekoc/registrar/internal/middleware"
	"github.com/emrekoc/registrar/internal/pkg/helpers"
)

// DepartmentController handles department endpoints. Updates and deletes
// carry the caller's observed rowVersion; a stale token returns 409 with
// both value sets so the caller can choose to discard or overwrite.
type DepartmentController struct {
	departmentService *services.DepartmentService
	defaultPageSize   int
}

// NewDepartmentController creates a new DepartmentController.
func NewDepartmentController(departmentService *services.DepartmentService, defaultPageSize int) *DepartmentController {
	return &DepartmentController{departmentService: departmentService, defaultPageSize: defaultPageSize}
}

// CreateDepartment handles department creation. The response carries the
// store-assigned rowVersion the caller needs for its first edit.
func (ctl *DepartmentController) CreateDepartment(c *gin.Context) {
	var department models.Department
	if err := c.ShouldBindJSON(&department); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid department data").WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}
	department.ID = 0

	if err := ctl.departmentService.CreateDepartment(c, &department); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, department)
}

// GetDepartment retrieves a department with its administrator. With
// ?include=courses the department's courses come back in the same response.
func (ctl *DepartmentController) GetDepartment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	withCourses := c.Query("include") == "courses"

	department, err := ctl.departmentService.GetDepartment(c, id, withCourses)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, department)
}

// ListDepartments returns one page of departments, sortable by name,
// budget, or startDate.
func (ctl *DepartmentController) ListDepartments(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c, ctl.defaultPageSize)
	sort, desc := parseSortParams(c)
	filter := repositories.DepartmentFilter{Search: c.Query("search")}

	departments, pagination, err := ctl.departmentService.ListDepartments(c, filter, sort, desc, page, size)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NewPagedResponse(departments, pagination))
}

// UpdateDepartment saves an edit under the rowVersion in the request body.
// With ?force=true a prior conflict is resolved by overwriting the store's
// current values; this is an explicit caller decision, never automatic.
func (ctl *DepartmentController) UpdateDepartment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var department models.Department
	if err := c.ShouldBindJSON(&department); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid department data").WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}
	department.ID = id

	var err error
	if c.Query("force") == "true" {
		err = ctl.departmentService.OverwriteDepartment(c, &department)
	} else {
		err = ctl.departmentService.UpdateDepartment(c, &department)
	}
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, department)
}

// DeleteDepartment removes a department and its whole course subtree. The
// caller's observed rowVersion is passed as a query parameter; a concurrent
// edit to the department aborts the delete with a conflict.
func (ctl *DepartmentController) DeleteDepartment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rowVersion, err := uuid.Parse(c.Query("rowVersion"))
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid or missing rowVersion parameter")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	if err := ctl.departmentService.DeleteDepartment(c, id, rowVersion); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
