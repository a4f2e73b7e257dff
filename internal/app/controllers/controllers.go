package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emrekoc/registrar/internal/app/models/dto"
)

// parseIDParam reads a positive int64 path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}

// parseCourseIDParam reads a course number path parameter.
func parseCourseIDParam(c *gin.Context, name string) (int32, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return int32(id), true
}

// parseSortParams reads sort/order query parameters.
func parseSortParams(c *gin.Context) (sort string, desc bool) {
	sort = c.Query("sort")
	desc = c.DefaultQuery("order", "asc") == "desc"
	return sort, desc
}

// respond writes the standard success envelope.
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.APIResponse{Data: data, Timestamp: time.Now()})
}
