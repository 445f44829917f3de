package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trth/performance-api/internal/dto"
	"github.com/trth/performance-api/internal/models"
	"github.com/trth/performance-api/internal/service"
	appErrors "github.com/trth/performance-api/pkg/errors"
	"github.com/trth/performance-api/pkg/response"
)

// EmployeeHandler wires HTTP endpoints to the employee service.
type EmployeeHandler struct {
	service *service.EmployeeService
}

// NewEmployeeHandler creates a new handler.
func NewEmployeeHandler(svc *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: svc}
}

// List godoc
// @Summary List employees
// @Description List employees with pagination and filtering
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param group query string false "Group filter"
// @Param team query string false "Team filter"
// @Param position query string false "Position filter"
// @Param employee_type query string false "Employee type filter"
// @Param search query string false "Search term"
// @Success 200 {object} response.Envelope
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	var filter models.EmployeeFilter

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		filter.PageSize = size
	}
	filter.Group = c.Query("group")
	filter.Team = c.Query("team")
	filter.Position = c.Query("position")
	filter.EmployeeType = models.EmployeeType(c.Query("employee_type"))
	filter.Search = c.Query("search")

	employees, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, pagination)
}

// Get godoc
// @Summary Get employee
// @Description Get one employee by code
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param empCode path string true "Employee code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /employees/{empCode} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.service.Get(c.Request.Context(), c.Param("empCode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// Create godoc
// @Summary Create employee
// @Description Register a new organizational record
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateEmployeeRequest true "Create employee payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	employee, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, employee)
}

// Update godoc
// @Summary Update employee
// @Description Apply the provided fields to an employee record
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param empCode path string true "Employee code"
// @Param payload body dto.UpdateEmployeeRequest true "Update employee payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /employees/{empCode} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	employee, err := h.service.Update(c.Request.Context(), c.Param("empCode"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// Delete godoc
// @Summary Delete employee
// @Description Remove an employee record
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param empCode path string true "Employee code"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /employees/{empCode} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("empCode"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Stats godoc
// @Summary Employee stats
// @Description Headcount summary by contract type
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /employees/stats [get]
func (h *EmployeeHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
