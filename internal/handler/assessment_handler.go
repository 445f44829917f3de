package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trth/performance-api/internal/dto"
	"github.com/trth/performance-api/internal/models"
	"github.com/trth/performance-api/internal/service"
	appErrors "github.com/trth/performance-api/pkg/errors"
	"github.com/trth/performance-api/pkg/response"
)

// AssessmentHandler wires HTTP endpoints to the assessment and response
// services.
type AssessmentHandler struct {
	assessments *service.AssessmentService
	responses   *service.ResponseService
	metrics     *service.MetricsService
}

// NewAssessmentHandler creates a new handler.
func NewAssessmentHandler(assessments *service.AssessmentService, responses *service.ResponseService, metrics *service.MetricsService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments, responses: responses, metrics: metrics}
}

// List godoc
// @Summary List assessments
// @Description List assessments with pagination and filtering
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param employee_id query string false "Employee code filter"
// @Param status query string false "Comma-separated status filter"
// @Param category query string false "Category filter"
// @Param search query string false "Search term"
// @Success 200 {object} response.Envelope
// @Router /assessments [get]
func (h *AssessmentHandler) List(c *gin.Context) {
	var filter models.AssessmentFilter

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		filter.PageSize = size
	}
	filter.EmployeeID = c.Query("employee_id")
	filter.AssessorID = c.Query("assessor_id")
	filter.Category = models.AssessmentCategory(c.Query("category"))
	filter.Search = c.Query("search")
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Status = append(filter.Status, models.AssessmentStatus(strings.TrimSpace(s)))
		}
	}

	assessments, pagination, err := h.assessments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assessments, pagination)
}

// Get godoc
// @Summary Get assessment
// @Description Get assessment detail
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assessment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assessments/{id} [get]
func (h *AssessmentHandler) Get(c *gin.Context) {
	assessment, err := h.assessments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assessment, nil)
}

// Create godoc
// @Summary Create assessment
// @Description Start a new review cycle in DRAFT
// @Tags Assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateAssessmentRequest true "Create assessment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /assessments [post]
func (h *AssessmentHandler) Create(c *gin.Context) {
	var req dto.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assessment, err := h.assessments.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assessment)
}

// Decide godoc
// @Summary Approve or reject an assessment
// @Description Apply a reviewer decision, advancing or terminating the workflow
// @Tags Assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assessment ID"
// @Param payload body dto.ApproveRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /assessments/{id}/decision [post]
func (h *AssessmentHandler) Decide(c *gin.Context) {
	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.assessments.Decide(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.ObserveTransition(result.Status)
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete assessment
// @Description Remove an assessment and its responses
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assessment ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /assessments/{id} [delete]
func (h *AssessmentHandler) Delete(c *gin.Context) {
	if err := h.assessments.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Summary godoc
// @Summary Assessment summary
// @Description Aggregate workflow status counts and the average final score
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /assessments/summary [get]
func (h *AssessmentHandler) Summary(c *gin.Context) {
	summary, err := h.assessments.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ListResponses godoc
// @Summary List responses
// @Description List per-question responses for an assessment
// @Tags Assessments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assessment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assessments/{id}/responses [get]
func (h *AssessmentHandler) ListResponses(c *gin.Context) {
	responses, err := h.responses.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, responses, nil)
}

// SaveResponses godoc
// @Summary Save responses
// @Description Merge a batch of per-question answers for the acting role
// @Tags Assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assessment ID"
// @Param payload body dto.SaveResponsesRequest true "Responses payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assessments/{id}/responses [put]
func (h *AssessmentHandler) SaveResponses(c *gin.Context) {
	var req dto.SaveResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.responses.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
