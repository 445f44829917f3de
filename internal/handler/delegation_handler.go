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

// DelegationHandler wires HTTP endpoints to the delegation service.
type DelegationHandler struct {
	service *service.DelegationService
}

// NewDelegationHandler creates a new handler.
func NewDelegationHandler(svc *service.DelegationService) *DelegationHandler {
	return &DelegationHandler{service: svc}
}

// List godoc
// @Summary List delegations
// @Description List permission grants with filtering
// @Tags Delegations
// @Produce json
// @Security BearerAuth
// @Param delegatee_id query string false "Delegatee filter"
// @Param permission query string false "Permission filter"
// @Param active query bool false "Active filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /delegations [get]
func (h *DelegationHandler) List(c *gin.Context) {
	var filter models.DelegationFilter
	filter.DelegateeID = c.Query("delegatee_id")
	filter.Permission = models.DelegationPermission(c.Query("permission"))
	if active := c.Query("active"); active != "" {
		if val, err := strconv.ParseBool(active); err == nil {
			filter.IsActive = &val
		}
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}

	delegations, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, delegations, nil)
}

// Get godoc
// @Summary Get delegation
// @Description Get one permission grant
// @Tags Delegations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Delegation ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /delegations/{id} [get]
func (h *DelegationHandler) Get(c *gin.Context) {
	delegation, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, delegation, nil)
}

// Create godoc
// @Summary Create delegation
// @Description Grant a permission to an employee for a date window
// @Tags Delegations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateDelegationRequest true "Create delegation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /delegations [post]
func (h *DelegationHandler) Create(c *gin.Context) {
	var req dto.CreateDelegationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	delegation, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, delegation)
}

// Update godoc
// @Summary Update delegation
// @Description Adjust a grant's window, reason, or active flag
// @Tags Delegations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Delegation ID"
// @Param payload body dto.UpdateDelegationRequest true "Update delegation payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /delegations/{id} [put]
func (h *DelegationHandler) Update(c *gin.Context) {
	var req dto.UpdateDelegationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	delegation, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, delegation, nil)
}

// Revoke godoc
// @Summary Revoke delegation
// @Description Deactivate a grant immediately
// @Tags Delegations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Delegation ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /delegations/{id} [delete]
func (h *DelegationHandler) Revoke(c *gin.Context) {
	if err := h.service.Revoke(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Check godoc
// @Summary Check permission
// @Description Report whether the caller currently holds a permission
// @Tags Delegations
// @Produce json
// @Security BearerAuth
// @Param permission query string true "Permission"
// @Success 200 {object} response.Envelope
// @Router /delegations/check [get]
func (h *DelegationHandler) Check(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	permission := models.DelegationPermission(c.Query("permission"))
	granted := claims.IsAdmin || h.service.HasPermission(c.Request.Context(), claims.EmpCode, permission)
	response.JSON(c, http.StatusOK, gin.H{"permission": permission, "granted": granted}, nil)
}
