package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trth/performance-api/internal/dto"
	"github.com/trth/performance-api/internal/models"
	"github.com/trth/performance-api/internal/service"
	appErrors "github.com/trth/performance-api/pkg/errors"
	"github.com/trth/performance-api/pkg/response"
)

// OrgHandler wires HTTP endpoints to the organizational settings service.
type OrgHandler struct {
	service *service.OrgService
}

// NewOrgHandler creates a new handler.
func NewOrgHandler(svc *service.OrgService) *OrgHandler {
	return &OrgHandler{service: svc}
}

// List godoc
// @Summary List organizational units
// @Description List one settings list (groups, positions, or teams)
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Param kind path string true "List kind" Enums(group, position, team)
// @Success 200 {object} response.Envelope
// @Router /org/{kind} [get]
func (h *OrgHandler) List(c *gin.Context) {
	units, err := h.service.List(c.Request.Context(), models.OrgUnitKind(c.Param("kind")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, units, nil)
}

// Create godoc
// @Summary Create organizational unit
// @Description Add one entry to a settings list
// @Tags Organization
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "List kind" Enums(group, position, team)
// @Param payload body dto.CreateOrgUnitRequest true "Create payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /org/{kind} [post]
func (h *OrgHandler) Create(c *gin.Context) {
	var req dto.CreateOrgUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	unit, err := h.service.Create(c.Request.Context(), models.OrgUnitKind(c.Param("kind")), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, unit)
}

// Update godoc
// @Summary Update organizational unit
// @Description Rename or reorder a settings entry
// @Tags Organization
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Unit ID"
// @Param payload body dto.UpdateOrgUnitRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /org/units/{id} [put]
func (h *OrgHandler) Update(c *gin.Context) {
	var req dto.UpdateOrgUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	unit, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, unit, nil)
}

// Delete godoc
// @Summary Delete organizational unit
// @Description Remove a settings entry
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Param id path string true "Unit ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /org/units/{id} [delete]
func (h *OrgHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
