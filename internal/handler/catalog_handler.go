package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayplanhq/dayplan-api/internal/dto"
	"github.com/dayplanhq/dayplan-api/internal/models"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
	"github.com/dayplanhq/dayplan-api/pkg/response"
)

type catalogService interface {
	List(ctx context.Context, userID string) ([]models.CatalogTemplate, error)
	Create(ctx context.Context, userID string, req dto.CreateTemplateRequest) (*models.CatalogTemplate, error)
	MarkUsed(ctx context.Context, id string)
}

// CatalogHandler handles task template endpoints.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(svc catalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// List godoc
// @Summary List task templates
// @Description Global presets plus the user's own, most used first
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog [get]
func (h *CatalogHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	templates, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates, nil)
}

// Create godoc
// @Summary Create task template
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateTemplateRequest true "Template payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /catalog [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid template payload"))
		return
	}

	template, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, template)
}

// MarkUsed godoc
// @Summary Mark template used
// @Description Bump the usage counter after the template spawned a task
// @Tags Catalog
// @Param id path string true "Template ID"
// @Success 204 {object} response.Envelope
// @Router /catalog/{id}/used [post]
func (h *CatalogHandler) MarkUsed(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	h.service.MarkUsed(c.Request.Context(), c.Param("id"))
	response.NoContent(c)
}
