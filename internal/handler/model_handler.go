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

type modelService interface {
	SubmitFeedback(ctx context.Context, userID string, profile models.Profile, req dto.SubmitFeedbackRequest) (*dto.ModelResponse, error)
	GetModel(ctx context.Context, userID string, profile models.Profile) (*dto.ModelResponse, error)
	Reset(ctx context.Context, userID string) error
}

// ModelHandler handles feedback and learned model endpoints.
type ModelHandler struct {
	service modelService
}

// NewModelHandler constructs a model handler.
func NewModelHandler(svc modelService) *ModelHandler {
	return &ModelHandler{service: svc}
}

// SubmitFeedback godoc
// @Summary Submit slot feedback
// @Description Record whether a scheduled slot was kept or moved; feeds the learner
// @Tags Model
// @Accept json
// @Produce json
// @Param payload body dto.SubmitFeedbackRequest true "Feedback payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /feedback [post]
func (h *ModelHandler) SubmitFeedback(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}

	res, err := h.service.SubmitFeedback(c.Request.Context(), claims.UserID, claims.Profile, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// GetModel godoc
// @Summary Get learned model state
// @Tags Model
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /model [get]
func (h *ModelHandler) GetModel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.service.GetModel(c.Request.Context(), claims.UserID, claims.Profile)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Reset godoc
// @Summary Reset learned model
// @Description Discard learned weights so profile defaults apply again
// @Tags Model
// @Success 204 {object} response.Envelope
// @Router /model [delete]
func (h *ModelHandler) Reset(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Reset(c.Request.Context(), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
