package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayplanhq/dayplan-api/internal/dto"
	"github.com/dayplanhq/dayplan-api/internal/middleware"
	"github.com/dayplanhq/dayplan-api/internal/models"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
	"github.com/dayplanhq/dayplan-api/pkg/response"
)

type scheduleService interface {
	Generate(ctx context.Context, userID string, req dto.GenerateScheduleRequest) (*dto.ScheduleResponse, error)
	GetPlan(ctx context.Context, userID, date string) (*dto.ScheduleResponse, error)
	ListPlans(ctx context.Context, userID string, query dto.PlanListQuery) ([]models.Plan, error)
}

// ScheduleHandler handles plan generation and retrieval endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Generate godoc
// @Summary Generate day plan
// @Description Build (or rebuild) the plan for one day; regeneration replaces the stored plan
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generation payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	res, err := h.service.Generate(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// GetPlan godoc
// @Summary Get plan by date
// @Tags Schedule
// @Produce json
// @Param date path string true "Plan date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/{date} [get]
func (h *ScheduleHandler) GetPlan(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.service.GetPlan(c.Request.Context(), claims.UserID, c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, res.Cached)
	response.JSON(c, http.StatusOK, res, nil, middleware.ExtractMeta(c))
}

// ListPlans godoc
// @Summary List recent plans
// @Tags Schedule
// @Produce json
// @Param limit query int false "Maximum plans returned"
// @Success 200 {object} response.Envelope
// @Router /plans [get]
func (h *ScheduleHandler) ListPlans(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var query dto.PlanListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan query"))
		return
	}

	plans, err := h.service.ListPlans(c.Request.Context(), claims.UserID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, nil)
}
