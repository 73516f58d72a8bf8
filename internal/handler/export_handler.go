package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dayplanhq/dayplan-api/internal/dto"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
	"github.com/dayplanhq/dayplan-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, userID, date string, query dto.ExportQuery) (*dto.ExportResponse, error)
	ParseToken(token string, allowExpired bool) (planID, relPath string, expiresAt time.Time, err error)
	Open(relPath string) (*os.File, error)
}

// ExportHandler handles plan export and signed download endpoints.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export plan
// @Description Render the day plan to CSV or PDF and return a signed download link
// @Tags Export
// @Produce json
// @Param date path string true "Plan date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/{date}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}

	res, err := h.service.Export(c.Request.Context(), claims.UserID, c.Param("date"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Download godoc
// @Summary Download export
// @Description Serve a rendered export referenced by a signed token
// @Tags Export
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	_, relPath, _, err := h.service.ParseToken(token, false)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link"))
		return
	}

	file, err := h.service.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export no longer available"))
		return
	}
	defer file.Close() //nolint:errcheck

	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".csv":
		contentType = "text/csv"
	case ".pdf":
		contentType = "application/pdf"
	}

	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(relPath))
	c.Header("Content-Type", contentType)
	http.ServeContent(c.Writer, c.Request, filepath.Base(relPath), time.Time{}, file)
}
