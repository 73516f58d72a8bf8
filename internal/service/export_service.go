package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan-api/internal/dto"
	"github.com/dayplanhq/dayplan-api/internal/models"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
	"github.com/dayplanhq/dayplan-api/pkg/export"
	"github.com/dayplanhq/dayplan-api/pkg/storage"
)

type exportPlanRepository interface {
	FindByDate(ctx context.Context, userID string, date time.Time) (*models.Plan, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders a stored day plan to CSV or PDF, persists the
// artifact, and hands out signed download URLs.
type ExportService struct {
	plans     exportPlanRepository
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(plans exportPlanRepository, fileStore fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, validate *validator.Validate, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		plans:     plans,
		storage:   fileStore,
		csv:       csv,
		pdf:       pdf,
		signer:    signer,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Export renders the user's plan for a day and stores the artifact.
func (s *ExportService) Export(ctx context.Context, userID, dateStr string, query dto.ExportQuery) (*dto.ExportResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query")
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	plan, err := s.plans.FindByDate(ctx, userID, date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no plan for this date")
	}

	dataset := planDataset(plan)
	title := fmt.Sprintf("Day Plan %s", dateStr)

	format := query.Format
	if format == "" {
		format = "csv"
	}

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case "csv":
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case "pdf":
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("plan_%s_%s.%s", dateStr, time.Now().UTC().Format("20060102_150405"), format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(plan.ID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Info("plan exported",
		zap.String("user_id", userID),
		zap.String("date", dateStr),
		zap.String("format", format))

	return &dto.ExportResponse{
		FileName:    filename,
		ContentType: contentType,
		DownloadURL: fmt.Sprintf("%s/exports/%s", prefix, token),
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (planID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func planDataset(plan *models.Plan) export.Dataset {
	headers := []string{"Start", "End", "Title", "Category", "Duration (min)", "Score", "Reasoning"}
	rows := make([]map[string]string, 0, len(plan.Slots))
	for _, slot := range plan.Slots {
		rows = append(rows, map[string]string{
			"Start":          slot.Start.Format("15:04"),
			"End":            slot.End.Format("15:04"),
			"Title":          slot.Title,
			"Category":       slot.Category,
			"Duration (min)": fmt.Sprintf("%d", int(slot.End.Sub(slot.Start)/time.Minute)),
			"Score":          fmt.Sprintf("%.3f", slot.Score),
			"Reasoning":      slot.Reasoning,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
