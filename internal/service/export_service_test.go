package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplanhq/dayplan-api/internal/dto"
	"github.com/dayplanhq/dayplan-api/internal/models"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
	"github.com/dayplanhq/dayplan-api/pkg/storage"
)

type exportPlanLookup struct {
	plan *models.Plan
}

func (m *exportPlanLookup) FindByDate(ctx context.Context, userID string, date time.Time) (*models.Plan, error) {
	if m.plan == nil {
		return nil, sql.ErrNoRows
	}
	return m.plan, nil
}

func exportablePlan() *models.Plan {
	return &models.Plan{
		ID:     "p1",
		UserID: "u1",
		Date:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Slots: models.PlanSlots{
			{
				TaskID:    "t1",
				Title:     "Report",
				Category:  "Deep work",
				Start:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
				End:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
				Score:     1.234,
				Reasoning: "morning focus window",
			},
		},
	}
}

func newExportService(t *testing.T, plans *exportPlanLookup) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(plans, store, signer, ExportConfig{}, nil, nil, nil, nil), store
}

func TestExportCSVRoundTrip(t *testing.T) {
	plans := &exportPlanLookup{plan: exportablePlan()}
	svc, _ := newExportService(t, plans)

	resp, err := svc.Export(context.Background(), "u1", "2026-03-02", dto.ExportQuery{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", resp.ContentType)
	assert.True(t, strings.HasPrefix(resp.FileName, "plan_2026-03-02_"))
	assert.True(t, strings.HasSuffix(resp.FileName, ".csv"))
	require.True(t, strings.HasPrefix(resp.DownloadURL, "/api/v1/exports/"))

	token := strings.TrimPrefix(resp.DownloadURL, "/api/v1/exports/")
	planID, relPath, expiresAt, err := svc.ParseToken(token, false)
	require.NoError(t, err)
	assert.Equal(t, "p1", planID)
	assert.True(t, expiresAt.After(time.Now()))

	file, err := svc.Open(relPath)
	require.NoError(t, err)
	defer file.Close()
	content, err := io.ReadAll(file)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "Start,End,Title,Category,Duration (min),Score,Reasoning")
	assert.Contains(t, text, "09:00,10:00,Report,Deep work,60,1.234,morning focus window")
}

func TestExportPDFProducesDocument(t *testing.T) {
	plans := &exportPlanLookup{plan: exportablePlan()}
	svc, store := newExportService(t, plans)

	resp, err := svc.Export(context.Background(), "u1", "2026-03-02", dto.ExportQuery{Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", resp.ContentType)

	file, err := store.Open(resp.FileName)
	require.NoError(t, err)
	defer file.Close()
	header := make([]byte, 5)
	_, err = io.ReadFull(file, header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(header))
}

func TestExportMissingPlan(t *testing.T) {
	svc, _ := newExportService(t, &exportPlanLookup{})

	_, err := svc.Export(context.Background(), "u1", "2026-03-02", dto.ExportQuery{Format: "csv"})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, typed.Code)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportService(t, &exportPlanLookup{plan: exportablePlan()})

	_, err := svc.Export(context.Background(), "u1", "2026-03-02", dto.ExportQuery{Format: "xlsx"})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, typed.Code)
}

func TestExportDefaultsToCSV(t *testing.T) {
	plans := &exportPlanLookup{plan: exportablePlan()}
	svc, _ := newExportService(t, plans)

	resp, err := svc.Export(context.Background(), "u1", "2026-03-02", dto.ExportQuery{})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", resp.ContentType)
	assert.True(t, strings.HasSuffix(resp.FileName, ".csv"))
}

func TestExportCleanupRemovesOldFiles(t *testing.T) {
	plans := &exportPlanLookup{plan: exportablePlan()}
	svc, _ := newExportService(t, plans)

	_, err := svc.Export(context.Background(), "u1", "2026-03-02", dto.ExportQuery{Format: "csv"})
	require.NoError(t, err)

	removed, err := svc.Cleanup(time.Nanosecond)
	require.NoError(t, err)
	assert.NotEmpty(t, removed)
}
