package dto

import "github.com/dayplanhq/dayplan-api/internal/models"

// GenerateScheduleRequest builds (or rebuilds) one day's plan. With no
// TaskIDs every unarchived task participates.
type GenerateScheduleRequest struct {
	Date    string   `json:"date" validate:"required,datetime=2006-01-02"`
	TaskIDs []string `json:"taskIds" validate:"omitempty,dive,uuid4"`
}

// ScheduleResponse returns the persisted plan together with generation
// metadata.
type ScheduleResponse struct {
	Plan     models.Plan `json:"plan"`
	Cached   bool        `json:"cached"`
	Unplaced []string    `json:"unplaced,omitempty"`
}

// PlanListQuery pages through a user's stored plans, newest first.
type PlanListQuery struct {
	Limit int `form:"limit,default=14" validate:"omitempty,min=1,max=60"`
}

// ExportQuery selects the rendering format for a plan export.
type ExportQuery struct {
	Format string `form:"format,default=csv" validate:"omitempty,oneof=csv pdf"`
}

// ExportResponse points at a rendered export artifact.
type ExportResponse struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	DownloadURL string `json:"downloadUrl"`
	ExpiresAt   string `json:"expiresAt"`
}
