package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayplanhq/dayplan-api/internal/models"
)

// CatalogRepository stores reusable task templates. Global templates
// have a NULL user id and are visible to everyone.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// List returns global templates plus the user's own, most used first.
func (r *CatalogRepository) List(ctx context.Context, userID string) ([]models.CatalogTemplate, error) {
	const query = `SELECT id, user_id, title, category, estimated_minutes, priority, meal_type, usage_count, created_at FROM catalog_templates WHERE user_id IS NULL OR user_id = $1 ORDER BY usage_count DESC, created_at DESC`
	var templates []models.CatalogTemplate
	if err := r.db.SelectContext(ctx, &templates, query, userID); err != nil {
		return nil, fmt.Errorf("list catalog templates: %w", err)
	}
	return templates, nil
}

// Create inserts a user template.
func (r *CatalogRepository) Create(ctx context.Context, template *models.CatalogTemplate) error {
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	if template.CreatedAt.IsZero() {
		template.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO catalog_templates (id, user_id, title, category, estimated_minutes, priority, meal_type, usage_count, created_at) VALUES (:id, :user_id, :title, :category, :estimated_minutes, :priority, :meal_type, :usage_count, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, template); err != nil {
		return fmt.Errorf("create catalog template: %w", err)
	}
	return nil
}

// IncrementUsage bumps the template's usage counter.
func (r *CatalogRepository) IncrementUsage(ctx context.Context, id string) error {
	const query = `UPDATE catalog_templates SET usage_count = usage_count + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment template usage: %w", err)
	}
	return nil
}
