package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayplanhq/dayplan-api/internal/models"
)

const planColumns = "id, user_id, date, slots, warnings, generated_at, updated_at"

// PlanRepository stores generated day plans, one row per user and date.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository creates a new instance of PlanRepository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Upsert writes a plan, replacing any existing plan for the same day.
func (r *PlanRepository) Upsert(ctx context.Context, plan *models.Plan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if plan.GeneratedAt.IsZero() {
		plan.GeneratedAt = now
	}
	plan.UpdatedAt = now

	const query = `INSERT INTO plans (id, user_id, date, slots, warnings, generated_at, updated_at)
		VALUES (:id, :user_id, :date, :slots, :warnings, :generated_at, :updated_at)
		ON CONFLICT (user_id, date) DO UPDATE SET slots = EXCLUDED.slots, warnings = EXCLUDED.warnings, generated_at = EXCLUDED.generated_at, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}

// FindByDate returns the user's plan for a given day.
func (r *PlanRepository) FindByDate(ctx context.Context, userID string, date time.Time) (*models.Plan, error) {
	query := fmt.Sprintf("SELECT %s FROM plans WHERE user_id = $1 AND date = $2 LIMIT 1", planColumns)
	var plan models.Plan
	if err := r.db.GetContext(ctx, &plan, query, userID, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find plan by date: %w", err)
	}
	return &plan, nil
}

// FindByID returns one of the user's plans by identifier.
func (r *PlanRepository) FindByID(ctx context.Context, userID, id string) (*models.Plan, error) {
	query := fmt.Sprintf("SELECT %s FROM plans WHERE id = $1 AND user_id = $2 LIMIT 1", planColumns)
	var plan models.Plan
	if err := r.db.GetContext(ctx, &plan, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find plan by id: %w", err)
	}
	return &plan, nil
}

// ListRecent returns the user's newest plans up to the given day,
// most recent first. It feeds habit history into schedule runs.
func (r *PlanRepository) ListRecent(ctx context.Context, userID string, before time.Time, limit int) ([]models.Plan, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf("SELECT %s FROM plans WHERE user_id = $1 AND date < $2 ORDER BY date DESC LIMIT %d", planColumns, limit)
	var plans []models.Plan
	if err := r.db.SelectContext(ctx, &plans, query, userID, before); err != nil {
		return nil, fmt.Errorf("list recent plans: %w", err)
	}
	return plans, nil
}
