package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dayplanhq/dayplan-api/internal/models"
)

// ModelRepository stores the per-user weight vector.
type ModelRepository struct {
	db *sqlx.DB
}

// NewModelRepository creates a new instance of ModelRepository.
func NewModelRepository(db *sqlx.DB) *ModelRepository {
	return &ModelRepository{db: db}
}

// Get returns the stored model for a user.
func (r *ModelRepository) Get(ctx context.Context, userID string) (*models.UserModel, error) {
	const query = `SELECT user_id, version, weights, feedback_count, updated_at FROM user_models WHERE user_id = $1 LIMIT 1`
	var model models.UserModel
	if err := r.db.GetContext(ctx, &model, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get user model: %w", err)
	}
	return &model, nil
}

// Upsert writes the model row, replacing any previous version.
func (r *ModelRepository) Upsert(ctx context.Context, model *models.UserModel) error {
	model.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO user_models (user_id, version, weights, feedback_count, updated_at)
		VALUES (:user_id, :version, :weights, :feedback_count, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET version = EXCLUDED.version, weights = EXCLUDED.weights, feedback_count = EXCLUDED.feedback_count, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("upsert user model: %w", err)
	}
	return nil
}

// Delete removes the stored model so defaults apply again.
func (r *ModelRepository) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM user_models WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete user model: %w", err)
	}
	return nil
}
