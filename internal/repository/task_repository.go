package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dayplanhq/dayplan-api/internal/models"
)

const taskColumns = "id, user_id, title, description, category, estimated_minutes, priority, deadline, fixed_start, meal_type, min_chunk_minutes, archived, created_at, updated_at"

// TaskRepository provides database access for a user's tasks. Every
// query is scoped by user id.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new instance of TaskRepository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task for the user.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	const query = `INSERT INTO tasks (id, user_id, title, description, category, estimated_minutes, priority, deadline, fixed_start, meal_type, min_chunk_minutes, archived, created_at, updated_at)
		VALUES (:id, :user_id, :title, :description, :category, :estimated_minutes, :priority, :deadline, :fixed_start, :meal_type, :min_chunk_minutes, :archived, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID returns one of the user's tasks by identifier.
func (r *TaskRepository) FindByID(ctx context.Context, userID, id string) (*models.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = $1 AND user_id = $2 LIMIT 1", taskColumns)
	var task models.Task
	if err := r.db.GetContext(ctx, &task, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find task by id: %w", err)
	}
	return &task, nil
}

// FindByIDs returns the user's tasks matching the given ids, keeping
// only rows that exist and belong to the user.
func (r *TaskRepository) FindByIDs(ctx context.Context, userID string, ids []string) ([]models.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM tasks WHERE user_id = ? AND id IN (?)", taskColumns), userID, ids)
	if err != nil {
		return nil, fmt.Errorf("build task id query: %w", err)
	}
	query = r.db.Rebind(query)
	var tasks []models.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("find tasks by ids: %w", err)
	}
	return tasks, nil
}

// List returns the user's tasks with total count.
func (r *TaskRepository) List(ctx context.Context, userID string, filter models.TaskFilter) ([]models.Task, int, error) {
	baseQuery := "FROM tasks WHERE user_id = $1"
	args := []interface{}{userID}
	var conditions []string

	if !filter.IncludeArchived {
		conditions = append(conditions, "archived = FALSE")
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", taskColumns, baseQuery, pageSize, offset)
	var tasks []models.Task
	if err := r.db.SelectContext(ctx, &tasks, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, total, nil
}

// ListActive returns every non-archived task for the user.
func (r *TaskRepository) ListActive(ctx context.Context, userID string) ([]models.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE user_id = $1 AND archived = FALSE ORDER BY created_at ASC", taskColumns)
	var tasks []models.Task
	if err := r.db.SelectContext(ctx, &tasks, query, userID); err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	return tasks, nil
}

// CountActive returns the number of non-archived tasks for the user.
func (r *TaskRepository) CountActive(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND archived = FALSE`
	var total int
	if err := r.db.GetContext(ctx, &total, query, userID); err != nil {
		return 0, fmt.Errorf("count active tasks: %w", err)
	}
	return total, nil
}

// Update writes the full mutable field set of a task.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()
	const query = `UPDATE tasks SET title = :title, description = :description, category = :category, estimated_minutes = :estimated_minutes, priority = :priority, deadline = :deadline, fixed_start = :fixed_start, meal_type = :meal_type, min_chunk_minutes = :min_chunk_minutes, archived = :archived, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	result, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Archive soft-deletes a task so it no longer enters schedule runs.
func (r *TaskRepository) Archive(ctx context.Context, userID, id string) error {
	const query = `UPDATE tasks SET archived = TRUE, updated_at = $3 WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("archive task: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
