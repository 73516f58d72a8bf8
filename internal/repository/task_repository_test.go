package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplanhq/dayplan-api/internal/models"
)

func taskRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "title", "description", "category", "estimated_minutes", "priority", "deadline", "fixed_start", "meal_type", "min_chunk_minutes", "archived", "created_at", "updated_at"}).
		AddRow("t1", "u1", "Отчет", "", "Deep work", 120, 0.9, now.Add(8*time.Hour), nil, "", 0, false, now, now)
}

func TestCreateTask(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec("INSERT INTO tasks").WillReturnResult(sqlmock.NewResult(1, 1))

	task := &models.Task{UserID: "u1", Title: "Отчет", Category: "Deep work", EstimatedMinutes: 120, Priority: 0.9}
	err := repo.Create(context.Background(), task)
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindTaskScopedByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectQuery("SELECT .* FROM tasks WHERE id = .* AND user_id = .*").
		WithArgs("t1", "u1").
		WillReturnRows(taskRows(time.Now()))

	task, err := repo.FindByID(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Отчет", task.Title)

	mock.ExpectQuery("SELECT .* FROM tasks WHERE id = .* AND user_id = .*").
		WithArgs("t1", "other").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.FindByID(context.Background(), "other", "t1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTasksFiltersArchived(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE user_id = $1 AND archived = FALSE ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("u1").
		WillReturnRows(taskRows(now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND archived = FALSE")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	tasks, total, err := repo.List(context.Background(), "u1", models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTasksByCategory(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE user_id = $1 AND archived = FALSE AND category = $2 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("u1", "Deep work").
		WillReturnRows(taskRows(now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("u1", "Deep work").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	tasks, total, err := repo.List(context.Background(), "u1", models.TaskFilter{Category: "Deep work"})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTaskMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec("UPDATE tasks SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Task{ID: "missing", UserID: "u1", Title: "x"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveTask(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec("UPDATE tasks SET archived = TRUE").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Archive(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountActiveTasks(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND archived = FALSE")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	total, err := repo.CountActive(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
