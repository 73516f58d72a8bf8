package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplanhq/dayplan-api/internal/models"
)

func TestUpsertPlan(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	mock.ExpectExec("INSERT INTO plans").WillReturnResult(sqlmock.NewResult(1, 1))

	plan := &models.Plan{
		UserID: "u1",
		Date:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Slots: models.PlanSlots{{
			TaskID: "t1", Title: "Отчет", Category: "Deep work",
			Start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
		}},
		Warnings: models.StringList{},
	}
	err := repo.Upsert(context.Background(), plan)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	assert.False(t, plan.GeneratedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindPlanByDateDecodesSlots(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots, err := json.Marshal(models.PlanSlots{{TaskID: "t1", Title: "Отчет", Score: 1.2}})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "user_id", "date", "slots", "warnings", "generated_at", "updated_at"}).
		AddRow("p1", "u1", date, slots, []byte(`["could not schedule \"Звонок\""]`), date, date)
	mock.ExpectQuery("SELECT .* FROM plans WHERE user_id = .* AND date = .*").
		WithArgs("u1", date).
		WillReturnRows(rows)

	plan, err := repo.FindByDate(context.Background(), "u1", date)
	require.NoError(t, err)
	require.Len(t, plan.Slots, 1)
	assert.Equal(t, "Отчет", plan.Slots[0].Title)
	require.Len(t, plan.Warnings, 1)
	assert.Contains(t, plan.Warnings[0], "Звонок")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecentPlans(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "date", "slots", "warnings", "generated_at", "updated_at"}).
		AddRow("p1", "u1", date.AddDate(0, 0, -1), []byte(`[]`), []byte(`[]`), date, date).
		AddRow("p2", "u1", date.AddDate(0, 0, -2), []byte(`[]`), []byte(`[]`), date, date)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY date DESC LIMIT 5")).
		WithArgs("u1", date).
		WillReturnRows(rows)

	plans, err := repo.ListRecent(context.Background(), "u1", date, 5)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
