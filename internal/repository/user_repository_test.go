package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplanhq/dayplan-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "profile", "locale", "active", "last_login", "created_at", "updated_at"}).
		AddRow("1", "user@example.com", "hash", "User", string(models.ProfileAdult), "ru", true, now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, full_name, profile, locale, active, last_login, created_at, updated_at FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("user@example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, models.ProfileAdult, user.Profile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserFillsDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{Email: "new@example.com", PasswordHash: "hash", Profile: models.ProfileChild, Locale: "ru", Active: true}
	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRefreshToken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO refresh_tokens").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateRefreshToken(context.Background(), &models.RefreshToken{ID: "1", UserID: "u1", Token: "token", ExpiresAt: time.Now(), CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSettings(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	target := 90
	rows := sqlmock.NewRows([]string{"user_id", "sleep_start", "sleep_end", "work_start", "work_end", "breakfast_offset", "lunch_offset", "dinner_offset", "activity_target_minutes", "updated_at"}).
		AddRow("u1", "22:30", "07:00", "09:00", "18:00", 0, 15, -10, target, now)
	mock.ExpectQuery("SELECT user_id, sleep_start, sleep_end").
		WithArgs("u1").
		WillReturnRows(rows)

	settings, err := repo.GetSettings(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "22:30", settings.SleepStart)
	assert.Equal(t, 15, settings.LunchOffset)
	require.NotNil(t, settings.ActivityTargetMinutes)
	assert.Equal(t, 90, *settings.ActivityTargetMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSettings(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO user_settings").WillReturnResult(sqlmock.NewResult(1, 1))

	settings := &models.UserSettings{UserID: "u1", SleepStart: "23:00", SleepEnd: "07:30", WorkStart: "09:00", WorkEnd: "18:00"}
	err := repo.UpsertSettings(context.Background(), settings)
	require.NoError(t, err)
	assert.False(t, settings.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
