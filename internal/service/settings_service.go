package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan-api/internal/dto"
	"github.com/dayplanhq/dayplan-api/internal/models"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
)

type settingsUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	GetSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	UpsertSettings(ctx context.Context, settings *models.UserSettings) error
}

// SettingsService manages the preferences the scheduler builds day
// windows from, plus the profile and locale stored on the account.
type SettingsService struct {
	repo      settingsUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs a SettingsService instance.
func NewSettingsService(repo settingsUserRepository, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SettingsService{repo: repo, validator: validate, logger: logger}
}

// defaultSettings mirror the windows the scheduler assumes when the
// user has never saved preferences.
func defaultSettings(userID string) *models.UserSettings {
	return &models.UserSettings{
		UserID:     userID,
		SleepStart: "22:30",
		SleepEnd:   "07:00",
		WorkStart:  "09:00",
		WorkEnd:    "18:00",
	}
}

// Get returns the stored settings, falling back to defaults.
func (s *SettingsService) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return defaultSettings(userID), nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return settings, nil
}

// Update applies a partial settings update, persisting the full row.
func (s *SettingsService) Update(ctx context.Context, userID string, req dto.UpdateSettingsRequest) (*models.UserSettings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}

	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.SleepStart != nil {
		settings.SleepStart = *req.SleepStart
	}
	if req.SleepEnd != nil {
		settings.SleepEnd = *req.SleepEnd
	}
	if req.WorkStart != nil {
		settings.WorkStart = *req.WorkStart
	}
	if req.WorkEnd != nil {
		settings.WorkEnd = *req.WorkEnd
	}
	if req.BreakfastOffset != nil {
		settings.BreakfastOffset = *req.BreakfastOffset
	}
	if req.LunchOffset != nil {
		settings.LunchOffset = *req.LunchOffset
	}
	if req.DinnerOffset != nil {
		settings.DinnerOffset = *req.DinnerOffset
	}
	if req.ActivityTargetMinutes != nil {
		settings.ActivityTargetMinutes = req.ActivityTargetMinutes
	}

	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store settings")
	}

	if req.Profile != nil || req.Locale != nil {
		user, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
		}
		if req.Profile != nil {
			user.Profile = models.Profile(*req.Profile)
		}
		if req.Locale != nil {
			user.Locale = *req.Locale
		}
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update account")
		}
	}

	s.logger.Info("settings updated", zap.String("user_id", userID))
	return settings, nil
}
