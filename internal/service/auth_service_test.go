package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dayplanhq/dayplan-api/internal/dto"
	"github.com/dayplanhq/dayplan-api/internal/models"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
)

type mockAuthRepo struct {
	usersByEmail     map[string]*models.User
	usersByID        map[string]*models.User
	refreshTokens    map[string]*models.RefreshToken
	lastLoginUpdated bool
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{
		usersByEmail:  make(map[string]*models.User),
		usersByID:     make(map[string]*models.User),
		refreshTokens: make(map[string]*models.RefreshToken),
	}
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "u-" + user.Email
	}
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for _, token := range m.refreshTokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	m.refreshTokens[token.Token] = token
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := m.refreshTokens[token]; ok {
		return stored, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, token := range m.refreshTokens {
		if token.ID == id {
			token.Revoked = true
			token.RevokedAt = &revokedAt
		}
	}
	return nil
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "dayplan",
	})
}

func seedUser(repo *mockAuthRepo, password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &models.User{
		ID:           "u1",
		Email:        "user@example.com",
		PasswordHash: string(hash),
		FullName:     "User",
		Profile:      models.ProfileAdult,
		Locale:       "ru",
		Active:       true,
	}
	repo.usersByEmail[user.Email] = user
	repo.usersByID[user.ID] = user
	return user
}

func TestRegisterCreatesAccountAndSignsIn(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newAuthService(repo)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "new@example.com",
		Password: "secret1",
		FullName: "New User",
		Profile:  "child-school-age",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.ProfileChild, resp.User.Profile)
	assert.Equal(t, "ru", resp.User.Locale)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, models.ProfileChild, claims.Profile)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockAuthRepo()
	seedUser(repo, "secret1")
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "user@example.com",
		Password: "secret1",
		FullName: "Dup",
	})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrEmailTaken.Code, typed.Code)
}

func TestLoginSuccess(t *testing.T) {
	repo := newMockAuthRepo()
	seedUser(repo, "secret1")
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "user@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.True(t, repo.lastLoginUpdated)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMockAuthRepo()
	seedUser(repo, "secret1")
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "user@example.com", Password: "wrong"})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, typed.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newMockAuthRepo()
	user := seedUser(repo, "secret1")
	user.Active = false
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "user@example.com", Password: "secret1"})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, typed.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newMockAuthRepo()
	seedUser(repo, "secret1")
	svc := newAuthService(repo)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: "user@example.com", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.True(t, repo.refreshTokens[login.RefreshToken].Revoked)

	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err, "used token must not be reusable")
}

func TestLogoutRevokesToken(t *testing.T) {
	repo := newMockAuthRepo()
	seedUser(repo, "secret1")
	svc := newAuthService(repo)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: "user@example.com", Password: "secret1"})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), "u1", dto.LogoutRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.True(t, repo.refreshTokens[login.RefreshToken].Revoked)

	err = svc.Logout(context.Background(), "someone-else", dto.LogoutRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(newMockAuthRepo())
	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
