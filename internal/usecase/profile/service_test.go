package profile

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserRepository) Login(ctx context.Context, username, password string) (*domain.UserProfile, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserRepository) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSettingsRepository is a mock implementation of SettingsRepository for testing
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (domain.UserSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.UserSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings domain.UserSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) Reset(ctx context.Context) (domain.UserSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.UserSettings), args.Error(1)
}

// MockResetter is a mock implementation of PortfolioResetter for testing
type MockResetter struct {
	mock.Mock
}

func (m *MockResetter) ResetPortfolio(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newTestService(users *MockUserRepository, settings *MockSettingsRepository, resetter *MockResetter) *ProfileService {
	return NewProfileService(users, settings, resetter, zerolog.Nop())
}

func TestUpdateSettings_PersistsValidSettings(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	settingsRepo := new(MockSettingsRepository)
	resetter := new(MockResetter)
	service := newTestService(users, settingsRepo, resetter)

	updated := domain.UserSettings{
		ThemeMode:            domain.ThemeModeDark,
		NotificationsEnabled: false,
		Language:             "ru",
	}
	settingsRepo.On("Save", ctx, updated).Return(nil)

	result, err := service.UpdateSettings(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, updated, result)

	settingsRepo.AssertExpectations(t)
}

func TestUpdateSettings_RejectsInvalidSettings(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	settingsRepo := new(MockSettingsRepository)
	resetter := new(MockResetter)
	service := newTestService(users, settingsRepo, resetter)

	badTheme := domain.UserSettings{ThemeMode: "NEON", Language: "en"}
	_, err := service.UpdateSettings(ctx, badTheme)
	assert.Error(t, err)

	noLanguage := domain.UserSettings{ThemeMode: domain.ThemeModeLight}
	_, err = service.UpdateSettings(ctx, noLanguage)
	assert.Error(t, err)

	settingsRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestResetPortfolio_Delegates(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	settingsRepo := new(MockSettingsRepository)
	resetter := new(MockResetter)
	service := newTestService(users, settingsRepo, resetter)

	resetter.On("ResetPortfolio", ctx).Return(nil)

	require.NoError(t, service.ResetPortfolio(ctx))
	resetter.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	settingsRepo := new(MockSettingsRepository)
	resetter := new(MockResetter)
	service := newTestService(users, settingsRepo, resetter)

	profile := &domain.UserProfile{UserID: "demo123", Username: "trader", LoggedIn: true}
	users.On("Login", ctx, "trader", "secret").Return(profile, nil)

	got, err := service.Login(ctx, "trader", "secret")
	require.NoError(t, err)
	assert.True(t, got.LoggedIn)
	users.AssertExpectations(t)
}

func TestGetUserProfileAndLogout(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	settingsRepo := new(MockSettingsRepository)
	resetter := new(MockResetter)
	service := newTestService(users, settingsRepo, resetter)

	profile := &domain.UserProfile{UserID: "demo123", Username: "DemoUser", LoggedIn: true}
	users.On("GetProfile", ctx).Return(profile, nil)
	users.On("Logout", ctx).Return(nil)

	got, err := service.GetUserProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile, got)

	require.NoError(t, service.Logout(ctx))
	users.AssertExpectations(t)
}
