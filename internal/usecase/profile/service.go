package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

// PortfolioResetter restores the portfolio to its initial state. The
// profile screen offers the reset action, so the service depends on
// this narrow capability rather than the whole portfolio service.
type PortfolioResetter interface {
	ResetPortfolio(ctx context.Context) error
}

// ProfileService handles the profile screen's operations: user profile,
// settings and the demo-account reset.
type ProfileService struct {
	UserRepo     domain.UserRepository
	SettingsRepo domain.SettingsRepository
	Resetter     PortfolioResetter

	log zerolog.Logger
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(
	userRepo domain.UserRepository,
	settingsRepo domain.SettingsRepository,
	resetter PortfolioResetter,
	log zerolog.Logger,
) *ProfileService {
	return &ProfileService{
		UserRepo:     userRepo,
		SettingsRepo: settingsRepo,
		Resetter:     resetter,
		log:          log.With().Str("service", "profile").Logger(),
	}
}

// GetUserProfile returns the current user profile
func (s *ProfileService) GetUserProfile(ctx context.Context) (*domain.UserProfile, error) {
	return s.UserRepo.GetProfile(ctx)
}

// Login authenticates the demo user and returns the updated profile
func (s *ProfileService) Login(ctx context.Context, username, password string) (*domain.UserProfile, error) {
	userProfile, err := s.UserRepo.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	s.log.Info().Str("username", userProfile.Username).Msg("User logged in")
	return userProfile, nil
}

// Logout marks the user as logged out
func (s *ProfileService) Logout(ctx context.Context) error {
	if err := s.UserRepo.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	s.log.Info().Msg("User logged out")
	return nil
}

// GetUserSettings returns the stored settings, or the defaults when
// none are stored yet
func (s *ProfileService) GetUserSettings(ctx context.Context) (domain.UserSettings, error) {
	return s.SettingsRepo.Get(ctx)
}

// UpdateSettings validates and persists the settings
func (s *ProfileService) UpdateSettings(ctx context.Context, settings domain.UserSettings) (domain.UserSettings, error) {
	switch settings.ThemeMode {
	case domain.ThemeModeLight, domain.ThemeModeDark, domain.ThemeModeSystem:
	default:
		return domain.UserSettings{}, errors.New("theme mode must be LIGHT, DARK or SYSTEM")
	}
	if settings.Language == "" {
		return domain.UserSettings{}, errors.New("language cannot be empty")
	}

	if err := s.SettingsRepo.Save(ctx, settings); err != nil {
		return domain.UserSettings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}

// ResetSettings restores the default settings
func (s *ProfileService) ResetSettings(ctx context.Context) (domain.UserSettings, error) {
	return s.SettingsRepo.Reset(ctx)
}

// ResetPortfolio restores the demo account to its initial state
func (s *ProfileService) ResetPortfolio(ctx context.Context) error {
	return s.Resetter.ResetPortfolio(ctx)
}
