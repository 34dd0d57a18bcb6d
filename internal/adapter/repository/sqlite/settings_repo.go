package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

// settingsRepository implements domain.SettingsRepository
type settingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) domain.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the stored settings, or the defaults when none are
// stored yet
func (r *settingsRepository) Get(ctx context.Context) (domain.UserSettings, error) {
	var (
		settings      domain.UserSettings
		theme         string
		notifications int
	)
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT theme_mode, notifications_enabled, language FROM user_settings WHERE id = 1`,
	).Scan(&theme, &notifications, &settings.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultUserSettings(), nil
	}
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	settings.ThemeMode = domain.ThemeMode(theme)
	settings.NotificationsEnabled = notifications != 0
	return settings, nil
}

// Save persists the settings
func (r *settingsRepository) Save(ctx context.Context, settings domain.UserSettings) error {
	notifications := 0
	if settings.NotificationsEnabled {
		notifications = 1
	}
	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO user_settings (id, theme_mode, notifications_enabled, language)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			theme_mode = excluded.theme_mode,
			notifications_enabled = excluded.notifications_enabled,
			language = excluded.language`,
		string(settings.ThemeMode),
		notifications,
		settings.Language,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Reset restores and returns the default settings
func (r *settingsRepository) Reset(ctx context.Context) (domain.UserSettings, error) {
	defaults := domain.DefaultUserSettings()
	if err := r.Save(ctx, defaults); err != nil {
		return domain.UserSettings{}, fmt.Errorf("failed to reset settings: %w", err)
	}
	return defaults, nil
}
