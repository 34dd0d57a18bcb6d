package domain

import "time"

// UserProfile represents the demo user shown on the profile screen
type UserProfile struct {
	UserID    string
	Username  string
	Email     string
	LoggedIn  bool
	CreatedAt time.Time
}

// ThemeMode represents the UI theme preference
type ThemeMode string

const (
	ThemeModeLight  ThemeMode = "LIGHT"
	ThemeModeDark   ThemeMode = "DARK"
	ThemeModeSystem ThemeMode = "SYSTEM"
)

// UserSettings holds user preferences persisted across sessions
type UserSettings struct {
	ThemeMode            ThemeMode
	NotificationsEnabled bool
	Language             string
}

// DefaultUserSettings returns the settings applied on first run and
// after a settings reset.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		ThemeMode:            ThemeModeSystem,
		NotificationsEnabled: true,
		Language:             "en",
	}
}
