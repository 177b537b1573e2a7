package driving

import "github.com/zmcado0/femme-futures-coop/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then config file, then environment.
	Get() (domain.Settings, error)

	// Set stores a single configuration key.
	Set(key, value string) error

	// Value returns the effective value of a single key.
	Value(key string) (string, error)

	// Keys returns every recognised configuration key.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
