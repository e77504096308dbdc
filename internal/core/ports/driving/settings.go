package driving

import "github.com/custodia-labs/corpus-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, falling back to defaults for unset keys.
	Get() (domain.Settings, error)

	// Save validates and persists settings.
	Save(settings domain.Settings) error

	// Set parses and stores a single setting by its config key.
	Set(key, value string) error

	// Keys lists the supported config keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
