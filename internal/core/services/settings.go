package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyEndpoint   = "corpus.endpoint"
	KeyTimeoutMS  = "corpus.timeout_ms"
	KeyRateLimit  = "corpus.rate_limit"
	KeyRateBurst  = "corpus.rate_burst"
	KeyDebounceMS = "browser.debounce_ms"
)

var settingKeys = []string{KeyEndpoint, KeyTimeoutMS, KeyRateLimit, KeyRateBurst, KeyDebounceMS}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Unset keys keep their default; a key set to
// a value of the wrong type is an error rather than a silent zero.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings := domain.DefaultSettings()

	if v := strings.TrimSpace(s.configStore.GetString(KeyEndpoint)); v != "" {
		settings.Endpoint = v
	}

	var errs []error
	if ms, ok, err := s.intValue(KeyTimeoutMS); err != nil {
		errs = append(errs, err)
	} else if ok {
		settings.RequestTimeout = time.Duration(ms) * time.Millisecond
	}
	if ms, ok, err := s.intValue(KeyDebounceMS); err != nil {
		errs = append(errs, err)
	} else if ok {
		settings.DebounceDelay = time.Duration(ms) * time.Millisecond
	}
	if n, ok, err := s.intValue(KeyRateBurst); err != nil {
		errs = append(errs, err)
	} else if ok {
		settings.RateBurst = int(n)
	}
	if f, ok, err := s.floatValue(KeyRateLimit); err != nil {
		errs = append(errs, err)
	} else if ok {
		settings.RateLimit = f
	}

	if err := errors.Join(errs...); err != nil {
		return settings, fmt.Errorf("settings in %s: %w", s.configStore.Path(), err)
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("settings in %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// intValue reads an integer key. ok is false when the key is unset.
func (s *SettingsService) intValue(key string) (n int64, ok bool, err error) {
	val, set := s.configStore.Get(key)
	if !set {
		return 0, false, nil
	}
	if n, ok = s.configStore.GetInt(key); !ok {
		return 0, false, fmt.Errorf("%w: %s must be an integer, got %T %v", domain.ErrInvalidInput, key, val, val)
	}
	return n, true, nil
}

// floatValue reads a numeric key. ok is false when the key is unset.
func (s *SettingsService) floatValue(key string) (f float64, ok bool, err error) {
	val, set := s.configStore.Get(key)
	if !set {
		return 0, false, nil
	}
	if f, ok = s.configStore.GetFloat(key); !ok {
		return 0, false, fmt.Errorf("%w: %s must be a number, got %T %v", domain.ErrInvalidInput, key, val, val)
	}
	return f, true, nil
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		KeyEndpoint:   settings.Endpoint,
		KeyTimeoutMS:  settings.RequestTimeout.Milliseconds(),
		KeyDebounceMS: settings.DebounceDelay.Milliseconds(),
		KeyRateLimit:  settings.RateLimit,
		KeyRateBurst:  int64(settings.RateBurst),
	}
	for _, key := range settingKeys {
		if err := s.configStore.Set(key, values[key]); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	return nil
}

// Set parses value for key, validates the resulting settings, and saves it.
func (s *SettingsService) Set(key, value string) error {
	current, err := s.Get()
	if err != nil {
		// Allow repairing a broken config one key at a time.
		current = domain.DefaultSettings()
	}

	value = strings.TrimSpace(value)
	var stored any

	switch key {
	case KeyEndpoint:
		current.Endpoint = strings.TrimRight(value, "/")
		stored = current.Endpoint
	case KeyTimeoutMS, KeyDebounceMS, KeyRateBurst:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		switch key {
		case KeyTimeoutMS:
			current.RequestTimeout = time.Duration(n) * time.Millisecond
		case KeyDebounceMS:
			current.DebounceDelay = time.Duration(n) * time.Millisecond
		default:
			current.RateBurst = int(n)
		}
		stored = n
	case KeyRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		current.RateLimit = f
		stored = f
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := current.Validate(); err != nil {
		return err
	}
	return s.configStore.Set(key, stored)
}

// Keys lists the supported config keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}
