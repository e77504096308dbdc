package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Default settings values.
const (
	DefaultEndpoint      = "http://localhost:8000"
	DefaultDebounceDelay = 300 * time.Millisecond
	DefaultRateLimit     = 10.0
	DefaultRateBurst     = 5
)

// Settings holds the browser configuration.
type Settings struct {
	// Endpoint is the base URL of the corpus API.
	Endpoint string

	// DebounceDelay is how long keystrokes must pause before a search is dispatched.
	DebounceDelay time.Duration

	// RequestTimeout bounds each HTTP request. Zero means no timeout.
	RequestTimeout time.Duration

	// RateLimit is the sustained number of requests per second sent to the endpoint.
	RateLimit float64

	// RateBurst is the maximum burst of requests.
	RateBurst int
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Endpoint:       DefaultEndpoint,
		DebounceDelay:  DefaultDebounceDelay,
		RequestTimeout: 0,
		RateLimit:      DefaultRateLimit,
		RateBurst:      DefaultRateBurst,
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	u, err := url.Parse(s.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: endpoint: %v", ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: endpoint must be http or https, got %q", ErrInvalidInput, s.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: endpoint has no host: %q", ErrInvalidInput, s.Endpoint)
	}
	if s.DebounceDelay < 0 {
		return fmt.Errorf("%w: debounce delay must not be negative", ErrInvalidInput)
	}
	if s.RequestTimeout < 0 {
		return fmt.Errorf("%w: request timeout must not be negative", ErrInvalidInput)
	}
	if s.RateLimit <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidInput)
	}
	if s.RateBurst < 1 {
		return fmt.Errorf("%w: rate burst must be at least 1", ErrInvalidInput)
	}
	return nil
}
