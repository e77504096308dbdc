package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "http://localhost:8000", s.Endpoint)
	assert.Equal(t, 300*time.Millisecond, s.DebounceDelay)
	assert.Zero(t, s.RequestTimeout)
	assert.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"bad scheme", func(s *Settings) { s.Endpoint = "ftp://corpus" }},
		{"no host", func(s *Settings) { s.Endpoint = "http://" }},
		{"unparsable", func(s *Settings) { s.Endpoint = "http://[::1" }},
		{"negative debounce", func(s *Settings) { s.DebounceDelay = -time.Second }},
		{"negative timeout", func(s *Settings) { s.RequestTimeout = -time.Second }},
		{"zero rate", func(s *Settings) { s.RateLimit = 0 }},
		{"zero burst", func(s *Settings) { s.RateBurst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)

			err := s.Validate()

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestSettings_ValidateAllowsZeroDebounce(t *testing.T) {
	s := DefaultSettings()
	s.DebounceDelay = 0
	s.Endpoint = "https://corpus.example.org/api"

	assert.NoError(t, s.Validate())
}
