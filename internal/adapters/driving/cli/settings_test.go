package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

func TestSettingsCmd_Subcommands(t *testing.T) {
	names := make([]string, 0, 3)
	for _, c := range settingsCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"show", "set", "reset"}, names)
}

func TestSettingsShow_Defaults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Endpoint: http://localhost:8000")
	assert.Contains(t, out, "Timeout: none")
	assert.Contains(t, out, "Rate limit: 10 req/s (burst 5)")
	assert.Contains(t, out, "Debounce: 300ms")
	assert.Contains(t, out, "Initial results: 20")
	assert.Contains(t, out, "Load more step: 50")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_IsDefaultSubcommand(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsShow_CustomValues(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.RequestTimeout = 5 * time.Second
	ts.settings.settings.RateLimit = 0
	ts.settings.settings.DebounceDelay = 150 * time.Millisecond

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Timeout: 5s")
	assert.Contains(t, out, "Rate limit: off")
	assert.Contains(t, out, "Debounce: 150ms")
}

func TestSettingsShow_InvalidConfigWarns(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.getErr = errors.New("settings in config.toml: bad endpoint")

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: settings in config.toml: bad endpoint")
	assert.Contains(t, out, "corpus settings reset")
}

func TestSettingsSet(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings", "set", "browser.debounce_ms", "150")

	require.NoError(t, err)
	assert.Contains(t, out, "browser.debounce_ms set to 150")
	assert.Equal(t, "150", ts.settings.set["browser.debounce_ms"])
}

func TestSettingsSet_RequiresTwoArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "settings", "set", "corpus.endpoint")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestSettingsSet_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.setErr = domain.ErrInvalidInput

	_, err := execute(t, "settings", "set", "nope", "1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "keys: corpus.endpoint, browser.debounce_ms")
}

func TestSettingsReset(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Endpoint = "http://elsewhere:9000"

	out, err := execute(t, "settings", "reset")

	require.NoError(t, err)
	assert.Contains(t, out, "Settings restored to defaults.")
	require.Len(t, ts.settings.saved, 1)
	assert.Equal(t, domain.DefaultSettings(), ts.settings.saved[0])
}

func TestSettingsReset_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.setErr = errors.New("read-only")

	_, err := execute(t, "settings", "reset")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reset settings")
}

func TestSettings_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	SetServices(&Services{})

	_, err := execute(t, "settings")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
