package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the corpus endpoint and browser settings.

Settings are stored in config.toml in the config directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting and save it.

Keys:
  corpus.endpoint      API base URL, e.g. http://localhost:8000
  corpus.timeout_ms    Request timeout in milliseconds (0 = none)
  corpus.rate_limit    Requests per second (0 = unlimited)
  corpus.rate_burst    Requests allowed in a burst
  browser.debounce_ms  Delay after the last keystroke before searching`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func settingsServiceOf() (driving.SettingsService, error) {
	svc, err := loadServices()
	if err != nil {
		return nil, err
	}
	if svc.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return svc.Settings, nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settingsService, err := settingsServiceOf()
	if err != nil {
		return err
	}

	settings, getErr := settingsService.Get()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Corpus]")
	cmd.Printf("  Endpoint: %s\n", settings.Endpoint)
	cmd.Printf("  Timeout: %s\n", describeTimeout(settings.RequestTimeout))
	if settings.RateLimit > 0 {
		cmd.Printf("  Rate limit: %g req/s (burst %d)\n", settings.RateLimit, settings.RateBurst)
	} else {
		cmd.Println("  Rate limit: off")
	}
	cmd.Println()

	cmd.Println("[Browser]")
	cmd.Printf("  Debounce: %s\n", settings.DebounceDelay)
	cmd.Printf("  Initial results: %d\n", domain.DefaultWindowSize)
	cmd.Printf("  Load more step: %d\n", domain.LoadMoreStep)
	cmd.Println()

	if getErr != nil {
		cmd.Printf("Warning: %v\n", getErr)
		cmd.Println("Run 'corpus settings set' or 'corpus settings reset' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	settingsService, err := settingsServiceOf()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w (keys: %s)", key, err, strings.Join(settingsService.Keys(), ", "))
	}

	cmd.Printf("%s set to %s\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	settingsService, err := settingsServiceOf()
	if err != nil {
		return err
	}

	if err := settingsService.Save(settingsService.GetDefaults()); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	cmd.Println("Settings restored to defaults.")
	return nil
}

func describeTimeout(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}
