// Package cli provides the cobra command tree for the corpus browser.
package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Options are the global flags shared by every command.
type Options struct {
	// ConfigDir overrides the config directory (default ~/.corpus).
	ConfigDir string

	// Endpoint overrides corpus.endpoint for this invocation.
	Endpoint string

	// Verbose enables debug logging.
	Verbose bool
}

// BrowserFactory creates an incremental search browser that reports
// failures to reporter.
type BrowserFactory func(reporter driven.ErrorReporter) driving.Browser

// Services holds the wired core services the commands use.
type Services struct {
	Search     driving.SearchService
	Settings   driving.SettingsService
	NewBrowser BrowserFactory
	Watcher    driven.ConfigWatcher
}

// Builder wires Services from the global flags.
type Builder func(opts Options) (*Services, error)

var (
	opts Options

	builder    Builder
	servicesMu sync.Mutex
	services   *Services
)

var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Browse and search a text corpus",
	Long: `corpus searches a pre-built text corpus served over HTTP.

Run 'corpus tui' for the interactive browser: results update as you type,
and more segments load on demand. 'corpus search' prints results for
scripts, and 'corpus mcp serve' exposes search to AI assistants.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(opts.Verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "config directory (default ~/.corpus)")
	rootCmd.PersistentFlags().StringVar(&opts.Endpoint, "endpoint", "", "corpus API base URL (overrides config)")
}

// SetBuilder sets the function that wires services on first use.
func SetBuilder(b Builder) {
	servicesMu.Lock()
	defer servicesMu.Unlock()
	builder = b
	services = nil
}

// SetServices installs already wired services.
func SetServices(s *Services) {
	servicesMu.Lock()
	defer servicesMu.Unlock()
	services = s
}

// loadServices returns the wired services, building them on first use.
func loadServices() (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	if services != nil {
		return services, nil
	}
	if builder == nil {
		return nil, errors.New("services not configured")
	}

	s, err := builder(opts)
	if err != nil {
		return nil, err
	}
	services = s
	return services, nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
