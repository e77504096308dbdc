// Command corpus browses a text corpus served by the corpus API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/corpusapi"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/core/services"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBuilder(build)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// build wires the services from the config directory and global flags.
func build(opts cli.Options) (*cli.Services, error) {
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(store)

	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("%v; using defaults", err)
		settings = settingsService.GetDefaults()
	}
	if opts.Endpoint != "" {
		settings.Endpoint = opts.Endpoint
	}
	logger.Debug("corpus endpoint %s, debounce %s", settings.Endpoint, settings.DebounceDelay)

	client, err := corpusapi.NewClient(corpusapi.ConfigFromSettings(settings))
	if err != nil {
		return nil, fmt.Errorf("creating corpus client: %w", err)
	}

	return &cli.Services{
		Search:   services.NewSearchService(client),
		Settings: settingsService,
		NewBrowser: func(reporter driven.ErrorReporter) driving.Browser {
			return services.NewBrowser(client, reporter, services.WithDebounceDelay(settings.DebounceDelay))
		},
		Watcher: store,
	}, nil
}
