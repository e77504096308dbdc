package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive corpus browser",
	Long: `Launch the interactive terminal browser for the corpus.

Results update as you type, 300ms after the last keystroke. Editing the
config file while the browser runs applies the new debounce delay.

Controls:
  (type)       - Search
  Enter        - Search now / open segment
  Tab, /       - Switch between search box and results
  ↑/k, ↓/j     - Navigate results
  m, Ctrl+L    - Load 50 more
  Esc          - Back / clear
  ?            - Help
  q, Ctrl+C    - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.NewBrowser == nil {
		return errors.New("browser not configured")
	}

	ctx, cancel := context.WithCancel(contextOf(cmd))
	defer cancel()

	// Failures go to the UI; stderr would corrupt the alt screen.
	sink := tui.NewErrorSink(0)
	browser := svc.NewBrowser(sink)
	defer browser.Close()

	app, err := tui.NewApp(tui.NewPorts(browser, svc.Settings, sink))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	p := app.Program()
	if svc.Watcher != nil {
		go watchConfig(ctx, svc.Watcher, svc.Settings, p)
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// watchConfig forwards config file changes to the running program.
func watchConfig(ctx context.Context, watcher driven.ConfigWatcher, settings driving.SettingsService, p *tea.Program) {
	err := watcher.Watch(ctx, func() {
		p.Send(reloadMessage(settings))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Debug("config watch stopped: %v", err)
	}
}

// reloadMessage reads the settings after a config change.
func reloadMessage(settings driving.SettingsService) messages.ConfigReloaded {
	if settings == nil {
		return messages.ConfigReloaded{Err: errors.New("settings service not configured")}
	}
	s, err := settings.Get()
	return messages.ConfigReloaded{Settings: s, Err: err}
}

// contextOf returns the command context, or Background when unset.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
