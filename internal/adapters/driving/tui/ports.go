// Package tui provides an interactive terminal corpus browser.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Browser is the incremental search controller (required).
	Browser driving.Browser

	// Settings reads settings after a config reload (optional).
	Settings driving.SettingsService

	// Errors delivers search failures to the UI (optional).
	Errors *ErrorSink
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(browser driving.Browser, settings driving.SettingsService, errs *ErrorSink) *Ports {
	return &Ports{
		Browser:  browser,
		Settings: settings,
		Errors:   errs,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Browser == nil {
		return ErrMissingBrowser
	}
	return nil
}
