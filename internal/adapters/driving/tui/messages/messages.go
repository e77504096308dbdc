// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// StateChanged is sent when the browser signals a new view state.
// Receivers read the state from the browser itself.
type StateChanged struct{}

// SegmentSelected is sent when a segment is opened from the result list.
type SegmentSelected struct {
	Segment domain.TextSegment
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewCorpus is the search input and segment list.
	ViewCorpus ViewType = iota
	// ViewSegment shows one segment in full.
	ViewSegment
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewCorpus:
		return "corpus"
	case ViewSegment:
		return "segment"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that a search failed.
type ErrorOccurred struct {
	Query domain.SearchQuery
	Err   error
}

// ConfigReloaded is sent after the config file changed on disk.
type ConfigReloaded struct {
	Settings domain.Settings
	Err      error
}

// Quit signals the application should exit.
type Quit struct{}
