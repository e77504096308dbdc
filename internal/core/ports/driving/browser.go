package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// Browser is the incremental search controller behind the corpus browser.
// Rendering layers feed it keystrokes and load-more actions and read ViewState.
type Browser interface {
	// Start dispatches the default query (unfiltered head of the corpus).
	Start()

	// OnInput records raw input text and arms the debounce timer.
	OnInput(raw string)

	// Submit commits text immediately, skipping the debounce delay.
	Submit(text string)

	// LoadMore re-issues the current query with a larger window.
	// It returns false when nothing was issued.
	LoadMore() bool

	// State returns a copy of the current view state.
	State() domain.ViewState

	// Changes is signalled after every visible state change.
	Changes() <-chan struct{}

	// WaitIdle blocks until no request is in flight and returns the state.
	WaitIdle(ctx context.Context) (domain.ViewState, error)

	// SetDebounceDelay changes the delay used by the next keystroke.
	SetDebounceDelay(d time.Duration)

	// Close tears the browser down. No state changes happen afterwards.
	Close()
}
