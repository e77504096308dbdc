package tui

import (
	"sync"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure ErrorSink implements the interface.
var _ driven.ErrorReporter = (*ErrorSink)(nil)

// defaultSinkSize is how many unread failures are kept.
const defaultSinkSize = 8

// ErrorSink is an ErrorReporter that queues failures for the TUI.
// When the queue is full the oldest unread failure is dropped, so the newest
// one always reaches the view.
type ErrorSink struct {
	mu sync.Mutex
	ch chan messages.ErrorOccurred
}

// NewErrorSink creates a sink holding up to size unread failures.
func NewErrorSink(size int) *ErrorSink {
	if size < 1 {
		size = defaultSinkSize
	}
	return &ErrorSink{ch: make(chan messages.ErrorOccurred, size)}
}

// Report implements driven.ErrorReporter. It never blocks.
func (s *ErrorSink) Report(query domain.SearchQuery, err error) {
	msg := messages.ErrorOccurred{Query: query, Err: err}

	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		select {
		case s.ch <- msg:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// C returns the channel the view listens on.
func (s *ErrorSink) C() <-chan messages.ErrorOccurred {
	return s.ch
}
