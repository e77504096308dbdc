// Package notify provides ErrorReporter implementations that surface failed
// searches to the user.
package notify

import (
	"errors"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Ensure reporters implement the interface.
var (
	_ driven.ErrorReporter = LogReporter{}
	_ driven.ErrorReporter = Func(nil)
	_ driven.ErrorReporter = Multi(nil)
)

// LogReporter writes failures to the log regardless of verbose mode.
type LogReporter struct{}

// Report implements driven.ErrorReporter.
func (LogReporter) Report(query domain.SearchQuery, err error) {
	logger.Error("search %s failed: %s", query, Describe(err))
}

// Func adapts a function to driven.ErrorReporter.
type Func func(query domain.SearchQuery, err error)

// Report implements driven.ErrorReporter.
func (f Func) Report(query domain.SearchQuery, err error) {
	if f != nil {
		f(query, err)
	}
}

// Multi fans a report out to several reporters, in order.
type Multi []driven.ErrorReporter

// Report implements driven.ErrorReporter.
func (m Multi) Report(query domain.SearchQuery, err error) {
	for _, r := range m {
		if r != nil {
			r.Report(query, err)
		}
	}
}

// Describe returns a short user-facing description of a search failure.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrRateLimited):
		return "the corpus service is busy, try again shortly"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "the corpus service returned an unexpected response"
	case errors.Is(err, domain.ErrTransport):
		return "the corpus service could not be reached (" + err.Error() + ")"
	default:
		return err.Error()
	}
}
