package driven

import "github.com/custodia-labs/corpus-cli/internal/core/domain"

// ErrorReporter receives failures of the latest search for presentation as a
// non-fatal notice. Reporters must not block; no retry is expected.
type ErrorReporter interface {
	Report(query domain.SearchQuery, err error)
}
