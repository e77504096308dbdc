package driven

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// CorpusSearcher queries the external corpus search endpoint.
//
// Implementations must honour the monotonic-prefix contract of the endpoint:
// for a fixed text, a larger limit returns a result list whose earlier
// portion is unchanged. Ranking belongs to the endpoint.
type CorpusSearcher interface {
	// Search returns up to limit segments matching text, and the size of the
	// full match set. Empty text requests the unfiltered head of the corpus.
	// Transport failures and malformed bodies are returned as errors.
	Search(ctx context.Context, text string, limit int) (domain.ResultPage, error)
}
