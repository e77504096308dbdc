package driving

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// SearchService runs single, non-interactive corpus searches.
type SearchService interface {
	// Search fetches one result page for query.
	Search(ctx context.Context, query domain.SearchQuery) (domain.ResultPage, error)
}
