package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs one-shot corpus searches for the CLI and MCP adapters.
type SearchService struct {
	searcher driven.CorpusSearcher
}

// NewSearchService creates a new search service.
func NewSearchService(searcher driven.CorpusSearcher) *SearchService {
	return &SearchService{searcher: searcher}
}

// Search fetches one result page for query.
func (s *SearchService) Search(ctx context.Context, query domain.SearchQuery) (domain.ResultPage, error) {
	logger.Section("Corpus Search")
	logger.Debug("Query: %s", query)

	if s.searcher == nil {
		return domain.ResultPage{}, errors.New("corpus searcher not configured")
	}
	if err := query.Validate(); err != nil {
		return domain.ResultPage{}, err
	}

	page, err := s.searcher.Search(ctx, query.Text, query.WindowSize)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return domain.ResultPage{}, fmt.Errorf("search: %w", err)
	}
	if err := page.Validate(query.WindowSize); err != nil {
		logger.Warn("Invalid page: %v", err)
		return domain.ResultPage{}, fmt.Errorf("search: %w", err)
	}

	logger.Debug("Results: %d of %d", page.Len(), page.Total)
	return page, nil
}
