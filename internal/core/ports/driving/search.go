package driving

import (
	"context"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

// SearchService ranks indexed chunks against a free-text query.
type SearchService interface {
	// Search returns at most opts.TopK results sorted by descending
	// relevance; ties preserve index order.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
