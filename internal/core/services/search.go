package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driven"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driving"
	"github.com/probity-labs/diligence-cli/internal/logger"
)

// Ensure SearchEngine implements the interface.
var _ driving.SearchService = (*SearchEngine)(nil)

// DefaultTopK is the result limit used when the caller does not set one.
const DefaultTopK = 5

// Scorer computes the relevance of a chunk for a tokenized query.
// Implementations must be deterministic so results are reproducible.
type Scorer interface {
	// Score returns a relevance in [0, 1] for content against tokens.
	Score(tokens []string, content string) float64
}

// KeywordOverlapScorer scores a chunk by the fraction of distinct query
// tokens that appear as case-insensitive substrings of its content.
type KeywordOverlapScorer struct{}

// Score implements Scorer. A chunk containing every token scores 1.0;
// a chunk containing none scores 0.
func (KeywordOverlapScorer) Score(tokens []string, content string) float64 {
	if len(tokens) == 0 {
		return 0
	}

	contentLower := strings.ToLower(content)
	matched := 0
	for _, tok := range tokens {
		if strings.Contains(contentLower, tok) {
			matched++
		}
	}

	return float64(matched) / float64(len(tokens))
}

// SearchEngine ranks chunk store entries against free-text queries by
// keyword overlap.
type SearchEngine struct {
	store  driven.ChunkStore
	scorer Scorer
}

// SearchOption configures the search engine.
type SearchOption func(*SearchEngine)

// WithScorer replaces the default keyword-overlap scorer.
func WithScorer(s Scorer) SearchOption {
	return func(e *SearchEngine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// NewSearchEngine creates a search engine over the given store.
func NewSearchEngine(store driven.ChunkStore, opts ...SearchOption) *SearchEngine {
	e := &SearchEngine{
		store:  store,
		scorer: KeywordOverlapScorer{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search ranks the indexed chunks against the query. Results are sorted
// by descending score; equal scores keep the store's record order, so
// output is deterministic. Chunks scoring 0 are dropped.
func (e *SearchEngine) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	tokens := queryTokens(query)
	if len(tokens) == 0 {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	logger.Debug("TopK: %d, DocFilter: %q", topK, opts.DocFilter)

	// Consistent read handle: All returns a copy of the index.
	records, err := e.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	if opts.DocFilter != "" {
		records = filterByDocName(records, opts.DocFilter)
		logger.Debug("After document filter: %d records", len(records))
	}

	results := make([]domain.SearchResult, 0, len(records))
	for i := range records {
		score := e.scorer.Score(tokens, records[i].Content)
		if score <= 0 {
			continue
		}
		results = append(results, domain.SearchResult{
			Chunk:          records[i],
			RelevanceScore: score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	if len(results) > topK {
		results = results[:topK]
	}

	logger.Info("Search results: %d", len(results))
	return results, nil
}

// queryTokens lower-cases the query and splits it on whitespace,
// dropping duplicate tokens while preserving first-seen order.
func queryTokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

// filterByDocName keeps records whose document name contains the filter,
// case-insensitively.
func filterByDocName(records []domain.ChunkRecord, filter string) []domain.ChunkRecord {
	filterLower := strings.ToLower(filter)
	kept := make([]domain.ChunkRecord, 0, len(records))
	for i := range records {
		if strings.Contains(strings.ToLower(records[i].DocName), filterLower) {
			kept = append(kept, records[i])
		}
	}
	return kept
}
