package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driving"
	"github.com/probity-labs/diligence-cli/internal/logger"
)

// Ensure ClauseFinder implements the interface.
var _ driving.ClauseService = (*ClauseFinder)(nil)

// clauseTopK is the number of hits a clause search collects before
// grouping them per document.
const clauseTopK = 20

// ClauseFinder locates documents containing a named clause type. It is
// a grouping and filter layer over the search engine with no ranking
// logic of its own.
type ClauseFinder struct {
	search driving.SearchService
}

// NewClauseFinder creates the clause finder.
func NewClauseFinder(search driving.SearchService) *ClauseFinder {
	return &ClauseFinder{search: search}
}

// FindClauses searches for "<clauseType> clause" and groups the hits by
// document, preserving the search engine's ordering within each group.
// dateFilter keeps only documents whose upload timestamp starts with
// it; the sentinel "today" means the current date.
func (f *ClauseFinder) FindClauses(
	ctx context.Context, clauseType, dateFilter string,
) ([]domain.DocumentClauses, error) {
	logger.Section("Clause Search")

	clauseType = strings.TrimSpace(clauseType)
	if clauseType == "" {
		return nil, fmt.Errorf("%w: clause type is empty", domain.ErrInvalidInput)
	}

	query := clauseType + " clause"
	logger.Debug("Synthesized query: %q", query)

	results, err := f.search.Search(ctx, query, domain.SearchOptions{TopK: clauseTopK})
	if err != nil {
		return nil, fmt.Errorf("clause search: %w", err)
	}

	// Group by document, keeping first-seen document order and the
	// engine's ranking order within each group.
	order := make([]string, 0)
	grouped := make(map[string]*domain.DocumentClauses)

	for i := range results {
		chunk := results[i].Chunk
		doc, ok := grouped[chunk.DocName]
		if !ok {
			doc = &domain.DocumentClauses{
				DocName:         chunk.DocName,
				DocPath:         chunk.DocPath,
				UploadTimestamp: chunk.UploadTimestamp,
			}
			grouped[chunk.DocName] = doc
			order = append(order, chunk.DocName)
		}
		doc.Matches = append(doc.Matches, domain.ClauseMatch{
			Page:      chunk.Page,
			Text:      chunk.CitationText,
			Relevance: results[i].RelevanceScore,
		})
	}

	prefix := resolveDateFilter(dateFilter)

	docs := make([]domain.DocumentClauses, 0, len(order))
	for _, name := range order {
		if prefix != "" && !strings.HasPrefix(grouped[name].UploadTimestamp, prefix) {
			continue
		}
		docs = append(docs, *grouped[name])
	}

	logger.Info("Documents with %s clauses: %d", clauseType, len(docs))
	return docs, nil
}

// resolveDateFilter translates the "today" sentinel into the current
// date in ISO form. Any other value is used as a literal prefix.
func resolveDateFilter(dateFilter string) string {
	if strings.EqualFold(dateFilter, domain.DateFilterToday) {
		return time.Now().Format("2006-01-02")
	}
	return dateFilter
}
