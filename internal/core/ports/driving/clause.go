package driving

import (
	"context"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

// ClauseService finds documents containing a named clause type.
type ClauseService interface {
	// FindClauses groups search hits for "<clauseType> clause" by
	// document. dateFilter, when non-empty, keeps only documents whose
	// upload timestamp starts with it; the sentinel "today" means the
	// current date.
	FindClauses(ctx context.Context, clauseType, dateFilter string) ([]domain.DocumentClauses, error)
}
