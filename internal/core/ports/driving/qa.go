package driving

import (
	"context"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

// AnswerService composes search results into citation-bearing answers.
type AnswerService interface {
	// Answer answers a question against the index, optionally filtered
	// to documents whose name contains docFilter.
	Answer(ctx context.Context, question, docFilter string) (*domain.Answer, error)

	// AskWithEvidence answers and enforces the evidence policy: when
	// the citation list is empty the answer carries an explicit
	// warning rather than failing.
	AskWithEvidence(ctx context.Context, question string) (*domain.Answer, error)
}
