package driven

import "context"

// AnswerCitation is one citation returned by the grounded answerer.
type AnswerCitation struct {
	// Page is the 0-based page index, nil when not reported.
	Page *int

	// Score is the answerer's own relevance score, nil when not
	// reported.
	Score *float64

	// Text is the supporting excerpt.
	Text string
}

// GroundedAnswer is the collaborator's answer plus its citations.
type GroundedAnswer struct {
	AnswerText string
	Citations  []AnswerCitation
}

// GroundedAnswerer generates a natural-language answer for a question
// against a single parsed document. This is an optional service - when
// nil or erroring, EvidenceQA falls back to local keyword ranking.
type GroundedAnswerer interface {
	// Answer parses the document at docPath and answers the question
	// against it, considering at most topK chunks.
	Answer(ctx context.Context, question, docPath string, topK int) (*GroundedAnswer, error)
}
