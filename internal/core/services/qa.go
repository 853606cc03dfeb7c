package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driven"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driving"
	"github.com/probity-labs/diligence-cli/internal/logger"
)

// Ensure EvidenceQA implements the interface.
var _ driving.AnswerService = (*EvidenceQA)(nil)

const (
	// answerTopK is the number of chunks retrieved per question.
	answerTopK = 8

	// answerCitations is the number of results assembled into a local
	// answer.
	answerCitations = 5

	// NoEvidenceWarning is attached to answers that carry no citations.
	NoEvidenceWarning = "no evidence/citations found for this answer"

	// noInformationAnswer is returned when the index has nothing
	// relevant at all.
	noInformationAnswer = "No relevant information found in the indexed documents."
)

// EvidenceQA composes search results into citation-bearing answers.
// When a grounded answerer is configured and a single target document is
// known it delegates to the collaborator, falling back to local assembly
// on any collaborator error.
type EvidenceQA struct {
	search   driving.SearchService
	store    driven.ChunkStore
	answerer driven.GroundedAnswerer
}

// NewEvidenceQA creates the QA service. answerer is optional (can be
// nil); without it answers are always assembled locally.
func NewEvidenceQA(
	search driving.SearchService,
	store driven.ChunkStore,
	answerer driven.GroundedAnswerer,
) *EvidenceQA {
	return &EvidenceQA{
		search:   search,
		store:    store,
		answerer: answerer,
	}
}

// Answer answers a question against the optionally doc-filtered index.
func (q *EvidenceQA) Answer(ctx context.Context, question, docFilter string) (*domain.Answer, error) {
	logger.Section("Question Answering")
	logger.Debug("Question: %q, DocFilter: %q", question, docFilter)

	results, err := q.search.Search(ctx, question, domain.SearchOptions{
		TopK:      answerTopK,
		DocFilter: docFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("search evidence: %w", err)
	}

	if len(results) == 0 {
		return &domain.Answer{
			Question:   question,
			AnswerText: noInformationAnswer,
			Citations:  []domain.Citation{},
			Timestamp:  domain.NowTimestamp(),
		}, nil
	}

	// Delegate to the grounded answerer when a single target document
	// is known. Collaborator errors fall back to local assembly and are
	// never surfaced to the caller.
	if q.answerer != nil && docFilter != "" {
		answer, err := q.groundedAnswer(ctx, question, results)
		if err == nil {
			return answer, nil
		}
		logger.Warn("Grounded answerer failed, falling back to search results: %v", err)
	}

	return q.assembleAnswer(question, results), nil
}

// AskWithEvidence answers and enforces the evidence policy: an empty
// citation list yields an explicit warning, never an error.
func (q *EvidenceQA) AskWithEvidence(ctx context.Context, question string) (*domain.Answer, error) {
	answer, err := q.Answer(ctx, question, "")
	if err != nil {
		return nil, err
	}

	if !answer.HasEvidence() {
		answer.Warning = NoEvidenceWarning
		return answer, nil
	}

	summary := make([]string, 0, len(answer.Citations))
	for i := range answer.Citations {
		page := "N/A"
		if answer.Citations[i].Page != nil {
			page = fmt.Sprintf("%d", *answer.Citations[i].Page)
		}
		summary = append(summary, fmt.Sprintf("Document: %s, Page: %s", answer.Citations[i].DocName, page))
	}
	answer.EvidenceSummary = summary

	return answer, nil
}

// assembleAnswer builds the local answer body from the top results:
// numbered citation excerpts joined by blank lines, one citation per
// included result.
func (q *EvidenceQA) assembleAnswer(question string, results []domain.SearchResult) *domain.Answer {
	n := len(results)
	if n > answerCitations {
		n = answerCitations
	}

	parts := make([]string, 0, n)
	citations := make([]domain.Citation, 0, n)

	for i := 0; i < n; i++ {
		chunk := results[i].Chunk
		parts = append(parts, fmt.Sprintf("[%d] %s", i+1, chunk.CitationText))
		citations = append(citations, domain.Citation{
			Number:         i + 1,
			DocName:        chunk.DocName,
			Page:           chunk.Page,
			ChunkIndex:     chunk.ChunkIndex,
			Text:           chunk.CitationText,
			RelevanceScore: results[i].RelevanceScore,
		})
	}

	return &domain.Answer{
		Question:   question,
		AnswerText: strings.Join(parts, "\n\n"),
		Citations:  citations,
		Timestamp:  domain.NowTimestamp(),
	}
}

// groundedAnswer delegates to the external answerer against the top
// result's document and resolves every returned citation back to a live
// chunk record. Citations that cannot be traced to a chunk are dropped,
// keeping the citation-integrity invariant at the boundary.
func (q *EvidenceQA) groundedAnswer(
	ctx context.Context, question string, results []domain.SearchResult,
) (*domain.Answer, error) {
	target := results[0].Chunk
	logger.Debug("Delegating to grounded answerer for %s", target.DocName)

	grounded, err := q.answerer.Answer(ctx, question, target.DocPath, answerTopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAnswererUnavailable, err)
	}

	chunks, err := q.store.ByDocument(ctx, target.DocName)
	if err != nil {
		return nil, fmt.Errorf("resolve citations: %w", err)
	}

	citations := make([]domain.Citation, 0, len(grounded.Citations))
	for _, cite := range grounded.Citations {
		chunk, ok := resolveCitation(cite, chunks)
		if !ok {
			logger.Debug("Dropping unresolvable citation on %s", target.DocName)
			continue
		}
		citations = append(citations, domain.Citation{
			Number:         len(citations) + 1,
			DocName:        chunk.DocName,
			Page:           chunk.Page,
			ChunkIndex:     chunk.ChunkIndex,
			Text:           domain.TruncateCitation(cite.Text),
			RelevanceScore: citationScore(cite),
		})
	}

	return &domain.Answer{
		Question:   question,
		AnswerText: grounded.AnswerText,
		Citations:  citations,
		Timestamp:  domain.NowTimestamp(),
	}, nil
}

// resolveCitation traces a collaborator citation to a chunk record,
// preferring a content match and falling back to a page match.
func resolveCitation(cite driven.AnswerCitation, chunks []domain.ChunkRecord) (domain.ChunkRecord, bool) {
	if cite.Text != "" {
		for i := range chunks {
			if strings.Contains(chunks[i].Content, cite.Text) {
				return chunks[i], true
			}
		}
	}
	if cite.Page != nil {
		for i := range chunks {
			if chunks[i].Page != nil && *chunks[i].Page == *cite.Page {
				return chunks[i], true
			}
		}
	}
	return domain.ChunkRecord{}, false
}

// citationScore clamps the collaborator's score into [0, 1].
func citationScore(cite driven.AnswerCitation) float64 {
	if cite.Score == nil {
		return 0
	}
	s := *cite.Score
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
