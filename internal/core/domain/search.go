package domain

// SearchOptions configures a search query.
type SearchOptions struct {
	// TopK is the maximum number of results.
	TopK int

	// DocFilter keeps only chunks whose document name contains this
	// value, case-insensitively. Empty means no filter.
	DocFilter string
}

// SearchResult is a ChunkRecord plus its relevance for one query.
// Transient: computed per query, never persisted.
type SearchResult struct {
	// Chunk is the matched record.
	Chunk ChunkRecord

	// RelevanceScore is the fraction of distinct query tokens found in
	// the chunk content. Always within [0, 1]; 0-score chunks are
	// dropped before results are returned.
	RelevanceScore float64
}

// Citation points from an answer back to the exact chunk that supports
// it. Always derived from a live ChunkRecord.
type Citation struct {
	// Number is the 1-based marker used in the answer body.
	Number int `json:"citation_number"`

	DocName        string  `json:"doc_name"`
	Page           *int    `json:"page,omitempty"`
	ChunkIndex     uint    `json:"chunk_index"`
	Text           string  `json:"text"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Answer is an evidence-bound response to a natural-language question.
// Callers must not present it as authoritative without checking that
// Citations is non-empty.
type Answer struct {
	Question string `json:"question"`

	// AnswerText is the assembled or collaborator-provided answer body.
	AnswerText string `json:"answer"`

	Citations []Citation `json:"citations"`

	// EvidenceSummary lists "Document: X, Page: N" lines, one per
	// citation. Empty when there are no citations.
	EvidenceSummary []string `json:"evidence_summary,omitempty"`

	// Warning is set when evidence was required but none was found.
	Warning string `json:"warning,omitempty"`

	// Timestamp is the ISO-8601 time the answer was produced.
	Timestamp string `json:"timestamp"`
}

// HasEvidence reports whether the answer carries at least one citation.
func (a *Answer) HasEvidence() bool {
	return len(a.Citations) > 0
}
