package driven

import "context"

// ParsedChunk is one unit of text returned by the document parser.
// The adapter maps the collaborator's loosely-typed response into this
// fixed shape once, at the boundary.
type ParsedChunk struct {
	// Text is the extracted chunk content.
	Text string

	// Page is the 0-based page index, nil when not reported.
	Page *int

	// Type is the parser's chunk classification (for example "text" or
	// "table"). Empty when not reported.
	Type string
}

// DocumentParser converts a raw document file into an ordered sequence
// of text chunks. Implementations wrap an external parsing service and
// must bound each call with a timeout; a failure is recoverable per
// document, never fatal to an ingestion batch.
type DocumentParser interface {
	// Parse extracts ordered chunks from the file at path.
	Parse(ctx context.Context, path string) ([]ParsedChunk, error)
}
