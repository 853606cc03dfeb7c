package driven

import (
	"context"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

// ChunkStore holds the current set of indexed chunk records.
//
// Writes are serialized by the implementation so that chunk_index
// uniqueness per document and snapshot consistency hold under
// concurrent ingestion workers. Reads return consistent copies and may
// run concurrently with each other.
type ChunkStore interface {
	// UpsertDocument replaces all chunks for a document in one step.
	// Re-ingesting a changed file therefore never duplicates a
	// chunk_index.
	UpsertDocument(ctx context.Context, docName string, chunks []domain.ChunkRecord) error

	// All returns a copy of every chunk record in insertion order.
	All(ctx context.Context) ([]domain.ChunkRecord, error)

	// ByDocument returns the chunks for one document.
	// Returns domain.ErrNotFound when the document is not indexed.
	ByDocument(ctx context.Context, docName string) ([]domain.ChunkRecord, error)

	// Documents lists one record per indexed document.
	Documents(ctx context.Context) ([]domain.DocumentRecord, error)

	// Count returns the number of chunk records.
	Count(ctx context.Context) (int, error)

	// SaveSnapshot persists the full record set as a JSON envelope so
	// the index survives restarts without re-parsing.
	SaveSnapshot(ctx context.Context, path string) error

	// LoadSnapshot replaces the store contents from a snapshot file.
	// A malformed file yields domain.ErrSnapshotCorrupt and leaves the
	// store untouched.
	LoadSnapshot(ctx context.Context, path string) error
}
