package driving

import (
	"context"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

// ScanReport summarises one ingestion pass over the documents directory.
type ScanReport struct {
	// FilesSeen counts supported files found in the directory.
	FilesSeen int

	// FilesProcessed counts files parsed and indexed in this pass.
	FilesProcessed int

	// FilesSkipped counts files whose content was already indexed.
	FilesSkipped int

	// FilesFailed counts files the parser rejected. Failed files are
	// retried on the next scan.
	FilesFailed int

	// ChunksIndexed counts chunk records produced in this pass.
	ChunksIndexed int
}

// IngestService scans the documents directory and maintains the index.
type IngestService interface {
	// Scan processes new and changed files under dir. One unparsable
	// document never blocks the batch.
	Scan(ctx context.Context, dir string) (*ScanReport, error)

	// LoadOrScan restores the index from snapshotPath, falling back to
	// a full scan of dir when the snapshot is missing or corrupt.
	// Returns the number of indexed chunk records.
	LoadOrScan(ctx context.Context, snapshotPath, dir string) (int, error)

	// Refresh re-scans dir and persists a fresh snapshot.
	Refresh(ctx context.Context, snapshotPath, dir string) (int, error)

	// Watch re-scans dir whenever a supported document is created or
	// written, until the context is cancelled.
	Watch(ctx context.Context, dir string) error

	// DocumentSummary returns index statistics for one document.
	DocumentSummary(ctx context.Context, docName string) (*domain.DocumentSummary, error)

	// Overview returns index statistics across all documents.
	Overview(ctx context.Context) (*domain.IndexOverview, error)
}
