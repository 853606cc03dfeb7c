package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParseFailure indicates the document parser failed for one file.
	// Ingestion logs the failure and continues with the remaining files.
	ErrParseFailure = errors.New("document parse failed")

	// ErrAnswererUnavailable indicates the grounded answerer is not
	// configured or errored. EvidenceQA falls back to local ranking and
	// never surfaces this to the caller as an error.
	ErrAnswererUnavailable = errors.New("grounded answerer unavailable")

	// ErrSnapshotCorrupt indicates the index snapshot file is malformed.
	// The load fails and the caller falls back to a full directory
	// re-scan rather than starting with a partial index.
	ErrSnapshotCorrupt = errors.New("index snapshot corrupt")

	// ErrAuditWrite indicates an audit record could not be persisted.
	// Unlike document or query errors this is fatal for the triggering
	// operation: silently losing an audit record is a compliance
	// violation.
	ErrAuditWrite = errors.New("audit write failed")

	// ErrWatchUnavailable indicates directory watching could not start.
	ErrWatchUnavailable = errors.New("directory watch unavailable")
)
