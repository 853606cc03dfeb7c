package driven

import (
	"context"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

// AuditLog is the append-only record of every query, scan and
// processing event.
//
// Appends are serialized per file by the implementation to guarantee
// line-atomicity. Any write failure wraps domain.ErrAuditWrite and must
// propagate: the triggering operation fails rather than silently losing
// an audit record. Readers tolerate a partially-written final line by
// consuming complete lines only.
type AuditLog interface {
	// LogQuery appends one query entry and a CSV summary row.
	// Returns the log ID "<timestamp>_<user>".
	LogQuery(ctx context.Context, query string, response any, queryType, user string) (string, error)

	// LogRiskScan appends one risk-scan entry to the risk log.
	// Returns the log ID "risk_<timestamp>_<user>".
	LogRiskScan(ctx context.Context, report *domain.RiskScanReport, user string) (string, error)

	// LogDocumentProcessing appends a processing event to the query
	// log. Processing events carry no query type and are excluded from
	// the query views.
	LogDocumentProcessing(ctx context.Context, docName string, chunksExtracted int, status, errMsg string) error

	// RecentQueries returns the last limit query entries in write order.
	RecentQueries(ctx context.Context, limit int) ([]domain.AuditEntry, error)

	// Statistics folds the whole log into per-type, per-document and
	// per-user counts. Administrative read, not a hot path.
	Statistics(ctx context.Context) (*domain.QueryStatistics, error)

	// Export writes entries with startDate <= timestamp <= endDate
	// (inclusive ISO string comparison; empty bound means unbounded) to
	// outPath and returns the path written.
	Export(ctx context.Context, outPath, startDate, endDate string) (string, error)

	// ClearOldLogs rewrites the log files keeping only entries newer
	// than daysToKeep days. Returns the number of entries dropped.
	ClearOldLogs(ctx context.Context, daysToKeep int) (int, error)
}
