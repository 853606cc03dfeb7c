package domain

import (
	"encoding/json"
	"time"
)

// Query types recorded in the audit trail.
const (
	QueryTypeGeneral            = "general"
	QueryTypeRiskScan           = "risk_scan"
	QueryTypeClauseSearch       = "clause_search"
	QueryTypeDocumentProcessing = "document_processing"
)

// TimestampLayout is the ISO-8601 layout used for every audit timestamp.
// Fractional seconds are fixed-width so that timestamps written by a
// single writer sort lexicographically in write order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// NowTimestamp returns the current time in TimestampLayout form.
func NowTimestamp() string {
	return time.Now().Format(TimestampLayout)
}

// AuditEntry is one line of the append-only audit log. Entries are
// immutable once written and are read back in write order.
//
// Two shapes share the type: query entries (QueryType set) and
// document-processing events (Operation set, QueryType empty). Views
// over queries exclude processing events.
type AuditEntry struct {
	// LogID is "<timestamp>_<user>" ("risk_<timestamp>_<user>" for risk
	// scans), chronologically sortable for a single writer.
	LogID string `json:"log_id,omitempty"`

	// Timestamp is monotonically non-decreasing for a single writer.
	Timestamp string `json:"timestamp"`

	User      string `json:"user,omitempty"`
	QueryType string `json:"query_type,omitempty"`
	Query     string `json:"query,omitempty"`

	// Response is the raw JSON of the answer or report being logged.
	Response json.RawMessage `json:"response,omitempty"`

	DocumentsAccessed []string `json:"documents_accessed,omitempty"`
	CitationsCount    int      `json:"citations_count,omitempty"`

	// Document-processing fields.
	Operation       string `json:"operation,omitempty"`
	DocName         string `json:"doc_name,omitempty"`
	ChunksExtracted int    `json:"chunks_extracted,omitempty"`
	Status          string `json:"status,omitempty"`
	Error           string `json:"error,omitempty"`
}

// IsQuery reports whether the entry is a Q&A query rather than a
// document-processing event.
func (e *AuditEntry) IsQuery() bool {
	return e.QueryType != ""
}

// QueryStatistics is derived on demand by folding over audit entries.
type QueryStatistics struct {
	TotalQueries      int            `json:"total_queries"`
	QueryTypes        map[string]int `json:"query_types"`
	DocumentsAccessed map[string]int `json:"documents_accessed"`
	Users             map[string]int `json:"users"`
}

// AuditExport is the envelope written by a filtered audit-trail export.
type AuditExport struct {
	ExportTimestamp string        `json:"export_timestamp"`
	Filters         ExportFilters `json:"filters"`
	Entries         []AuditEntry  `json:"entries"`
}

// ExportFilters records the date range an export was filtered by.
type ExportFilters struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}
