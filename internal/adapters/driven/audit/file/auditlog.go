// Package file provides the file-backed audit log: newline-delimited
// JSON entries plus a CSV summary. The log is append-only; entries are
// never mutated by normal operation and read back in write order.
package file

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driven"
)

// Ensure AuditLog implements the interface.
var _ driven.AuditLog = (*AuditLog)(nil)

// Log file names within the audit directory.
const (
	QueryLogName = "query_log.jsonl"
	RiskLogName  = "risk_log.jsonl"
	CSVName      = "audit_summary.csv"
)

// csvHeader is the fixed header of the CSV summary.
var csvHeader = []string{
	"Timestamp", "Query Type", "Query Text", "Documents Accessed", "Citations Count", "User",
}

// queryTruncateLimit caps the query text column in the CSV summary.
const queryTruncateLimit = 100

// AuditLog is the file-backed implementation of driven.AuditLog.
// A single mutex serializes all appends so lines stay atomic and
// timestamps are non-decreasing in file order.
type AuditLog struct {
	mu       sync.Mutex
	dir      string
	queryLog string
	riskLog  string
	csvPath  string
}

// NewAuditLog creates the audit log under dir, initialising the CSV
// summary header on first use.
func NewAuditLog(dir string) (*AuditLog, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("%w: create audit directory: %v", domain.ErrAuditWrite, err)
	}

	l := &AuditLog{
		dir:      dir,
		queryLog: filepath.Join(dir, QueryLogName),
		riskLog:  filepath.Join(dir, RiskLogName),
		csvPath:  filepath.Join(dir, CSVName),
	}

	if err := l.initCSV(); err != nil {
		return nil, err
	}
	return l, nil
}

// LogQuery appends one query entry to the JSONL log and one row to the
// CSV summary.
func (l *AuditLog) LogQuery(
	_ context.Context, query string, response any, queryType, user string,
) (string, error) {
	raw, err := json.Marshal(response)
	if err != nil {
		return "", fmt.Errorf("%w: encode response: %v", domain.ErrAuditWrite, err)
	}

	docsAccessed, citationsCount := extractCitations(raw)

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := domain.NowTimestamp()
	entry := domain.AuditEntry{
		LogID:             timestamp + "_" + user,
		Timestamp:         timestamp,
		User:              user,
		QueryType:         queryType,
		Query:             query,
		Response:          raw,
		DocumentsAccessed: docsAccessed,
		CitationsCount:    citationsCount,
	}

	if err := l.appendLine(l.queryLog, entry); err != nil {
		return "", err
	}
	if err := l.appendCSV(entry); err != nil {
		return "", err
	}

	return entry.LogID, nil
}

// LogRiskScan appends one risk-scan entry to the risk log.
func (l *AuditLog) LogRiskScan(
	_ context.Context, report *domain.RiskScanReport, user string,
) (string, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("%w: encode report: %v", domain.ErrAuditWrite, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := domain.NowTimestamp()
	entry := domain.AuditEntry{
		LogID:     "risk_" + timestamp + "_" + user,
		Timestamp: timestamp,
		User:      user,
		Operation: "risk_scan",
		Response:  raw,
	}

	if err := l.appendLine(l.riskLog, entry); err != nil {
		return "", err
	}
	return entry.LogID, nil
}

// LogDocumentProcessing appends a processing event to the query log.
// Processing events carry no query type, which excludes them from the
// query views.
func (l *AuditLog) LogDocumentProcessing(
	_ context.Context, docName string, chunksExtracted int, status, errMsg string,
) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := domain.AuditEntry{
		Timestamp:       domain.NowTimestamp(),
		Operation:       "document_processing",
		DocName:         docName,
		ChunksExtracted: chunksExtracted,
		Status:          status,
		Error:           errMsg,
	}
	return l.appendLine(l.queryLog, entry)
}

// RecentQueries returns the last limit query entries in write order.
func (l *AuditLog) RecentQueries(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	entries, err := readEntries(l.queryLog)
	if err != nil {
		return nil, err
	}

	queries := make([]domain.AuditEntry, 0, len(entries))
	for i := range entries {
		if entries[i].IsQuery() {
			queries = append(queries, entries[i])
		}
	}

	if limit > 0 && len(queries) > limit {
		queries = queries[len(queries)-limit:]
	}
	return queries, nil
}

// Statistics folds the whole query log into per-type, per-document and
// per-user counts.
func (l *AuditLog) Statistics(_ context.Context) (*domain.QueryStatistics, error) {
	entries, err := readEntries(l.queryLog)
	if err != nil {
		return nil, err
	}

	stats := &domain.QueryStatistics{
		QueryTypes:        make(map[string]int),
		DocumentsAccessed: make(map[string]int),
		Users:             make(map[string]int),
	}

	for i := range entries {
		if !entries[i].IsQuery() {
			continue
		}
		stats.TotalQueries++
		stats.QueryTypes[entries[i].QueryType]++
		for _, doc := range entries[i].DocumentsAccessed {
			stats.DocumentsAccessed[doc]++
		}
		user := entries[i].User
		if user == "" {
			user = "unknown"
		}
		stats.Users[user]++
	}

	return stats, nil
}

// Export writes entries within the inclusive date range to outPath.
// An empty range yields an empty entry list, not an error.
func (l *AuditLog) Export(_ context.Context, outPath, startDate, endDate string) (string, error) {
	if outPath == "" {
		outPath = filepath.Join(l.dir, fmt.Sprintf("audit_export_%s.json", uuid.New().String()))
	}

	export := domain.AuditExport{
		ExportTimestamp: domain.NowTimestamp(),
		Filters: domain.ExportFilters{
			StartDate: startDate,
			EndDate:   endDate,
		},
		Entries: []domain.AuditEntry{},
	}

	entries, err := readEntries(l.queryLog)
	if err != nil {
		return "", err
	}
	for i := range entries {
		ts := entries[i].Timestamp
		if startDate != "" && ts < startDate {
			continue
		}
		if endDate != "" && ts > endDate {
			continue
		}
		export.Entries = append(export.Entries, entries[i])
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode export: %v", domain.ErrAuditWrite, err)
	}
	if err := os.WriteFile(outPath, data, 0600); err != nil {
		return "", fmt.Errorf("%w: write export: %v", domain.ErrAuditWrite, err)
	}

	return outPath, nil
}

// ClearOldLogs rewrites the query and risk logs keeping only entries
// newer than daysToKeep days. Returns the number of entries dropped.
func (l *AuditLog) ClearOldLogs(_ context.Context, daysToKeep int) (int, error) {
	if daysToKeep < 0 {
		return 0, fmt.Errorf("%w: daysToKeep must be non-negative", domain.ErrInvalidInput)
	}

	cutoff := time.Now().AddDate(0, 0, -daysToKeep).Format(domain.TimestampLayout)

	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := 0
	for _, path := range []string{l.queryLog, l.riskLog} {
		n, err := rewriteKeepingRecent(path, cutoff)
		if err != nil {
			return dropped, err
		}
		dropped += n
	}
	return dropped, nil
}

// initCSV writes the CSV header once.
func (l *AuditLog) initCSV() error {
	if _, err := os.Stat(l.csvPath); err == nil {
		return nil
	}

	f, err := os.OpenFile(l.csvPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("%w: initialise CSV: %v", domain.ErrAuditWrite, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("%w: initialise CSV: %v", domain.ErrAuditWrite, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: initialise CSV: %v", domain.ErrAuditWrite, err)
	}
	return nil
}

// appendLine writes one JSON entry plus newline. Caller holds the lock.
func (l *AuditLog) appendLine(path string, entry domain.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: encode entry: %v", domain.ErrAuditWrite, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrAuditWrite, filepath.Base(path), err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("%w: append %s: %v", domain.ErrAuditWrite, filepath.Base(path), err)
	}
	return nil
}

// appendCSV writes one summary row. Caller holds the lock.
func (l *AuditLog) appendCSV(entry domain.AuditEntry) error {
	f, err := os.OpenFile(l.csvPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("%w: open CSV: %v", domain.ErrAuditWrite, err)
	}
	defer f.Close()

	query := entry.Query
	if len(query) > queryTruncateLimit {
		// Count runes so a multi-byte character is never split.
		if runes := []rune(query); len(runes) > queryTruncateLimit {
			query = string(runes[:queryTruncateLimit])
		}
	}

	w := csv.NewWriter(f)
	row := []string{
		entry.Timestamp,
		entry.QueryType,
		query,
		strings.Join(entry.DocumentsAccessed, "; "),
		fmt.Sprintf("%d", entry.CitationsCount),
		entry.User,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("%w: append CSV: %v", domain.ErrAuditWrite, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: append CSV: %v", domain.ErrAuditWrite, err)
	}
	return nil
}

// extractCitations pulls the accessed documents and citation count out
// of an arbitrary response payload. Responses without citations yield
// empty results.
func extractCitations(raw json.RawMessage) ([]string, int) {
	var probe struct {
		Citations []struct {
			DocName string `json:"doc_name"`
		} `json:"citations"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, 0
	}

	seen := make(map[string]bool)
	for _, cite := range probe.Citations {
		if cite.DocName != "" {
			seen[cite.DocName] = true
		}
	}

	docs := make([]string, 0, len(seen))
	for doc := range seen {
		docs = append(docs, doc)
	}
	sort.Strings(docs)

	return docs, len(probe.Citations)
}

// readEntries parses complete log lines, tolerating a partially-written
// final line and skipping malformed ones.
func readEntries(path string) ([]domain.AuditEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	lines := strings.Split(string(data), "\n")
	// A complete file ends with a newline, making the last element
	// empty; anything else there is a torn line still being written.
	lines = lines[:len(lines)-1]

	entries := make([]domain.AuditEntry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry domain.AuditEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// rewriteKeepingRecent rewrites one log keeping entries at or after the
// cutoff timestamp. Returns the number of entries dropped.
func rewriteKeepingRecent(path, cutoff string) (int, error) {
	entries, err := readEntries(path)
	if err != nil {
		return 0, err
	}
	if entries == nil {
		return 0, nil
	}

	var buf strings.Builder
	kept := 0
	for i := range entries {
		if entries[i].Timestamp < cutoff {
			continue
		}
		data, err := json.Marshal(entries[i])
		if err != nil {
			return 0, fmt.Errorf("%w: encode entry: %v", domain.ErrAuditWrite, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
		kept++
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(buf.String()), 0600); err != nil {
		return 0, fmt.Errorf("%w: rewrite %s: %v", domain.ErrAuditWrite, filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, fmt.Errorf("%w: rewrite %s: %v", domain.ErrAuditWrite, filepath.Base(path), err)
	}

	return len(entries) - kept, nil
}
