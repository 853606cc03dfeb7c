package services

import (
	"context"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driven"
)

// mockParser implements driven.DocumentParser for testing. Parse
// results are keyed by file base name; unlisted files fail.
type mockParser struct {
	chunks   map[string][]driven.ParsedChunk
	failWith error
	calls    []string
}

func (m *mockParser) Parse(_ context.Context, path string) ([]driven.ParsedChunk, error) {
	m.calls = append(m.calls, path)
	name := basename(path)
	if chunks, ok := m.chunks[name]; ok {
		return chunks, nil
	}
	return nil, m.failWith
}

func basename(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// mockAnswerer implements driven.GroundedAnswerer for testing.
type mockAnswerer struct {
	answer *driven.GroundedAnswer
	err    error
	calls  int
}

func (m *mockAnswerer) Answer(_ context.Context, _, _ string, _ int) (*driven.GroundedAnswer, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

// mockAuditLog implements driven.AuditLog for testing. It records
// processing events and can be told to fail writes.
type mockAuditLog struct {
	writeErr   error
	queries    []string
	processed  []string
	riskScans  int
	statuses   []string
	queryTypes []string
}

func (m *mockAuditLog) LogQuery(_ context.Context, query string, _ any, queryType, _ string) (string, error) {
	if m.writeErr != nil {
		return "", m.writeErr
	}
	m.queries = append(m.queries, query)
	m.queryTypes = append(m.queryTypes, queryType)
	return "log-id", nil
}

func (m *mockAuditLog) LogRiskScan(_ context.Context, _ *domain.RiskScanReport, _ string) (string, error) {
	if m.writeErr != nil {
		return "", m.writeErr
	}
	m.riskScans++
	return "risk-log-id", nil
}

func (m *mockAuditLog) LogDocumentProcessing(_ context.Context, docName string, _ int, status, _ string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.processed = append(m.processed, docName)
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *mockAuditLog) RecentQueries(_ context.Context, _ int) ([]domain.AuditEntry, error) {
	return nil, nil
}

func (m *mockAuditLog) Statistics(_ context.Context) (*domain.QueryStatistics, error) {
	return &domain.QueryStatistics{}, nil
}

func (m *mockAuditLog) Export(_ context.Context, outPath, _, _ string) (string, error) {
	return outPath, nil
}

func (m *mockAuditLog) ClearOldLogs(_ context.Context, _ int) (int, error) {
	return 0, nil
}

// mockAnswerService implements driving.AnswerService for testing the
// risk scanner without a full QA stack.
type mockAnswerService struct {
	answers map[string]*domain.Answer // keyed by docFilter
	generic *domain.Answer
	err     error
}

func (m *mockAnswerService) Answer(_ context.Context, _, docFilter string) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if a, ok := m.answers[docFilter]; ok {
		return a, nil
	}
	return m.generic, nil
}

func (m *mockAnswerService) AskWithEvidence(_ context.Context, question string) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.generic, nil
}
