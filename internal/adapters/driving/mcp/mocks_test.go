package mcp

import (
	"context"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAnswerService) Answer(_ context.Context, _, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockAnswerService) AskWithEvidence(_ context.Context, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

// mockClauseService is a mock implementation of driving.ClauseService.
type mockClauseService struct {
	docs []domain.DocumentClauses
	err  error
}

func (m *mockClauseService) FindClauses(_ context.Context, _, _ string) ([]domain.DocumentClauses, error) {
	return m.docs, m.err
}

// mockRiskService is a mock implementation of driving.RiskService.
type mockRiskService struct {
	report *domain.RiskScanReport
	err    error
}

func (m *mockRiskService) ScanRisks(_ context.Context, _ string, _ []string) (*domain.RiskScanReport, error) {
	return m.report, m.err
}

// mockAuditLog is a mock implementation of driven.AuditLog that records
// what was logged.
type mockAuditLog struct {
	queries   []string
	riskScans int
	stats     *domain.QueryStatistics
	err       error
}

func (m *mockAuditLog) LogQuery(_ context.Context, query string, _ any, _, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.queries = append(m.queries, query)
	return "log-id", nil
}

func (m *mockAuditLog) LogRiskScan(_ context.Context, _ *domain.RiskScanReport, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.riskScans++
	return "risk-log-id", nil
}

func (m *mockAuditLog) LogDocumentProcessing(_ context.Context, _ string, _ int, _, _ string) error {
	return m.err
}

func (m *mockAuditLog) RecentQueries(_ context.Context, _ int) ([]domain.AuditEntry, error) {
	return nil, m.err
}

func (m *mockAuditLog) Statistics(_ context.Context) (*domain.QueryStatistics, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

func (m *mockAuditLog) Export(_ context.Context, outPath, _, _ string) (string, error) {
	return outPath, m.err
}

func (m *mockAuditLog) ClearOldLogs(_ context.Context, _ int) (int, error) {
	return 0, m.err
}

// validPorts returns a fully-populated Ports for tests.
func validPorts() *Ports {
	return &Ports{
		Search: &mockSearchService{},
		Answer: &mockAnswerService{},
		Clause: &mockClauseService{},
		Risk:   &mockRiskService{},
		Audit:  &mockAuditLog{},
		User:   "analyst",
	}
}
