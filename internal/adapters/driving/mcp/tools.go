package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

// SearchInput is the input schema for the search_documents tool.
type SearchInput struct {
	Query     string `json:"query" jsonschema:"the search query to find document chunks"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	DocFilter string `json:"doc_filter,omitempty" jsonschema:"only search documents whose name contains this"`
}

// SearchOutput is the output schema for the search_documents tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocName    string  `json:"doc_name"`
	Page       *int    `json:"page,omitempty"`
	ChunkIndex uint    `json:"chunk_index"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

// AskInput is the input schema for the ask_question tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	DocFilter string `json:"doc_filter,omitempty" jsonschema:"only consider documents whose name contains this"`
}

// ClausesInput is the input schema for the find_clauses tool.
type ClausesInput struct {
	ClauseType string `json:"clause_type" jsonschema:"the clause type to look for, e.g. termination or indemnity"`
	DateFilter string `json:"date_filter,omitempty" jsonschema:"upload date filter, YYYY-MM-DD or the word today"`
}

// ClausesOutput is the output schema for the find_clauses tool.
type ClausesOutput struct {
	Documents []domain.DocumentClauses `json:"documents"`
	Count     int                      `json:"count"`
}

// RiskInput is the input schema for the scan_risks tool.
type RiskInput struct {
	DocFilter string   `json:"doc_filter,omitempty" jsonschema:"only scan documents whose name contains this"`
	Keywords  []string `json:"keywords,omitempty" jsonschema:"risk keywords to check (default battery when empty)"`
}

// StatsInput is the input schema for the audit_statistics tool.
type StatsInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Search indexed due-diligence document chunks by keyword relevance",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question from the indexed documents, with citations to the source passages",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_clauses",
		Description: "Find documents containing a named clause type, grouped by document",
	}, s.handleClauses)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "scan_risks",
		Description: "Scan indexed documents for risk-relevant clauses using a keyword battery",
	}, s.handleRisks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "audit_statistics",
		Description: "Summarize the audit trail: query counts per type, document and user",
	}, s.handleStats)
}

// handleSearch handles the search_documents tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		TopK:      input.Limit,
		DocFilter: input.DocFilter,
	}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocName:    results[i].Chunk.DocName,
			Page:       results[i].Chunk.Page,
			ChunkIndex: results[i].Chunk.ChunkIndex,
			Score:      results[i].RelevanceScore,
			Content:    results[i].Chunk.Content,
		}
	}
	return nil, output, nil
}

// handleAsk handles the ask_question tool invocation. The query is
// recorded in the audit trail; a failed audit write fails the call.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, *domain.Answer, error) {
	var answer *domain.Answer
	var err error
	if input.DocFilter != "" {
		answer, err = s.ports.Answer.Answer(ctx, input.Question, input.DocFilter)
	} else {
		answer, err = s.ports.Answer.AskWithEvidence(ctx, input.Question)
	}
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.ports.Audit.LogQuery(ctx, input.Question, answer, domain.QueryTypeGeneral, s.ports.User); err != nil {
		return nil, nil, err
	}
	return nil, answer, nil
}

// handleClauses handles the find_clauses tool invocation.
func (s *Server) handleClauses(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ClausesInput,
) (*mcp.CallToolResult, ClausesOutput, error) {
	docs, err := s.ports.Clause.FindClauses(ctx, input.ClauseType, input.DateFilter)
	if err != nil {
		return nil, ClausesOutput{}, err
	}

	query := input.ClauseType + " clause"
	if _, err := s.ports.Audit.LogQuery(ctx, query, docs, domain.QueryTypeClauseSearch, s.ports.User); err != nil {
		return nil, ClausesOutput{}, err
	}

	return nil, ClausesOutput{Documents: docs, Count: len(docs)}, nil
}

// handleRisks handles the scan_risks tool invocation.
func (s *Server) handleRisks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RiskInput,
) (*mcp.CallToolResult, *domain.RiskScanReport, error) {
	report, err := s.ports.Risk.ScanRisks(ctx, input.DocFilter, input.Keywords)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.ports.Audit.LogRiskScan(ctx, report, s.ports.User); err != nil {
		return nil, nil, err
	}
	keywords := input.Keywords
	if len(keywords) == 0 {
		keywords = domain.DefaultRiskKeywords
	}
	query := "risk scan: " + strings.Join(keywords, ", ")
	if _, err := s.ports.Audit.LogQuery(ctx, query, report, domain.QueryTypeRiskScan, s.ports.User); err != nil {
		return nil, nil, err
	}
	return nil, report, nil
}

// handleStats handles the audit_statistics tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, *domain.QueryStatistics, error) {
	stats, err := s.ports.Audit.Statistics(ctx)
	if err != nil {
		return nil, nil, err
	}
	return nil, stats, nil
}
