// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants search the document index, ask cited questions
// and run risk scans, with the same audit side-effects as the CLI.
package mcp

import "errors"

// Errors returned when a required port is not provided.
var (
	ErrMissingSearchService = errors.New("mcp: search service is required")
	ErrMissingAnswerService = errors.New("mcp: answer service is required")
	ErrMissingClauseService = errors.New("mcp: clause service is required")
	ErrMissingRiskService   = errors.New("mcp: risk service is required")
	ErrMissingAuditLog      = errors.New("mcp: audit log is required")
)
