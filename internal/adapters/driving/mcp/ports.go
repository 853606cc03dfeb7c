package mcp

import (
	"github.com/probity-labs/diligence-cli/internal/core/ports/driven"
	"github.com/probity-labs/diligence-cli/internal/core/ports/driving"
)

// Ports aggregates everything the MCP server needs.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search ranks chunks against free-text queries.
	Search driving.SearchService

	// Answer produces citation-bearing answers.
	Answer driving.AnswerService

	// Clause finds documents by clause type.
	Clause driving.ClauseService

	// Risk runs the risk-keyword battery.
	Risk driving.RiskService

	// Audit records every tool invocation.
	Audit driven.AuditLog

	// User is the identity recorded in the audit trail.
	User string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Clause == nil {
		return ErrMissingClauseService
	}
	if p.Risk == nil {
		return ErrMissingRiskService
	}
	if p.Audit == nil {
		return ErrMissingAuditLog
	}
	return nil
}
