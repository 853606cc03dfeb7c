package driving

import (
	"context"

	"github.com/probity-labs/diligence-cli/internal/core/domain"
)

// RiskService runs the fixed battery of risk-keyword queries.
type RiskService interface {
	// ScanRisks checks every matching document for each keyword.
	// keywords defaults to domain.DefaultRiskKeywords when empty.
	// Per-keyword failures are skipped with a warning, never abort the
	// scan.
	ScanRisks(ctx context.Context, docFilter string, keywords []string) (*domain.RiskScanReport, error)
}
