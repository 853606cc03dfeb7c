package domain

// DefaultRiskKeywords is the fixed battery of clause keywords checked by
// a risk scan when the caller does not supply its own list.
var DefaultRiskKeywords = []string{
	"indemnity", "liability", "breach", "termination",
	"penalty", "default", "force majeure", "warranty",
	"compliance", "regulatory", "audit", "material adverse",
}

// RiskFinding is one keyword-triggered answer suggesting a document
// contains risk-relevant language. A scan produces at most one finding
// per (document, risk type) pair.
type RiskFinding struct {
	RiskType  string     `json:"risk_type"`
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	DocName   string     `json:"document"`
}

// RiskScanReport is the result of scanning documents for risk clauses.
type RiskScanReport struct {
	// ScanID uniquely identifies the scan run.
	ScanID string `json:"scan_id"`

	// DocumentsScanned counts every document the scan attempted,
	// including ones where no risk was flagged.
	DocumentsScanned int `json:"total_documents_scanned"`

	// DocumentsWithRisk counts documents with at least one finding.
	DocumentsWithRisk int `json:"documents_with_risks"`

	// Findings maps document name to its flagged risks.
	Findings map[string][]RiskFinding `json:"flagged_risks"`

	// Timestamp is the ISO-8601 time the scan completed.
	Timestamp string `json:"timestamp"`
}
