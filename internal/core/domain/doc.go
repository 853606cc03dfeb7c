// Package domain defines the core business entities for the diligence CLI.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRecord: An ingested document
//   - ChunkRecord: The atomic unit of retrieval and citation
//   - SearchResult / Citation: Transient query output
//   - RiskFinding / RiskScanReport: Flagged risk language
//   - AuditEntry / QueryStatistics: The append-only audit trail
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
