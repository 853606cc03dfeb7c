// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentParser: Converts a raw file into ordered text chunks
//   - ChunkStore: Chunk record persistence and snapshotting
//   - AuditLog: Append-only audit trail
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - GroundedAnswerer: External answer generation with citations.
//     Without it, answers are assembled from local keyword ranking.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
