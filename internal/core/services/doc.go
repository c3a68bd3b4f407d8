// Package services implements the core business logic: the indexing
// orchestrator and its analysis phase, retrieval scoring, note
// capture, document ingestion, and the background auto-resume
// scheduler. Services depend only on domain types and ports.
package services
