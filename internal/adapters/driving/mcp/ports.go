package mcp

import (
	"github.com/custodia-labs/novelrag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval provides similarity search and collection statistics.
	Retrieval driving.RetrievalService

	// Analysis lists the chapters a character appears in.
	Analysis driving.AnalysisService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Analysis is optional; find_chapters reports it as unavailable.
	return nil
}
