// Package tui provides an interactive terminal browser for an indexed novel.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/novelrag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers passage searches against the vector index.
	Retrieval driving.RetrievalService

	// Analysis lists the chapters a character appears in. Optional.
	Analysis driving.AnalysisService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(retrieval driving.RetrievalService, analysis driving.AnalysisService) *Ports {
	return &Ports{
		Retrieval: retrieval,
		Analysis:  analysis,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
