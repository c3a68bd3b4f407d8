package tui

import (
	"errors"

	"github.com/inkwell-labs/lectern/internal/core/ports/driving"
)

// Ports bundles the driving ports the monitor needs.
type Ports struct {
	// Indexer provides job status and resume/finalize controls.
	Indexer driving.Indexer

	// Library resolves document titles for the job list.
	Library driving.LibraryService
}

// Validate checks that the required ports are present.
func (p *Ports) Validate() error {
	if p == nil {
		return errors.New("ports are required")
	}
	if p.Indexer == nil {
		return errors.New("indexer port is required")
	}
	if p.Library == nil {
		return errors.New("library port is required")
	}
	return nil
}
