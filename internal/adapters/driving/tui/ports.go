// Package tui provides the interactive newsletter browser.
// It is a driving adapter over the archive service.
package tui

import (
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// Archive gives read access to the collection and reloads it.
	Archive driving.ArchiveService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Archive == nil {
		return ErrMissingArchiveService
	}
	return nil
}
