package mcp

import (
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server needs.
type Ports struct {
	// Archive gives read access to the current collection.
	Archive driving.ArchiveService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Archive == nil {
		return ErrMissingArchiveService
	}
	return nil
}
