// Package manifest parses the archive manifest shared by all sources.
package manifest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

// File is the manifest document: {"files": ["a.docx", ...]}.
type File struct {
	Files []string `json:"files"`
}

// Parse decodes a manifest and returns its identifiers in order.
// Blank entries are dropped and duplicates kept. Malformed JSON or an
// empty list wraps domain.ErrManifestUnavailable.
func Parse(data []byte) ([]string, error) {
	var m File
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parse manifest: %v", domain.ErrManifestUnavailable, err)
	}

	ids := make([]string, 0, len(m.Files))
	for _, f := range m.Files {
		if f = strings.TrimSpace(f); f != "" {
			ids = append(ids, f)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: manifest lists no files", domain.ErrManifestUnavailable)
	}
	return ids, nil
}
