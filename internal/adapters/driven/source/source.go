package source

import (
	"strings"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driven/source/filesystem"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driven/source/web"
	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
)

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	lower := strings.ToLower(strings.TrimSpace(location))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Open returns the source for the configured location.
func Open(s domain.SourceSettings) (driven.Source, error) {
	if IsRemote(s.Location) {
		src, err := web.New(s.Location, s.ManifestPath, s.ContentDir,
			web.WithTimeout(s.Timeout),
			web.WithRateLimit(s.RateLimit),
		)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return filesystem.New(s.Location, s.ManifestPath, s.ContentDir), nil
}
