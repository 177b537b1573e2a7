package transforms

import "github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"

// Transform names.
const (
	BlankLinesName      = "blank-lines"
	BlockSpacingName    = "block-spacing"
	EmptyParagraphsName = "empty-paragraphs"
	CenterEmphasisName  = "center-emphasis"
	CenterImagesName    = "center-images"
	TightClustersName   = "tight-clusters"
)

// DefaultOrder is the pipeline used when none is configured. Order
// matters: empty paragraphs are removed before short-line detection so
// they do not break up clusters.
var DefaultOrder = []string{
	BlankLinesName,
	BlockSpacingName,
	EmptyParagraphsName,
	CenterEmphasisName,
	CenterImagesName,
	TightClustersName,
}

// RegisterDefaults registers all built-in transforms with the registry.
// Call this during application initialisation to enable standard transforms.
func RegisterDefaults(r *Registry) {
	r.Register(BlankLinesName, func() driven.MarkupTransform { return NewBlankLines() })
	r.Register(BlockSpacingName, func() driven.MarkupTransform { return NewBlockSpacing() })
	r.Register(EmptyParagraphsName, func() driven.MarkupTransform { return NewEmptyParagraphs() })
	r.Register(CenterEmphasisName, func() driven.MarkupTransform { return NewCenterEmphasis() })
	r.Register(CenterImagesName, func() driven.MarkupTransform { return NewCenterImages() })
	r.Register(TightClustersName, func() driven.MarkupTransform { return NewTightClusters() })
}

// NewDefaultRegistry returns a registry with the built-in transforms.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
