package driven

import "context"

// MarkupTransform rewrites converter markup.
// Transforms change structure and styling only, never the text content,
// and must be deterministic for identical input.
type MarkupTransform interface {
	// Name returns the transform name for logging and configuration.
	Name() string

	// Apply returns the transformed markup.
	Apply(ctx context.Context, html string) (string, error)
}

// MarkupPipeline chains multiple MarkupTransforms.
type MarkupPipeline interface {
	// Process runs the markup through all transforms in order.
	Process(ctx context.Context, html string) (string, error)
}
