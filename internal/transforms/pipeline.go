// Package transforms provides the markup normalisation pipeline applied to
// converter output. Each transform changes structure or styling only and
// leaves the text content intact.
package transforms

import (
	"context"
	"fmt"

	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.MarkupPipeline = (*Pipeline)(nil)

// Pipeline chains multiple MarkupTransforms and runs them in order.
// It implements the MarkupPipeline interface.
type Pipeline struct {
	transforms []driven.MarkupTransform
}

// NewPipeline creates a new pipeline with the given transforms.
// Transforms are executed in the order provided.
func NewPipeline(transforms ...driven.MarkupTransform) *Pipeline {
	return &Pipeline{
		transforms: transforms,
	}
}

// Process runs the markup through all transforms in order.
// Each transform receives the previous transform's output.
func (p *Pipeline) Process(ctx context.Context, html string) (string, error) {
	for _, t := range p.transforms {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		var err error
		html, err = t.Apply(ctx, html)
		if err != nil {
			return "", fmt.Errorf("transform %s: %w", t.Name(), err)
		}
	}
	return html, nil
}

// Add appends a transform to the pipeline.
func (p *Pipeline) Add(t driven.MarkupTransform) {
	p.transforms = append(p.transforms, t)
}

// Len returns the number of transforms in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.transforms)
}

// Names returns the transform names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.transforms))
	for i, t := range p.transforms {
		names[i] = t.Name()
	}
	return names
}
