package transforms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
)

// NoTransforms is the configuration value that disables normalisation.
const NoTransforms = "none"

// BuilderFunc creates a MarkupTransform.
type BuilderFunc func() driven.MarkupTransform

// Registry maps transform names to their builders.
// It allows the pipeline to be assembled from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new transform registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a transform builder to the registry.
// Name should be unique and match the transform's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a transform by name.
// Returns error if the transform name is not registered.
func (r *Registry) Build(name string) (driven.MarkupTransform, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown transform %q", domain.ErrInvalidInput, name)
	}
	return builder(), nil
}

// Has returns true if a transform with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered transform names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildPipeline assembles a pipeline from transform names. An empty list
// selects DefaultOrder; the single name "none" yields an empty pipeline.
func (r *Registry) BuildPipeline(names []string) (*Pipeline, error) {
	if len(names) == 0 {
		names = DefaultOrder
	}
	if len(names) == 1 && strings.EqualFold(names[0], NoTransforms) {
		return NewPipeline(), nil
	}

	p := NewPipeline()
	for _, name := range names {
		t, err := r.Build(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		p.Add(t)
	}
	return p, nil
}
