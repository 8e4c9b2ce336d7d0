// Package transforms provides implementations for sample transforms.
// A transform is a pure function from one sample to another: stateless
// beyond construction-time parameters and safe to share across workers.
package transforms

import (
	"fmt"

	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// Transform transforms a single sample. Implementations must be
// side-effect-free: construction-time parameters only, no in-place caching,
// no mutation of the incoming sample's payload.
type Transform interface {
	// Apply transforms the sample.
	// Returns the transformed sample or a typed error on shape mismatch.
	Apply(sample classy.Sample) (classy.Sample, error)
}

// Func adapts an arbitrary unary function to the Transform interface.
type Func func(classy.Sample) (classy.Sample, error)

// Apply implements Transform.
func (f Func) Apply(sample classy.Sample) (classy.Sample, error) {
	return f(sample)
}

// NestedBuilder builds a transform from the raw config value of a nested
// "transforms" block. It is set by the factory package at initialization so
// transforms can build nested blocks without importing the factory.
var NestedBuilder func(raw any) (Transform, error)

// buildNested resolves the injected builder for nested transform blocks.
func buildNested(raw any) (Transform, error) {
	if NestedBuilder == nil {
		return nil, fmt.Errorf("nested transform builder is not initialized")
	}
	return NestedBuilder(raw)
}

// Compose is an ordered chain of transforms. Apply folds the sample through
// each transform left-to-right; the empty chain is the identity transform.
type Compose struct {
	transforms []Transform
}

// NewCompose creates a chain that applies the given transforms in order.
func NewCompose(transforms ...Transform) *Compose {
	return &Compose{transforms: transforms}
}

// Identity returns the identity transform (an empty chain).
func Identity() *Compose {
	return &Compose{}
}

// Apply implements Transform.
func (c *Compose) Apply(sample classy.Sample) (classy.Sample, error) {
	out := sample
	for i, t := range c.transforms {
		var err error
		out, err = t.Apply(out)
		if err != nil {
			return classy.Sample{}, fmt.Errorf("transform %d: %w", i, err)
		}
	}
	return out, nil
}

// Len returns the number of transforms in the chain.
func (c *Compose) Len() int {
	return len(c.transforms)
}
