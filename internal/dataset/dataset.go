// Package dataset provides the configurable dataset wrapper and the
// built-in sample sources. A Dataset wraps a finite, indexable Source,
// applies a transform chain on item access, and produces batch iterators
// through the loader engine.
package dataset

import (
	"fmt"

	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/internal/loader"
	"github.com/johnnynunez/ClassyVision/internal/transforms"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// Source is a finite, indexable sample collection. Implementations must be
// safe for concurrent read-only use: Get may be called from multiple
// workers at once and must not mutate shared state.
type Source interface {
	// Length returns the number of samples in the collection.
	Length() int

	// Get fetches the sample at index. Any failure propagates unmodified
	// to the caller.
	Get(index int) (classy.Sample, error)
}

// Dataset wraps a Source with a transform chain and batching parameters.
// It is immutable after construction; iterators are produced on demand and
// are independent of each other.
type Dataset struct {
	name       string
	source     Source
	transform  transforms.Transform
	batchSize  int
	shuffle    bool
	numSamples int
	dropLast   bool
}

// New creates a dataset wrapper.
// batchSize must be positive. numSamples of zero means "use the full
// source length"; otherwise it must be positive and at most the source
// length. A nil transform means identity.
func New(name string, source Source, transform transforms.Transform, batchSize int, shuffle bool, numSamples int, dropLast bool) (*Dataset, error) {
	if source == nil {
		return nil, errhandling.NewInvalidConfigError("dataset requires a source", nil)
	}
	if batchSize <= 0 {
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("batchsize_per_replica must be positive, got %d", batchSize), nil)
	}
	if numSamples < 0 || numSamples > source.Length() {
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("num_samples %d out of range [0, %d]", numSamples, source.Length()), nil)
	}
	if transform == nil {
		transform = transforms.Identity()
	}
	return &Dataset{
		name:       name,
		source:     source,
		transform:  transform,
		batchSize:  batchSize,
		shuffle:    shuffle,
		numSamples: numSamples,
		dropLast:   dropLast,
	}, nil
}

// Name returns the dataset's registered name.
func (d *Dataset) Name() string {
	return d.name
}

// BatchSize returns the configured batch size.
func (d *Dataset) BatchSize() int {
	return d.batchSize
}

// Len returns the capped length: num_samples if set, else the source
// length.
func (d *Dataset) Len() int {
	if d.numSamples > 0 {
		return d.numSamples
	}
	return d.source.Length()
}

// Get fetches the sample at index and applies the transform chain.
// Indices outside [0, Len()) are a typed error. Get is side-effect-free
// and safe for concurrent use.
func (d *Dataset) Get(index int) (classy.Sample, error) {
	if index < 0 || index >= d.Len() {
		return classy.Sample{}, errhandling.NewIndexOutOfRangeError(index, d.Len())
	}
	sample, err := d.source.Get(index)
	if err != nil {
		return classy.Sample{}, err
	}
	return d.transform.Apply(sample)
}

// Iterator produces a fresh, restartable pass over the dataset. Each call
// is independent; the same seed and epoch always yield the same order.
func (d *Dataset) Iterator(opts classy.IteratorOptions) (*loader.Iterator, error) {
	return loader.New(d, loader.Config{
		Name:      d.name,
		BatchSize: d.batchSize,
		Shuffle:   d.shuffle,
		DropLast:  d.dropLast,
	}, opts)
}
