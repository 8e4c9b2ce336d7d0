package dataset

import (
	"fmt"

	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/internal/transforms"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// Default synthetic source parameters.
const (
	defaultSyntheticDim        = 8
	defaultSyntheticNumClasses = 2
)

// SyntheticSource generates deterministic (vector, label) pairs from the
// index alone. Index i yields a dim-length float32 vector whose element j
// is i*dim+j, labeled i modulo numClasses. It holds no mutable state, so
// any number of workers can read it concurrently.
type SyntheticSource struct {
	length     int
	dim        int
	numClasses int
}

// NewSyntheticSource creates a synthetic source of the given length.
func NewSyntheticSource(length, dim, numClasses int) (*SyntheticSource, error) {
	if length <= 0 {
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("synthetic length must be positive, got %d", length), nil)
	}
	if dim <= 0 {
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("synthetic dim must be positive, got %d", dim), nil)
	}
	if numClasses <= 0 {
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("synthetic num_classes must be positive, got %d", numClasses), nil)
	}
	return &SyntheticSource{length: length, dim: dim, numClasses: numClasses}, nil
}

// Length implements Source.
func (s *SyntheticSource) Length() int {
	return s.length
}

// Get implements Source.
func (s *SyntheticSource) Get(index int) (classy.Sample, error) {
	if index < 0 || index >= s.length {
		return classy.Sample{}, errhandling.NewIndexOutOfRangeError(index, s.length)
	}
	vec := make([]float32, s.dim)
	for j := range vec {
		vec[j] = float32(index*s.dim + j)
	}
	return classy.Pair(vec, float32(index%s.numClasses)), nil
}

// NewSyntheticFromConfig builds a synthetic dataset from its declarative
// configuration. Required extra key: "length" (positive integer).
// Optional: "dim" (default 8), "num_classes" (default 2).
func NewSyntheticFromConfig(cfg *classy.DatasetConfig, transform transforms.Transform) (*Dataset, error) {
	length, err := intExtra(cfg, "synthetic", "length", 0, true)
	if err != nil {
		return nil, err
	}
	dim, err := intExtra(cfg, "synthetic", "dim", defaultSyntheticDim, false)
	if err != nil {
		return nil, err
	}
	numClasses, err := intExtra(cfg, "synthetic", "num_classes", defaultSyntheticNumClasses, false)
	if err != nil {
		return nil, err
	}

	source, err := NewSyntheticSource(length, dim, numClasses)
	if err != nil {
		return nil, err
	}
	return New(cfg.Name, source, transform, cfg.BatchsizePerReplica, cfg.Shuffle, cfg.NumSamples, cfg.DropLast)
}

// intExtra extracts an integer from the constructor-specific config keys.
// JSON decodes integers as float64 and YAML as int; both are accepted.
func intExtra(cfg *classy.DatasetConfig, context, key string, fallback int, required bool) (int, error) {
	raw, ok := cfg.Extra[key]
	if !ok {
		if required {
			return 0, errhandling.NewMissingKeyError(context, key)
		}
		return fallback, nil
	}
	switch n := raw.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, errhandling.NewInvalidConfigError(
				fmt.Sprintf("%s key %q must be an integer, got %v", context, key, n), nil)
		}
		return int(n), nil
	default:
		return 0, errhandling.NewInvalidConfigError(
			fmt.Sprintf("%s key %q must be an integer, got %T", context, key, raw), nil)
	}
}
