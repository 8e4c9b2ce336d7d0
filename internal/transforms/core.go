// Core value transforms operating on float32 vectors.
package transforms

import (
	"fmt"

	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// vectorOf extracts the float32 vector payload of a value-shaped sample.
func vectorOf(name string, sample classy.Sample) ([]float32, error) {
	v, ok := sample.Value()
	if !ok {
		return nil, errhandling.NewShapeMismatchError(name, "value", sample.Kind().String())
	}
	vec, ok := v.([]float32)
	if !ok {
		return nil, errhandling.NewShapeMismatchError(name, "value", fmt.Sprintf("value holding %T", v))
	}
	return vec, nil
}

// Normalize subtracts a per-element mean and divides by a per-element
// standard deviation. Mean and std of length 1 broadcast over the whole
// vector; otherwise their length must match the vector length.
type Normalize struct {
	mean []float32
	std  []float32
}

// NewNormalize creates a normalize transform.
// Returns an error if mean or std is empty, their lengths differ, or any
// std element is zero.
func NewNormalize(mean, std []float32) (*Normalize, error) {
	if len(mean) == 0 || len(std) == 0 {
		return nil, errhandling.NewInvalidConfigError("normalize requires non-empty mean and std", nil)
	}
	if len(mean) != len(std) {
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("normalize mean length %d does not match std length %d", len(mean), len(std)), nil)
	}
	for _, s := range std {
		if s == 0 {
			return nil, errhandling.NewInvalidConfigError("normalize std must not contain zeros", nil)
		}
	}
	return &Normalize{mean: mean, std: std}, nil
}

// NewNormalizeFromConfig creates a normalize transform from configuration.
// Required keys: "mean", "std" (lists of numbers).
func NewNormalizeFromConfig(cfg map[string]any) (Transform, error) {
	mean, err := floatSlice(cfg, "normalize", "mean")
	if err != nil {
		return nil, err
	}
	std, err := floatSlice(cfg, "normalize", "std")
	if err != nil {
		return nil, err
	}
	return NewNormalize(mean, std)
}

// Apply implements Transform.
func (n *Normalize) Apply(sample classy.Sample) (classy.Sample, error) {
	vec, err := vectorOf("normalize", sample)
	if err != nil {
		return classy.Sample{}, err
	}
	if len(n.mean) != 1 && len(n.mean) != len(vec) {
		return classy.Sample{}, errhandling.NewArityMismatchError(len(vec), len(n.mean))
	}
	out := make([]float32, len(vec))
	for i, x := range vec {
		j := 0
		if len(n.mean) > 1 {
			j = i
		}
		out[i] = (x - n.mean[j]) / n.std[j]
	}
	return classy.Value(out), nil
}

// Scale multiplies every element of a float32 vector by a constant factor.
type Scale struct {
	factor float32
}

// NewScale creates a scale transform.
func NewScale(factor float32) *Scale {
	return &Scale{factor: factor}
}

// NewScaleFromConfig creates a scale transform from configuration.
// Required key: "factor" (number).
func NewScaleFromConfig(cfg map[string]any) (Transform, error) {
	factor, err := floatValue(cfg, "scale", "factor")
	if err != nil {
		return nil, err
	}
	return NewScale(factor), nil
}

// Apply implements Transform.
func (s *Scale) Apply(sample classy.Sample) (classy.Sample, error) {
	vec, err := vectorOf("scale", sample)
	if err != nil {
		return classy.Sample{}, err
	}
	out := make([]float32, len(vec))
	for i, x := range vec {
		out[i] = x * s.factor
	}
	return classy.Value(out), nil
}

// Clamp limits every element of a float32 vector to [min, max].
type Clamp struct {
	min float32
	max float32
}

// NewClamp creates a clamp transform. Returns an error if min > max.
func NewClamp(min, max float32) (*Clamp, error) {
	if min > max {
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("clamp min %v is greater than max %v", min, max), nil)
	}
	return &Clamp{min: min, max: max}, nil
}

// NewClampFromConfig creates a clamp transform from configuration.
// Required keys: "min", "max" (numbers).
func NewClampFromConfig(cfg map[string]any) (Transform, error) {
	min, err := floatValue(cfg, "clamp", "min")
	if err != nil {
		return nil, err
	}
	max, err := floatValue(cfg, "clamp", "max")
	if err != nil {
		return nil, err
	}
	return NewClamp(min, max)
}

// Apply implements Transform.
func (c *Clamp) Apply(sample classy.Sample) (classy.Sample, error) {
	vec, err := vectorOf("clamp", sample)
	if err != nil {
		return classy.Sample{}, err
	}
	out := make([]float32, len(vec))
	for i, x := range vec {
		switch {
		case x < c.min:
			out[i] = c.min
		case x > c.max:
			out[i] = c.max
		default:
			out[i] = x
		}
	}
	return classy.Value(out), nil
}

// floatValue extracts a required numeric config value as float32.
func floatValue(cfg map[string]any, context, key string) (float32, error) {
	raw, ok := cfg[key]
	if !ok {
		return 0, errhandling.NewMissingKeyError(context, key)
	}
	f, ok := toFloat(raw)
	if !ok {
		return 0, errhandling.NewInvalidConfigError(
			fmt.Sprintf("%s key %q must be a number, got %T", context, key, raw), nil)
	}
	return f, nil
}

// floatSlice extracts a required numeric-list config value as []float32.
func floatSlice(cfg map[string]any, context, key string) ([]float32, error) {
	raw, ok := cfg[key]
	if !ok {
		return nil, errhandling.NewMissingKeyError(context, key)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("%s key %q must be a list of numbers, got %T", context, key, raw), nil)
	}
	out := make([]float32, len(list))
	for i, item := range list {
		f, ok := toFloat(item)
		if !ok {
			return nil, errhandling.NewInvalidConfigError(
				fmt.Sprintf("%s key %q element %d must be a number, got %T", context, key, i, item), nil)
		}
		out[i] = f
	}
	return out, nil
}

// toFloat coerces the numeric types produced by JSON and YAML decoding.
func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	default:
		return 0, false
	}
}
