package transforms

import (
	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// ApplyToKey wraps an inner transform and applies it to a single field of a
// mapping-shaped sample, leaving the other fields untouched.
type ApplyToKey struct {
	key   string
	inner Transform
}

// NewApplyToKey creates a key-scoped transform.
func NewApplyToKey(key string, inner Transform) (*ApplyToKey, error) {
	if key == "" {
		return nil, errhandling.NewInvalidConfigError("apply_to_key requires a non-empty key", nil)
	}
	if inner == nil {
		return nil, errhandling.NewInvalidConfigError("apply_to_key requires an inner transform", nil)
	}
	return &ApplyToKey{key: key, inner: inner}, nil
}

// NewApplyToKeyFromConfig creates a key-scoped transform from configuration.
// Required keys: "key" (string) and "transforms" (nested transform configs).
func NewApplyToKeyFromConfig(cfg map[string]any) (Transform, error) {
	rawKey, ok := cfg["key"]
	if !ok {
		return nil, errhandling.NewMissingKeyError("apply_to_key", "key")
	}
	key, ok := rawKey.(string)
	if !ok || key == "" {
		return nil, errhandling.NewInvalidConfigError("apply_to_key key must be a non-empty string", nil)
	}

	rawInner, ok := cfg["transforms"]
	if !ok {
		return nil, errhandling.NewMissingKeyError("apply_to_key", "transforms")
	}
	inner, err := buildNested(rawInner)
	if err != nil {
		return nil, err
	}
	return NewApplyToKey(key, inner)
}

// Apply implements Transform. The named field is unwrapped into a
// value-shaped sample, run through the inner transform, and written back;
// a missing key is a typed error, never skipped.
func (a *ApplyToKey) Apply(sample classy.Sample) (classy.Sample, error) {
	fields, ok := sample.Fields()
	if !ok {
		return classy.Sample{}, errhandling.NewShapeMismatchError("apply_to_key", "map", sample.Kind().String())
	}

	v, ok := fields[a.key]
	if !ok {
		return classy.Sample{}, errhandling.NewKeyNotFoundError(a.key)
	}

	out, err := a.inner.Apply(classy.Value(v))
	if err != nil {
		return classy.Sample{}, err
	}
	transformed, ok := out.Value()
	if !ok {
		return classy.Sample{}, errhandling.NewShapeMismatchError("apply_to_key inner transform result", "value", out.Kind().String())
	}

	fields[a.key] = transformed
	return classy.Map(fields), nil
}
