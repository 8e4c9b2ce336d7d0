package transforms

import (
	"github.com/johnnynunez/ClassyVision/internal/errhandling"
)

// Target keys produced by the generic pair transform.
const (
	GenericInputKey  = "input"
	GenericTargetKey = "target"
)

// NewGenericPair creates the convenience pipeline for (content, label)
// pairs: a structural remap to {"input", "target"} followed by the inner
// transform applied to "input". It is exactly equivalent to composing
// TupleToMap and ApplyToKey by hand; it exists only to shorten common
// configurations.
func NewGenericPair(inner Transform) (Transform, error) {
	remap, err := NewTupleToMap([]string{GenericInputKey, GenericTargetKey})
	if err != nil {
		return nil, err
	}
	scoped, err := NewApplyToKey(GenericInputKey, inner)
	if err != nil {
		return nil, err
	}
	return NewCompose(remap, scoped), nil
}

// NewGenericPairFromConfig creates the generic pair transform from
// configuration. Required key: "transforms" (nested transform configs for
// the "input" field).
func NewGenericPairFromConfig(cfg map[string]any) (Transform, error) {
	rawInner, ok := cfg["transforms"]
	if !ok {
		return nil, errhandling.NewMissingKeyError("generic_pair", "transforms")
	}
	inner, err := buildNested(rawInner)
	if err != nil {
		return nil, err
	}
	return NewGenericPair(inner)
}
