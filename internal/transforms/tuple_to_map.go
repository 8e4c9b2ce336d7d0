package transforms

import (
	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// pairArity is the arity of pair-shaped samples.
const pairArity = 2

// TupleToMap converts a pair-shaped sample into a mapping-shaped sample,
// binding positional element i to target key i.
type TupleToMap struct {
	keys []string
}

// NewTupleToMap creates a structural remap transform. The key list length
// must match the pair arity.
func NewTupleToMap(keys []string) (*TupleToMap, error) {
	if len(keys) != pairArity {
		return nil, errhandling.NewArityMismatchError(pairArity, len(keys))
	}
	for _, k := range keys {
		if k == "" {
			return nil, errhandling.NewInvalidConfigError("tuple_to_map keys must be non-empty strings", nil)
		}
	}
	return &TupleToMap{keys: append([]string(nil), keys...)}, nil
}

// NewTupleToMapFromConfig creates a structural remap from configuration.
// Required key: "keys" (list of strings).
func NewTupleToMapFromConfig(cfg map[string]any) (Transform, error) {
	raw, ok := cfg["keys"]
	if !ok {
		return nil, errhandling.NewMissingKeyError("tuple_to_map", "keys")
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errhandling.NewInvalidConfigError("tuple_to_map keys must be a list of strings", nil)
	}
	keys := make([]string, 0, len(list))
	for _, item := range list {
		k, ok := item.(string)
		if !ok {
			return nil, errhandling.NewInvalidConfigError("tuple_to_map keys must be a list of strings", nil)
		}
		keys = append(keys, k)
	}
	return NewTupleToMap(keys)
}

// Apply implements Transform.
func (t *TupleToMap) Apply(sample classy.Sample) (classy.Sample, error) {
	first, second, ok := sample.Pair()
	if !ok {
		return classy.Sample{}, errhandling.NewShapeMismatchError("tuple_to_map", "pair", sample.Kind().String())
	}
	return classy.Map(map[string]any{
		t.keys[0]: first,
		t.keys[1]: second,
	}), nil
}
