// This file registers the built-in datasets and transforms.
package registry

import (
	"sync"

	"github.com/johnnynunez/ClassyVision/internal/dataset"
	"github.com/johnnynunez/ClassyVision/internal/transforms"
)

var (
	builtinsOnce sync.Once
	builtinsErr  error
)

// RegisterBuiltins populates the default registries with the built-in
// datasets and transforms. Call it once during startup, before building
// anything from configuration. Subsequent calls are no-ops returning the
// first result.
func RegisterBuiltins() error {
	builtinsOnce.Do(func() {
		if err := RegisterBuiltinDatasets(Datasets); err != nil {
			builtinsErr = err
			return
		}
		builtinsErr = RegisterBuiltinTransforms(Transforms)
	})
	return builtinsErr
}

// RegisterBuiltinDatasets registers the built-in dataset types into r.
// Exposed separately so tests can populate fresh registry instances.
func RegisterBuiltinDatasets(r *Registry[DatasetConstructor]) error {
	// synthetic - deterministic generated (vector, label) pairs
	if err := r.Register("synthetic", dataset.NewSyntheticFromConfig); err != nil {
		return err
	}

	// csv - lazily loaded CSV rows as (features, label) pairs
	return r.Register("csv", dataset.NewCSVFromConfig)
}

// RegisterBuiltinTransforms registers the built-in transform types into r.
// Exposed separately so tests can populate fresh registry instances.
func RegisterBuiltinTransforms(r *Registry[TransformConstructor]) error {
	builtins := map[string]TransformConstructor{
		// Value transforms over float32 vectors
		"normalize": transforms.NewNormalizeFromConfig,
		"scale":     transforms.NewScaleFromConfig,
		"clamp":     transforms.NewClampFromConfig,

		// Structural transforms
		"apply_to_key": transforms.NewApplyToKeyFromConfig,
		"tuple_to_map": transforms.NewTupleToMapFromConfig,
		"generic_pair": transforms.NewGenericPairFromConfig,

		// Scripted transforms over map samples
		"expression": transforms.NewExpressionFromConfig,
		"script":     transforms.NewScriptFromConfig,
	}
	for name, constructor := range builtins {
		if err := r.Register(name, constructor); err != nil {
			return err
		}
	}
	return nil
}
