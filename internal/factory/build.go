// Package factory builds datasets and transforms from declarative
// configuration. It centralizes registry dispatch: a config's "name" field
// selects the registered constructor, which extracts its own keys and
// ignores unrelated ones. Nested "transforms" blocks are built recursively
// in list order.
//
// To add a new dataset or transform type, register its constructor (see
// internal/registry); the factory needs no changes.
package factory

import (
	"fmt"

	"github.com/johnnynunez/ClassyVision/internal/dataset"
	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/internal/registry"
	"github.com/johnnynunez/ClassyVision/internal/transforms"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

func init() {
	// Hook nested transform building into the transforms package so
	// key-scoped and composite transforms can build their inner blocks
	// without importing the factory.
	transforms.NestedBuilder = buildNestedTransform
}

// BuildDataset builds a dataset from its configuration: the transform
// chain first, then the registered constructor for cfg.Name. Building is
// pure aside from instance construction.
func BuildDataset(cfg *classy.DatasetConfig) (*dataset.Dataset, error) {
	if cfg == nil {
		return nil, errhandling.NewInvalidConfigError("dataset config is nil", nil)
	}
	if cfg.Name == "" {
		return nil, errhandling.NewMissingKeyError("dataset", "name")
	}

	constructor, err := registry.Datasets.Get(cfg.Name)
	if err != nil {
		return nil, err
	}

	transform, err := BuildTransforms(cfg.Transforms)
	if err != nil {
		return nil, fmt.Errorf("building transforms for dataset %q: %w", cfg.Name, err)
	}

	return constructor(cfg, transform)
}

// BuildTransform builds a single transform from its configuration via the
// registry.
func BuildTransform(cfg classy.TransformConfig) (transforms.Transform, error) {
	if cfg.Name == "" {
		return nil, errhandling.NewMissingKeyError("transform", "name")
	}
	constructor, err := registry.Transforms.Get(cfg.Name)
	if err != nil {
		return nil, err
	}
	config := cfg.Config
	if config == nil {
		config = map[string]any{}
	}
	return constructor(config)
}

// BuildTransforms builds each config independently and composes the
// results in list order. An empty list yields the identity transform.
func BuildTransforms(cfgs []classy.TransformConfig) (transforms.Transform, error) {
	built := make([]transforms.Transform, 0, len(cfgs))
	for i, cfg := range cfgs {
		t, err := BuildTransform(cfg)
		if err != nil {
			return nil, fmt.Errorf("transform %d: %w", i, err)
		}
		built = append(built, t)
	}
	return transforms.NewCompose(built...), nil
}

// buildNestedTransform builds a transform chain from the raw value of a
// nested "transforms" block: either a list of transform config maps or a
// single config map.
func buildNestedTransform(raw any) (transforms.Transform, error) {
	cfgs, err := ParseTransformConfigs(raw)
	if err != nil {
		return nil, err
	}
	return BuildTransforms(cfgs)
}

// ParseTransformConfigs converts the raw decoded value of a "transforms"
// key into typed transform configs, preserving list order exactly. The
// value is either a list of transform config maps or a single config map.
func ParseTransformConfigs(raw any) ([]classy.TransformConfig, error) {
	switch v := raw.(type) {
	case []any:
		cfgs := make([]classy.TransformConfig, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, errhandling.NewInvalidConfigError(
					fmt.Sprintf("transform config %d must be a mapping, got %T", i, item), nil)
			}
			cfg, err := parseTransformConfig(m)
			if err != nil {
				return nil, fmt.Errorf("transform %d: %w", i, err)
			}
			cfgs = append(cfgs, cfg)
		}
		return cfgs, nil
	case map[string]any:
		cfg, err := parseTransformConfig(v)
		if err != nil {
			return nil, err
		}
		return []classy.TransformConfig{cfg}, nil
	default:
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("transforms must be a list of mappings, got %T", raw), nil)
	}
}

// parseTransformConfig reads one transform config mapping. The "name" key
// is required; parameters may sit in an explicit "config" mapping or
// inline beside "name".
func parseTransformConfig(m map[string]any) (classy.TransformConfig, error) {
	rawName, ok := m["name"]
	if !ok {
		return classy.TransformConfig{}, errhandling.NewMissingKeyError("transform", "name")
	}
	name, ok := rawName.(string)
	if !ok || name == "" {
		return classy.TransformConfig{}, errhandling.NewInvalidConfigError("transform name must be a non-empty string", nil)
	}

	config := map[string]any{}
	if rawConfig, ok := m["config"]; ok {
		nested, ok := rawConfig.(map[string]any)
		if !ok {
			return classy.TransformConfig{}, errhandling.NewInvalidConfigError(
				fmt.Sprintf("transform %q config must be a mapping, got %T", name, rawConfig), nil)
		}
		for k, v := range nested {
			config[k] = v
		}
	}
	for k, v := range m {
		if k == "name" || k == "config" {
			continue
		}
		config[k] = v
	}
	return classy.TransformConfig{Name: name, Config: config}, nil
}
