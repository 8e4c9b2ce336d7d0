package config

import (
	"fmt"

	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/internal/factory"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// wrapperKeys are the top-level keys interpreted by the dataset wrapper
// itself; everything else is passed through to the constructor via Extra.
var wrapperKeys = map[string]bool{
	"name":                  true,
	"batchsize_per_replica": true,
	"shuffle":               true,
	"use_shuffle":           true,
	"num_samples":           true,
	"drop_last":             true,
	"transforms":            true,
}

// ToDatasetConfig converts a parsed configuration mapping into a typed
// DatasetConfig. Required keys: "name", "batchsize_per_replica", and one
// of "shuffle"/"use_shuffle". Unrecognized keys are preserved in Extra for
// the dataset constructor.
func ToDatasetConfig(data map[string]any) (*classy.DatasetConfig, error) {
	if data == nil {
		return nil, errhandling.NewInvalidConfigError("configuration data is nil", nil)
	}

	cfg := &classy.DatasetConfig{Extra: map[string]any{}}

	name, err := requiredString(data, "name")
	if err != nil {
		return nil, err
	}
	cfg.Name = name

	batchSize, err := requiredInt(data, "batchsize_per_replica")
	if err != nil {
		return nil, err
	}
	cfg.BatchsizePerReplica = batchSize

	shuffle, ok, err := boolKey(data, "shuffle")
	if err != nil {
		return nil, err
	}
	if !ok {
		shuffle, ok, err = boolKey(data, "use_shuffle")
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, errhandling.NewMissingKeyError("dataset", "shuffle")
	}
	cfg.Shuffle = shuffle

	if _, present := data["num_samples"]; present {
		numSamples, err := requiredInt(data, "num_samples")
		if err != nil {
			return nil, err
		}
		cfg.NumSamples = numSamples
	}

	if dropLast, ok, err := boolKey(data, "drop_last"); err != nil {
		return nil, err
	} else if ok {
		cfg.DropLast = dropLast
	}

	if rawTransforms, present := data["transforms"]; present {
		transforms, err := factory.ParseTransformConfigs(rawTransforms)
		if err != nil {
			return nil, err
		}
		cfg.Transforms = transforms
	}

	for k, v := range data {
		if !wrapperKeys[k] {
			cfg.Extra[k] = v
		}
	}
	return cfg, nil
}

// requiredString extracts a required non-empty string key.
func requiredString(data map[string]any, key string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return "", errhandling.NewMissingKeyError("dataset", key)
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errhandling.NewInvalidConfigError(
			fmt.Sprintf("dataset key %q must be a non-empty string, got %T", key, raw), nil)
	}
	return s, nil
}

// requiredInt extracts a required integer key, accepting the numeric types
// produced by both JSON (float64) and YAML (int) decoding.
func requiredInt(data map[string]any, key string) (int, error) {
	raw, ok := data[key]
	if !ok {
		return 0, errhandling.NewMissingKeyError("dataset", key)
	}
	switch n := raw.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, errhandling.NewInvalidConfigError(
				fmt.Sprintf("dataset key %q must be an integer, got %v", key, n), nil)
		}
		return int(n), nil
	default:
		return 0, errhandling.NewInvalidConfigError(
			fmt.Sprintf("dataset key %q must be an integer, got %T", key, raw), nil)
	}
}

// boolKey extracts an optional boolean key; the second return reports
// presence.
func boolKey(data map[string]any, key string) (bool, bool, error) {
	raw, ok := data[key]
	if !ok {
		return false, false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, false, errhandling.NewInvalidConfigError(
			fmt.Sprintf("dataset key %q must be a boolean, got %T", key, raw), nil)
	}
	return b, true, nil
}
