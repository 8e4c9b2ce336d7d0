// Package registry provides name-keyed constructor registries for datasets
// and transforms.
//
// # Overview
//
// Instead of hard-coded switch statements, components register their
// from-config constructors by name and the factory resolves names at build
// time. Registries are explicit objects: the package-level defaults are
// populated by an explicit RegisterBuiltins call at startup, never by
// load-order side effects, and tests exercise fresh instances rather than
// mutating the defaults.
//
// # Adding a New Component
//
// Implement a from-config constructor matching the registry signature and
// register it once during startup:
//
//	if err := registry.Datasets.Register("kafka", NewKafkaFromConfig); err != nil {
//	    return err
//	}
//
// Registering a name twice is a hard error, not a silent overwrite.
package registry

import (
	"sort"
	"sync"

	"github.com/johnnynunez/ClassyVision/internal/dataset"
	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/internal/transforms"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// DatasetConstructor creates a dataset from its configuration. The
// transform chain is already built from the config's "transforms" list and
// passed in; the constructor extracts its own keys from cfg.Extra and
// ignores unrelated ones.
type DatasetConstructor func(cfg *classy.DatasetConfig, transform transforms.Transform) (*dataset.Dataset, error)

// TransformConstructor creates a transform from its configuration map.
// Nested transform blocks are built recursively through the factory.
type TransformConstructor func(cfg map[string]any) (transforms.Transform, error)

// Registry maps unique string identifiers to constructors. Registration
// happens at startup; lookups are read-only thereafter. Safe for
// concurrent use.
type Registry[T any] struct {
	mu      sync.RWMutex
	kind    string
	entries map[string]T
}

// New creates an empty registry. kind names the registered component type
// ("dataset", "transform") in error messages.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:    kind,
		entries: make(map[string]T),
	}
}

// Register binds name to a constructor. A duplicate name is a build-time
// error, never a silent overwrite.
func (r *Registry[T]) Register(name string, constructor T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return errhandling.NewDuplicateIdentifierError(r.kind, name)
	}
	r.entries[name] = constructor
	return nil
}

// Get returns the constructor registered under name, or an
// UnknownIdentifierError listing the registered names.
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	constructor, ok := r.entries[name]
	if !ok {
		var zero T
		return zero, errhandling.NewUnknownIdentifierError(r.kind, name, r.namesLocked())
	}
	return constructor, nil
}

// Names returns all registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// namesLocked collects sorted names; callers hold r.mu.
func (r *Registry[T]) namesLocked() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default registries resolved by the factory. Populated by
// RegisterBuiltins plus any application-level registrations at startup.
var (
	Datasets   = New[DatasetConstructor]("dataset")
	Transforms = New[TransformConstructor]("transform")
)
