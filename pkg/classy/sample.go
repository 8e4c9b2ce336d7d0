// Package classy provides public types for configurable dataset pipelines.
// This package is intended to be importable by external projects that need
// to feed their own data sources and transforms into the runtime.
package classy

import "fmt"

// SampleKind identifies the shape of a Sample.
// Samples are a tagged union: a single value, an ordered (content, label)
// pair, or a mapping with string keys. Transforms declare which shape they
// expect and fail with a typed error on mismatch.
type SampleKind int

// Sample shapes.
const (
	// KindValue is a single opaque value (e.g., a float32 vector).
	KindValue SampleKind = iota

	// KindPair is an ordered (content, label) pair.
	KindPair

	// KindMap is a mapping with string keys (e.g., "input", "target").
	KindMap
)

// String returns the human-readable name of the sample kind.
func (k SampleKind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindPair:
		return "pair"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Sample is an immutable, producer-defined data point. Construct one with
// Value, Pair, or Map; inspect it with Kind and the shape accessors.
//
// Samples are value types and safe to share across goroutines as long as
// the underlying payloads are treated as read-only, which is the contract
// for all transforms and sources in this runtime.
type Sample struct {
	kind   SampleKind
	value  any
	first  any
	second any
	fields map[string]any
}

// Value creates a single-value sample.
func Value(v any) Sample {
	return Sample{kind: KindValue, value: v}
}

// Pair creates an ordered (content, label) pair sample.
func Pair(first, second any) Sample {
	return Sample{kind: KindPair, first: first, second: second}
}

// Map creates a mapping-shaped sample. The fields map is copied so later
// mutation by the caller cannot leak into the sample.
func Map(fields map[string]any) Sample {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Sample{kind: KindMap, fields: copied}
}

// Kind returns the shape of the sample.
func (s Sample) Kind() SampleKind {
	return s.kind
}

// Value returns the payload of a single-value sample.
// The second return is false if the sample is not value-shaped.
func (s Sample) Value() (any, bool) {
	if s.kind != KindValue {
		return nil, false
	}
	return s.value, true
}

// Pair returns the (content, label) payload of a pair sample.
// The third return is false if the sample is not pair-shaped.
func (s Sample) Pair() (any, any, bool) {
	if s.kind != KindPair {
		return nil, nil, false
	}
	return s.first, s.second, true
}

// Fields returns a shallow copy of the fields of a mapping-shaped sample.
// The second return is false if the sample is not map-shaped.
func (s Sample) Fields() (map[string]any, bool) {
	if s.kind != KindMap {
		return nil, false
	}
	copied := make(map[string]any, len(s.fields))
	for k, v := range s.fields {
		copied[k] = v
	}
	return copied, true
}

// Field returns the value bound to key in a mapping-shaped sample.
// The second return is false if the sample is not map-shaped or the key
// is absent.
func (s Sample) Field(key string) (any, bool) {
	if s.kind != KindMap {
		return nil, false
	}
	v, ok := s.fields[key]
	return v, ok
}

// Batch is an ordered group of transformed samples produced by an iterator,
// together with the source indices they were fetched from.
type Batch struct {
	// Samples holds the transformed samples in batch order.
	Samples []Sample

	// Indices holds the pre-transform source index of each sample.
	Indices []int
}

// Len returns the number of samples in the batch.
func (b Batch) Len() int {
	return len(b.Samples)
}
