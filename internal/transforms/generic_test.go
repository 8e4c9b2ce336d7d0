package transforms

import (
	"reflect"
	"testing"

	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// TestGenericPairEquivalence checks the convenience transform against the
// manual composition of remap and key-scoped application, over a range of
// sample pairs and inner transforms.
func TestGenericPairEquivalence(t *testing.T) {
	clampInner, err := NewClamp(0, 10)
	if err != nil {
		t.Fatalf("NewClamp() failed: %v", err)
	}
	inners := []struct {
		name  string
		inner Transform
	}{
		{"scale", NewScale(3)},
		{"clamp", clampInner},
		{"chain", NewCompose(NewScale(2), clampInner)},
	}
	pairs := [][2]any{
		{[]float32{1, 2, 3}, float32(0)},
		{[]float32{-5, 50}, float32(1)},
		{[]float32{}, float32(2)},
	}

	for _, inner := range inners {
		t.Run(inner.name, func(t *testing.T) {
			generic, err := NewGenericPair(inner.inner)
			if err != nil {
				t.Fatalf("NewGenericPair() failed: %v", err)
			}

			remap, err := NewTupleToMap([]string{GenericInputKey, GenericTargetKey})
			if err != nil {
				t.Fatalf("NewTupleToMap() failed: %v", err)
			}
			scoped, err := NewApplyToKey(GenericInputKey, inner.inner)
			if err != nil {
				t.Fatalf("NewApplyToKey() failed: %v", err)
			}
			manual := NewCompose(remap, scoped)

			for _, pair := range pairs {
				sample := classy.Pair(pair[0], pair[1])

				fromGeneric, err := generic.Apply(sample)
				if err != nil {
					t.Fatalf("generic Apply() failed: %v", err)
				}
				fromManual, err := manual.Apply(sample)
				if err != nil {
					t.Fatalf("manual Apply() failed: %v", err)
				}

				genericFields, _ := fromGeneric.Fields()
				manualFields, _ := fromManual.Fields()
				if !reflect.DeepEqual(genericFields, manualFields) {
					t.Errorf("generic and manual composition differ: %v vs %v", genericFields, manualFields)
				}
			}
		})
	}
}

func TestGenericPairOutputShape(t *testing.T) {
	generic, err := NewGenericPair(NewScale(2))
	if err != nil {
		t.Fatalf("NewGenericPair() failed: %v", err)
	}

	out, err := generic.Apply(classy.Pair([]float32{1}, float32(5)))
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if out.Kind() != classy.KindMap {
		t.Fatalf("output kind = %v, want map", out.Kind())
	}
	input, _ := out.Field(GenericInputKey)
	if input.([]float32)[0] != 2 {
		t.Errorf("input = %v, want [2]", input)
	}
	target, _ := out.Field(GenericTargetKey)
	if target != float32(5) {
		t.Errorf("target = %v, want 5", target)
	}
}
