package dataset

import (
	"testing"

	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

func TestSyntheticSourceDeterministic(t *testing.T) {
	source, err := NewSyntheticSource(10, 4, 3)
	if err != nil {
		t.Fatalf("NewSyntheticSource() failed: %v", err)
	}

	if source.Length() != 10 {
		t.Errorf("Length() = %d, want 10", source.Length())
	}

	first, err := source.Get(2)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	again, err := source.Get(2)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	vec1, label1, _ := first.Pair()
	vec2, label2, _ := again.Pair()
	v1, v2 := vec1.([]float32), vec2.([]float32)
	for j := range v1 {
		if v1[j] != v2[j] {
			t.Fatal("repeated Get() returned different vectors")
		}
		if v1[j] != float32(2*4+j) {
			t.Errorf("element %d = %v, want %v", j, v1[j], float32(2*4+j))
		}
	}
	if label1 != label2 || label1 != float32(2%3) {
		t.Errorf("label = %v, want %v", label1, float32(2%3))
	}
}

func TestSyntheticSourceRange(t *testing.T) {
	source, err := NewSyntheticSource(5, 2, 2)
	if err != nil {
		t.Fatalf("NewSyntheticSource() failed: %v", err)
	}

	_, err = source.Get(5)
	if !errhandling.IsCode(err, errhandling.CodeIndexOutOfRange) {
		t.Errorf("error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeIndexOutOfRange)
	}
}

func TestSyntheticSourceValidation(t *testing.T) {
	tests := []struct {
		name                    string
		length, dim, numClasses int
	}{
		{"zero length", 0, 2, 2},
		{"zero dim", 5, 0, 2},
		{"zero classes", 5, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSyntheticSource(tt.length, tt.dim, tt.numClasses); err == nil {
				t.Error("NewSyntheticSource() accepted invalid parameters")
			}
		})
	}
}

func TestNewSyntheticFromConfig(t *testing.T) {
	cfg := &classy.DatasetConfig{
		Name:                "synthetic",
		BatchsizePerReplica: 4,
		Shuffle:             true,
		Extra:               map[string]any{"length": 20.0, "dim": 3.0},
	}

	ds, err := NewSyntheticFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("NewSyntheticFromConfig() failed: %v", err)
	}
	if ds.Len() != 20 {
		t.Errorf("Len() = %d, want 20", ds.Len())
	}

	sample, err := ds.Get(0)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	vec, _, ok := sample.Pair()
	if !ok {
		t.Fatal("sample is not pair-shaped")
	}
	if len(vec.([]float32)) != 3 {
		t.Errorf("dim = %d, want 3", len(vec.([]float32)))
	}
}

func TestNewSyntheticFromConfigMissingLength(t *testing.T) {
	cfg := &classy.DatasetConfig{
		Name:                "synthetic",
		BatchsizePerReplica: 4,
		Extra:               map[string]any{},
	}

	_, err := NewSyntheticFromConfig(cfg, nil)
	if !errhandling.IsCode(err, errhandling.CodeMissingKey) {
		t.Errorf("error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeMissingKey)
	}
}

func TestNewSyntheticFromConfigRejectsFractionalLength(t *testing.T) {
	cfg := &classy.DatasetConfig{
		Name:                "synthetic",
		BatchsizePerReplica: 4,
		Extra:               map[string]any{"length": 2.5},
	}

	_, err := NewSyntheticFromConfig(cfg, nil)
	if !errhandling.IsCode(err, errhandling.CodeInvalidConfig) {
		t.Errorf("error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeInvalidConfig)
	}
}
