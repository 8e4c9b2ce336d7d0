package dataset

import (
	"errors"
	"testing"

	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/internal/transforms"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// stubSource returns Value(index) for every index.
type stubSource struct {
	length int
	getErr error
}

func (s *stubSource) Length() int { return s.length }

func (s *stubSource) Get(index int) (classy.Sample, error) {
	if s.getErr != nil {
		return classy.Sample{}, s.getErr
	}
	return classy.Value([]float32{float32(index)}), nil
}

func TestLenUsesNumSamplesCap(t *testing.T) {
	tests := []struct {
		name       string
		length     int
		numSamples int
		want       int
	}{
		{"capped", 100, 10, 10},
		{"uncapped", 100, 0, 100},
		{"cap equals length", 100, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := New("stub", &stubSource{length: tt.length}, nil, 1, false, tt.numSamples, false)
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			if got := ds.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetOutOfRange(t *testing.T) {
	ds, err := New("stub", &stubSource{length: 100}, nil, 1, false, 0, false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	for _, index := range []int{-1, 100, 1000} {
		_, err := ds.Get(index)
		if !errhandling.IsCode(err, errhandling.CodeIndexOutOfRange) {
			t.Errorf("Get(%d) error code = %q, want %q", index, errhandling.GetCode(err), errhandling.CodeIndexOutOfRange)
		}
	}
}

func TestGetRespectsCap(t *testing.T) {
	ds, err := New("stub", &stubSource{length: 100}, nil, 1, false, 10, false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, err := ds.Get(9); err != nil {
		t.Errorf("Get(9) failed: %v", err)
	}
	_, err = ds.Get(10)
	if !errhandling.IsCode(err, errhandling.CodeIndexOutOfRange) {
		t.Errorf("Get(10) error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeIndexOutOfRange)
	}
}

func TestGetAppliesTransform(t *testing.T) {
	ds, err := New("stub", &stubSource{length: 10}, transforms.NewScale(2), 1, false, 0, false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	sample, err := ds.Get(3)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	v, _ := sample.Value()
	if v.([]float32)[0] != 6 {
		t.Errorf("Get(3) = %v, want [6]", v)
	}
}

func TestSourceErrorPropagatesUnmodified(t *testing.T) {
	sourceErr := errors.New("backing store unavailable")
	ds, err := New("stub", &stubSource{length: 10, getErr: sourceErr}, nil, 1, false, 0, false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = ds.Get(0)
	if !errors.Is(err, sourceErr) {
		t.Errorf("Get() error = %v, want the source error", err)
	}
}

func TestConstructionValidation(t *testing.T) {
	source := &stubSource{length: 10}
	tests := []struct {
		name       string
		source     Source
		batchSize  int
		numSamples int
	}{
		{"nil source", nil, 1, 0},
		{"zero batch size", source, 0, 0},
		{"negative batch size", source, -1, 0},
		{"negative num samples", source, 1, -1},
		{"num samples beyond length", source, 1, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("stub", tt.source, nil, tt.batchSize, false, tt.numSamples, false)
			if !errhandling.IsCode(err, errhandling.CodeInvalidConfig) {
				t.Errorf("error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeInvalidConfig)
			}
		})
	}
}

func TestIteratorEndToEnd(t *testing.T) {
	// Base collection of length 100, batch size 10, no shuffle, identity
	// transform: exactly 10 batches of 10 covering indices 0..99 in order.
	ds, err := New("stub", &stubSource{length: 100}, nil, 10, false, 0, false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	it, err := ds.Iterator(classy.IteratorOptions{})
	if err != nil {
		t.Fatalf("Iterator() failed: %v", err)
	}
	defer it.Close()

	next := 0
	batches := 0
	for it.Next() {
		batch := it.Batch()
		if batch.Len() != 10 {
			t.Errorf("batch %d size = %d, want 10", batches, batch.Len())
		}
		for _, sample := range batch.Samples {
			v, _ := sample.Value()
			if v.([]float32)[0] != float32(next) {
				t.Fatalf("sample out of order: got %v, want %d", v, next)
			}
			next++
		}
		batches++
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iteration failed: %v", err)
	}
	if batches != 10 || next != 100 {
		t.Errorf("got %d batches covering %d samples, want 10 batches covering 100", batches, next)
	}
}
