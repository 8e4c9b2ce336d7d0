package transforms

import (
	"testing"

	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

func TestExpressionDerivesField(t *testing.T) {
	tr, err := NewExpression("a + b", "sum")
	if err != nil {
		t.Fatalf("NewExpression() failed: %v", err)
	}

	out, err := tr.Apply(classy.Map(map[string]any{"a": 2, "b": 3}))
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	sum, _ := out.Field("sum")
	if sum != 5 {
		t.Errorf("sum = %v, want 5", sum)
	}
	// Source fields are preserved.
	if a, ok := out.Field("a"); !ok || a != 2 {
		t.Errorf("a = %v, want 2", a)
	}
}

func TestExpressionOverwritesTarget(t *testing.T) {
	tr, err := NewExpression("label * 2", "label")
	if err != nil {
		t.Fatalf("NewExpression() failed: %v", err)
	}

	out, err := tr.Apply(classy.Map(map[string]any{"label": 4}))
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if label, _ := out.Field("label"); label != 8 {
		t.Errorf("label = %v, want 8", label)
	}
}

func TestExpressionCompileErrorAtConstruction(t *testing.T) {
	_, err := NewExpression("a +* b", "out")
	if !errhandling.IsCode(err, errhandling.CodeInvalidConfig) {
		t.Errorf("error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeInvalidConfig)
	}
}

func TestExpressionRejectsNonMapSample(t *testing.T) {
	tr, err := NewExpression("a", "out")
	if err != nil {
		t.Fatalf("NewExpression() failed: %v", err)
	}

	_, err = tr.Apply(classy.Value(1))
	if !errhandling.IsCode(err, errhandling.CodeShapeMismatch) {
		t.Errorf("error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeShapeMismatch)
	}
}

func TestExpressionFromConfig(t *testing.T) {
	tr, err := NewExpressionFromConfig(map[string]any{"expression": "x + 1", "target": "y"})
	if err != nil {
		t.Fatalf("NewExpressionFromConfig() failed: %v", err)
	}

	out, err := tr.Apply(classy.Map(map[string]any{"x": 1}))
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if y, _ := out.Field("y"); y != 2 {
		t.Errorf("y = %v, want 2", y)
	}
}

func TestExpressionFromConfigMissingKeys(t *testing.T) {
	_, err := NewExpressionFromConfig(map[string]any{"target": "y"})
	if !errhandling.IsCode(err, errhandling.CodeMissingKey) {
		t.Errorf("error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeMissingKey)
	}

	_, err = NewExpressionFromConfig(map[string]any{"expression": "x"})
	if !errhandling.IsCode(err, errhandling.CodeMissingKey) {
		t.Errorf("error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeMissingKey)
	}
}
