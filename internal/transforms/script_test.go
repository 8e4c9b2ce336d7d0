package transforms

import (
	"testing"

	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

const doublingScript = `
function transform(sample) {
	return { value: sample.value * 2, label: sample.label };
}
`

func TestScriptTransformsSample(t *testing.T) {
	tr, err := NewScript(doublingScript)
	if err != nil {
		t.Fatalf("NewScript() failed: %v", err)
	}

	out, err := tr.Apply(classy.Map(map[string]any{"value": int64(3), "label": int64(1)}))
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	value, _ := out.Field("value")
	if value != int64(6) {
		t.Errorf("value = %v (%T), want 6", value, value)
	}
	label, _ := out.Field("label")
	if label != int64(1) {
		t.Errorf("label = %v, want 1", label)
	}
}

func TestScriptValidation(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"empty", "   "},
		{"no transform function", "var x = 1;"},
		{"transform not a function", "var transform = 42;"},
		{"syntax error", "function transform(sample) {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScript(tt.script)
			if !errhandling.IsCode(err, errhandling.CodeInvalidConfig) {
				t.Errorf("error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeInvalidConfig)
			}
		})
	}
}

func TestScriptRejectsOversizedSource(t *testing.T) {
	big := make([]byte, MaxScriptLength+1)
	for i := range big {
		big[i] = ' '
	}
	copy(big, "function transform(s) { return s; }")

	_, err := NewScript(string(big))
	if !errhandling.IsCode(err, errhandling.CodeInvalidConfig) {
		t.Errorf("error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeInvalidConfig)
	}
}

func TestScriptRejectsNonMapSample(t *testing.T) {
	tr, err := NewScript(doublingScript)
	if err != nil {
		t.Fatalf("NewScript() failed: %v", err)
	}

	_, err = tr.Apply(classy.Value(1))
	if !errhandling.IsCode(err, errhandling.CodeShapeMismatch) {
		t.Errorf("error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeShapeMismatch)
	}
}

func TestScriptNonObjectReturn(t *testing.T) {
	tr, err := NewScript("function transform(sample) { return 42; }")
	if err != nil {
		t.Fatalf("NewScript() failed: %v", err)
	}

	if _, err := tr.Apply(classy.Map(map[string]any{"x": 1})); err == nil {
		t.Error("Apply() accepted a non-object script result")
	}
}

func TestScriptFromConfig(t *testing.T) {
	tr, err := NewScriptFromConfig(map[string]any{"script": doublingScript})
	if err != nil {
		t.Fatalf("NewScriptFromConfig() failed: %v", err)
	}
	if _, err := tr.Apply(classy.Map(map[string]any{"value": int64(1), "label": int64(0)})); err != nil {
		t.Errorf("Apply() failed: %v", err)
	}

	_, err = NewScriptFromConfig(map[string]any{})
	if !errhandling.IsCode(err, errhandling.CodeMissingKey) {
		t.Errorf("error code = %q, want %q", errhandling.GetCode(err), errhandling.CodeMissingKey)
	}
}
