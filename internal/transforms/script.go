// Script transform executes JavaScript transformations using the Goja engine.
package transforms

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// MaxScriptLength is the maximum allowed script length in bytes (100KB).
const MaxScriptLength = 100 * 1024

// Script runs a JavaScript transform(sample) function over mapping-shaped
// samples. The script is compiled once at construction; the function must
// return an object, which becomes the new sample fields.
//
// A single Goja runtime is not goroutine-safe, so Apply serializes on a
// mutex. The script must treat its argument as read-only to honor the
// pure-transform contract.
type Script struct {
	mu        sync.Mutex
	runtime   *goja.Runtime
	transform goja.Callable
}

// NewScript compiles source and resolves its transform function.
func NewScript(source string) (*Script, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errhandling.NewInvalidConfigError("script must not be empty", nil)
	}
	if len(source) > MaxScriptLength {
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("script length %d exceeds maximum %d", len(source), MaxScriptLength), nil)
	}

	runtime := goja.New()
	if _, err := runtime.RunString(source); err != nil {
		return nil, errhandling.NewInvalidConfigError("script compilation failed", err)
	}

	transformValue := runtime.Get("transform")
	if transformValue == nil || goja.IsUndefined(transformValue) {
		return nil, errhandling.NewInvalidConfigError("script does not define a transform function", nil)
	}
	transform, ok := goja.AssertFunction(transformValue)
	if !ok {
		return nil, errhandling.NewInvalidConfigError("script transform is not a function", nil)
	}

	return &Script{runtime: runtime, transform: transform}, nil
}

// NewScriptFromConfig creates a script transform from configuration.
// Required key: "script" (inline JavaScript defining transform(sample)).
func NewScriptFromConfig(cfg map[string]any) (Transform, error) {
	raw, ok := cfg["script"]
	if !ok {
		return nil, errhandling.NewMissingKeyError("script", "script")
	}
	source, ok := raw.(string)
	if !ok {
		return nil, errhandling.NewInvalidConfigError("script must be a string", nil)
	}
	return NewScript(source)
}

// Apply implements Transform.
func (s *Script) Apply(sample classy.Sample) (classy.Sample, error) {
	fields, ok := sample.Fields()
	if !ok {
		return classy.Sample{}, errhandling.NewShapeMismatchError("script", "map", sample.Kind().String())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.transform(goja.Undefined(), s.runtime.ToValue(fields))
	if err != nil {
		return classy.Sample{}, fmt.Errorf("script execution failed: %w", err)
	}

	exported := result.Export()
	out, ok := exported.(map[string]any)
	if !ok {
		return classy.Sample{}, fmt.Errorf("script transform must return an object, got %T", exported)
	}
	return classy.Map(out), nil
}
