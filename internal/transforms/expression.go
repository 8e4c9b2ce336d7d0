// Expression transform derives sample fields from expr-lang expressions.
package transforms

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// Expression evaluates a compiled expression against the fields of a
// mapping-shaped sample and binds the result to a target field. The
// expression sees every field by name as a variable.
type Expression struct {
	source  string
	target  string
	program *vm.Program
}

// NewExpression compiles source and creates the transform. Compilation
// errors surface at construction, not at apply time.
func NewExpression(source, target string) (*Expression, error) {
	if source == "" {
		return nil, errhandling.NewInvalidConfigError("expression must not be empty", nil)
	}
	if target == "" {
		return nil, errhandling.NewInvalidConfigError("expression target must not be empty", nil)
	}

	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, errhandling.NewInvalidConfigError(
			fmt.Sprintf("invalid expression %q", source), err)
	}
	return &Expression{source: source, target: target, program: program}, nil
}

// NewExpressionFromConfig creates an expression transform from
// configuration. Required keys: "expression" (string), "target" (string).
func NewExpressionFromConfig(cfg map[string]any) (Transform, error) {
	rawExpr, ok := cfg["expression"]
	if !ok {
		return nil, errhandling.NewMissingKeyError("expression", "expression")
	}
	source, ok := rawExpr.(string)
	if !ok {
		return nil, errhandling.NewInvalidConfigError("expression must be a string", nil)
	}

	rawTarget, ok := cfg["target"]
	if !ok {
		return nil, errhandling.NewMissingKeyError("expression", "target")
	}
	target, ok := rawTarget.(string)
	if !ok {
		return nil, errhandling.NewInvalidConfigError("expression target must be a string", nil)
	}

	return NewExpression(source, target)
}

// Apply implements Transform.
func (e *Expression) Apply(sample classy.Sample) (classy.Sample, error) {
	fields, ok := sample.Fields()
	if !ok {
		return classy.Sample{}, errhandling.NewShapeMismatchError("expression", "map", sample.Kind().String())
	}

	env := make(map[string]any, len(fields))
	for k, v := range fields {
		env[k] = v
	}

	result, err := expr.Run(e.program, env)
	if err != nil {
		return classy.Sample{}, fmt.Errorf("evaluating expression %q: %w", e.source, err)
	}

	fields[e.target] = result
	return classy.Map(fields), nil
}
