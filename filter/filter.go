// Package filter compiles boolean expressions used to narrow API result
// lists on the command line, e.g. `num(Frequency) > 1000` against deep items
// or `Code == "225"` against regions.
package filter

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CompilationError describes a filter expression that failed to compile.
type CompilationError struct {
	Expression string
	Reason     string
	Err        error
}

// Error implements the error interface.
func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid filter %q: %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid filter %q: %s", e.Expression, e.Reason)
}

// Unwrap returns the underlying compiler error, if any.
func (e *CompilationError) Unwrap() error {
	return e.Err
}

// helperFuncs are available inside every filter expression.
var helperFuncs = map[string]any{
	// num converts a numeric string (deep-item frequencies come over the
	// wire as strings) to an int, yielding 0 when unparsable.
	"num": func(s string) int {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return n
	},
}

// Filter is a compiled boolean expression.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression into an executable filter.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFuncs),
		expr.AllowUndefinedVariables(), // result fields are supplied at run time
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{expression: expression, program: program}, nil
}

// Expression returns the source expression.
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against one result's fields.
func (f *Filter) Match(fields map[string]any) (bool, error) {
	env := make(map[string]any, len(fields)+len(helperFuncs))
	maps.Copy(env, helperFuncs)
	maps.Copy(env, fields)

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.expression, err)
	}

	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q did not evaluate to a boolean", f.expression)
	}
	return result, nil
}
