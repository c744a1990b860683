package formula

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/jt05610/reach"
)

// Evaluator decides a formula against a concrete marking.
type Evaluator func(m reach.Marking) (bool, error)

// Validate checks that every place referenced by e exists in the net.
func Validate(e Expression, net *reach.Net) error {
	for _, id := range Places(e) {
		if net.Place(id) == nil {
			return fmt.Errorf("formula references unknown place %s", id)
		}
	}
	return nil
}

// Compile lowers the formula to an executable program over concrete
// markings. Used to check candidate witnesses and fixtures without a
// solver round trip.
func Compile(e Expression, net *reach.Net) (Evaluator, error) {
	if err := Validate(e, net); err != nil {
		return nil, err
	}
	var b strings.Builder
	e.exprSrc(&b)

	program, err := expr.Compile(b.String(),
		expr.Env(map[string]interface{}{"m": map[string]int{}}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile formula: %w", err)
	}
	return func(m reach.Marking) (bool, error) {
		out, err := expr.Run(program, map[string]interface{}{"m": map[string]int(m)})
		if err != nil {
			return false, err
		}
		return out.(bool), nil
	}, nil
}
