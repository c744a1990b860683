// Package smtlib encodes a Petri net and a reachability formula as
// incremental SMT-LIB v2 text over integer frame variables. Every
// function is a pure function of the net and the unrolling index;
// callers feed the output to a solver in whatever order their proof
// strategy requires.
package smtlib

import (
	"fmt"
	"strings"

	"github.com/jt05610/reach"
	"github.com/jt05610/reach/analysis"
	"github.com/jt05610/reach/formula"
)

// NoIndex requests unindexed symbols, for the single-frame encodings.
const NoIndex = formula.NoIndex

// DeclarePlaces declares one integer frame variable per place at
// index k, each with its non-negativity assertion.
func DeclarePlaces(n *reach.Net, k int) string {
	var b strings.Builder
	for _, p := range n.Places() {
		sym := formula.Symbol(p.ID, k)
		fmt.Fprintf(&b, "(declare-const %s Int)\n", sym)
		fmt.Fprintf(&b, "(assert (>= %s 0))\n", sym)
	}
	return b.String()
}

// InitialMarking pins the frame at index k to the net's initial
// marking.
func InitialMarking(n *reach.Net, k int) string {
	var b strings.Builder
	for _, p := range n.Places() {
		fmt.Fprintf(&b, "(assert (= %s %d))\n", formula.Symbol(p.ID, k), p.Initial)
	}
	return b.String()
}

// AssertFormula lowers the formula at index k into an assertion,
// negated when negate is set.
func AssertFormula(e formula.Expression, k int, negate bool) string {
	return formula.Assert(e, k, negate)
}

// TransitionRelation relates the frames at k and k1: exactly one
// transition fires, consuming its pre weights and producing its post
// weights, with every untouched place left unchanged. There is no
// idle disjunct, so a k-step unrolling enumerates firing sequences of
// exactly length k. A net with no transitions has an unsatisfiable
// relation.
func TransitionRelation(n *reach.Net, k, k1 int) string {
	transitions := n.Transitions()
	if len(transitions) == 0 {
		return "(assert false)\n"
	}
	disjuncts := make([]string, len(transitions))
	for i, t := range transitions {
		disjuncts[i] = fires(n, t, k, k1)
	}
	if len(disjuncts) == 1 {
		return fmt.Sprintf("(assert %s)\n", disjuncts[0])
	}
	return fmt.Sprintf("(assert (or %s))\n", strings.Join(disjuncts, " "))
}

func fires(n *reach.Net, t *reach.Transition, k, k1 int) string {
	var conjuncts []string

	touched := make(map[string]bool)
	for _, p := range t.Connected() {
		touched[p] = true
	}
	for _, p := range t.Connected() {
		cur := formula.Symbol(p, k)
		next := formula.Symbol(p, k1)
		if w := t.Pre[p]; w > 0 {
			conjuncts = append(conjuncts, fmt.Sprintf("(>= %s %d)", cur, w))
		}
		switch delta := t.Delta(p); {
		case delta > 0:
			conjuncts = append(conjuncts, fmt.Sprintf("(= %s (+ %s %d))", next, cur, delta))
		case delta < 0:
			conjuncts = append(conjuncts, fmt.Sprintf("(= %s (- %s %d))", next, cur, -delta))
		default:
			conjuncts = append(conjuncts, fmt.Sprintf("(= %s %s)", next, cur))
		}
	}
	for _, p := range n.Places() {
		if !touched[p.ID] {
			conjuncts = append(conjuncts, fmt.Sprintf("(= %s %s)",
				formula.Symbol(p.ID, k1), formula.Symbol(p.ID, k)))
		}
	}
	if len(conjuncts) == 1 {
		return conjuncts[0]
	}
	return fmt.Sprintf("(and %s)", strings.Join(conjuncts, " "))
}

// FiringSymbol is the non-negative firing-count variable for
// transition t in the state-equation encoding.
func FiringSymbol(t string) string {
	return "x@" + t
}

// DeclareFiringCounts declares one non-negative firing-count variable
// per transition.
func DeclareFiringCounts(n *reach.Net) string {
	var b strings.Builder
	for _, t := range n.Transitions() {
		sym := FiringSymbol(t.ID)
		fmt.Fprintf(&b, "(declare-const %s Int)\n", sym)
		fmt.Fprintf(&b, "(assert (>= %s 0))\n", sym)
	}
	return b.String()
}

// StateEquation asserts, over the unindexed place variables, that the
// marking solves m = m0 + C^T x for some firing-count vector x. It is
// a sound over-approximation of reachability: markings violating it
// are unreachable, but a solution may not correspond to any firing
// sequence.
func StateEquation(n *reach.Net) string {
	incidence := (&analysis.Net{Net: n}).Incidence()
	transitions := n.Transitions()

	var b strings.Builder
	for j, p := range n.Places() {
		terms := []string{fmt.Sprintf("%d", p.Initial)}
		for i, t := range transitions {
			switch c := int(incidence.At(i, j)); {
			case c > 0:
				terms = append(terms, fmt.Sprintf("(* %d %s)", c, FiringSymbol(t.ID)))
			case c < 0:
				terms = append(terms, fmt.Sprintf("(* (- %d) %s)", -c, FiringSymbol(t.ID)))
			}
		}
		sum := terms[0]
		if len(terms) > 1 {
			sum = fmt.Sprintf("(+ %s)", strings.Join(terms, " "))
		}
		fmt.Fprintf(&b, "(assert (= %s %s))\n", formula.Symbol(p.ID, NoIndex), sum)
	}
	return b.String()
}
