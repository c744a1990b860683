// Package formula models reachability formulas over Petri-net
// markings: boolean combinations of linear constraints on place
// token counts.
package formula

import (
	"fmt"
	"sort"
	"strings"
)

// NoIndex encodes symbols without an unrolling index (plain `p`
// instead of `p@k`).
const NoIndex = -1

// SimpleExpression is an arithmetic term over place markings. It
// cannot be evaluated to true or false on its own.
type SimpleExpression interface {
	fmt.Stringer

	// SMT lowers the term to an SMT-LIB s-expression with every
	// place symbol indexed by k (NoIndex for unindexed symbols).
	SMT(k int) string

	// places appends the place identifiers referenced by the term.
	places(ids map[string]bool)

	// exprSrc appends expr-lang source evaluating the term against
	// a marking bound to the variable m.
	exprSrc(b *strings.Builder)
}

// Expression is a boolean-valued formula node.
type Expression interface {
	SimpleExpression
	isExpression()
}

// Assert wraps the lowering of e at index k in an SMT-LIB assertion,
// negated when negate is set.
func Assert(e Expression, k int, negate bool) string {
	smt := e.SMT(k)
	if negate {
		smt = fmt.Sprintf("(not %s)", smt)
	}
	return fmt.Sprintf("(assert %s)\n", smt)
}

// Places returns the sorted set of place identifiers referenced by e.
func Places(e Expression) []string {
	ids := make(map[string]bool)
	e.places(ids)
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IntegerConstant is a literal term.
type IntegerConstant int

func (c IntegerConstant) String() string { return fmt.Sprintf("%d", int(c)) }

func (c IntegerConstant) SMT(int) string { return c.String() }

func (c IntegerConstant) places(map[string]bool) {}

func (c IntegerConstant) exprSrc(b *strings.Builder) { b.WriteString(c.String()) }

// TokenCount is a weighted sum of place markings plus an optional
// constant: k1*p1 + ... + kn*pn + c. A missing multiplier is 1.
type TokenCount struct {
	Places      []string
	Multipliers map[string]int
	Constant    int
}

func (t *TokenCount) String() string {
	parts := make([]string, 0, len(t.Places)+1)
	for _, p := range t.Places {
		if m, ok := t.Multipliers[p]; ok {
			parts = append(parts, fmt.Sprintf("%d*%s", m, p))
		} else {
			parts = append(parts, p)
		}
	}
	if t.Constant != 0 {
		parts = append(parts, fmt.Sprintf("%d", t.Constant))
	}
	return strings.Join(parts, " + ")
}

func (t *TokenCount) SMT(k int) string {
	terms := make([]string, 0, len(t.Places)+1)
	for _, p := range t.Places {
		sym := Symbol(p, k)
		if m, ok := t.Multipliers[p]; ok {
			sym = fmt.Sprintf("(* %s %d)", sym, m)
		}
		terms = append(terms, sym)
	}
	if t.Constant != 0 {
		terms = append(terms, fmt.Sprintf("%d", t.Constant))
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return fmt.Sprintf("(+ %s)", strings.Join(terms, " "))
}

func (t *TokenCount) places(ids map[string]bool) {
	for _, p := range t.Places {
		ids[p] = true
	}
}

func (t *TokenCount) exprSrc(b *strings.Builder) {
	for i, p := range t.Places {
		if i > 0 {
			b.WriteString(" + ")
		}
		if m, ok := t.Multipliers[p]; ok {
			fmt.Fprintf(b, "%d*", m)
		}
		fmt.Fprintf(b, "m[%q]", p)
	}
	if t.Constant != 0 || len(t.Places) == 0 {
		if len(t.Places) > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(b, "%d", t.Constant)
	}
}

// BooleanConstant is the T or F literal.
type BooleanConstant bool

func (c BooleanConstant) String() string {
	if c {
		return "T"
	}
	return "F"
}

func (c BooleanConstant) SMT(int) string {
	if c {
		return "true"
	}
	return "false"
}

func (c BooleanConstant) places(map[string]bool) {}

func (c BooleanConstant) exprSrc(b *strings.Builder) {
	if c {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}
}

func (c BooleanConstant) isExpression() {}

// Relational operators accepted by Atom. NotEqual is spelled
// `distinct` in SMT-LIB.
const (
	Equal          = "="
	LessEqual      = "<="
	GreaterEqual   = ">="
	Less           = "<"
	Greater        = ">"
	NotEqual       = "distinct"
	sourceNotEqual = "!="
)

// Atom is a relational constraint between two terms.
type Atom struct {
	Left  SimpleExpression
	Right SimpleExpression
	Op    string
}

// NewAtom builds an atom, mapping the source operator != to distinct.
func NewAtom(left, right SimpleExpression, op string) (*Atom, error) {
	if op == sourceNotEqual {
		op = NotEqual
	}
	switch op {
	case Equal, LessEqual, GreaterEqual, Less, Greater, NotEqual:
		return &Atom{Left: left, Right: right, Op: op}, nil
	}
	return nil, &ParseError{Msg: fmt.Sprintf("invalid operator %q for an atom", op)}
}

func (a *Atom) String() string {
	op := a.Op
	if op == NotEqual {
		op = sourceNotEqual
	}
	return fmt.Sprintf("%s %s %s", a.Left, op, a.Right)
}

func (a *Atom) SMT(k int) string {
	return fmt.Sprintf("(%s %s %s)", a.Op, a.Left.SMT(k), a.Right.SMT(k))
}

func (a *Atom) places(ids map[string]bool) {
	a.Left.places(ids)
	a.Right.places(ids)
}

func (a *Atom) exprSrc(b *strings.Builder) {
	op := a.Op
	switch op {
	case Equal:
		op = "=="
	case NotEqual:
		op = "!="
	}
	b.WriteString("(")
	a.Left.exprSrc(b)
	fmt.Fprintf(b, " %s ", op)
	a.Right.exprSrc(b)
	b.WriteString(")")
}

func (a *Atom) isExpression() {}

// Boolean connectives accepted by StateFormula.
const (
	Not = "not"
	And = "and"
	Or  = "or"
)

// StateFormula is an n-ary boolean combination of expressions.
type StateFormula struct {
	Operands []Expression
	Op       string
}

// NewStateFormula builds a boolean node; not takes exactly one
// operand.
func NewStateFormula(operands []Expression, op string) (*StateFormula, error) {
	switch op {
	case Not:
		if len(operands) != 1 {
			return nil, &ParseError{Msg: fmt.Sprintf("not takes one operand, got %d", len(operands))}
		}
	case And, Or:
		if len(operands) == 0 {
			return nil, &ParseError{Msg: op + " needs at least one operand"}
		}
	default:
		return nil, &ParseError{Msg: fmt.Sprintf("invalid operator %q for a state formula", op)}
	}
	return &StateFormula{Operands: operands, Op: op}, nil
}

func (s *StateFormula) String() string {
	if s.Op == Not {
		return fmt.Sprintf("- (%s)", s.Operands[0])
	}
	sep := ` /\ `
	if s.Op == Or {
		sep = ` \/ `
	}
	parts := make([]string, len(s.Operands))
	for i, o := range s.Operands {
		parts[i] = o.String()
	}
	text := strings.Join(parts, sep)
	if len(s.Operands) > 1 {
		text = "(" + text + ")"
	}
	return text
}

func (s *StateFormula) SMT(k int) string {
	parts := make([]string, len(s.Operands))
	for i, o := range s.Operands {
		parts[i] = o.SMT(k)
	}
	joined := strings.Join(parts, " ")
	if len(s.Operands) > 1 || s.Op == Not {
		return fmt.Sprintf("(%s %s)", s.Op, joined)
	}
	return joined
}

func (s *StateFormula) places(ids map[string]bool) {
	for _, o := range s.Operands {
		o.places(ids)
	}
}

func (s *StateFormula) exprSrc(b *strings.Builder) {
	if s.Op == Not {
		b.WriteString("!(")
		s.Operands[0].exprSrc(b)
		b.WriteString(")")
		return
	}
	op := " && "
	if s.Op == Or {
		op = " || "
	}
	b.WriteString("(")
	for i, o := range s.Operands {
		if i > 0 {
			b.WriteString(op)
		}
		o.exprSrc(b)
	}
	b.WriteString(")")
}

func (s *StateFormula) isExpression() {}

// Symbol is the frame variable for place p at unrolling index k.
// Symbols at different indices are never aliased.
func Symbol(p string, k int) string {
	if k == NoIndex {
		return p
	}
	return fmt.Sprintf("%s@%d", p, k)
}
