package formula

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ParseError reports malformed formula text.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "parse formula: " + e.Msg }

var (
	relational = regexp.MustCompile(`(<=|>=|!=|<|>|=)`)

	operators = map[string]string{
		"-":  Not,
		`/\`: And,
		`\/`: Or,
	}
)

// ParseFile reads a whole file as one formula.
func ParseFile(path string) (Expression, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(strings.TrimSpace(string(text)))
}

// Parse builds the expression tree for a reachability formula.
//
// Grammar, loosest to tightest: \/ and /\ connectives, unary -, then
// relational atoms over sums of weighted places. Runs of the same
// connective at one nesting depth flatten into a single n-ary node; a
// different connective at the same depth closes the pending group
// first, giving left-to-right grouping.
func Parse(text string) (Expression, error) {
	p := &parser{
		operands: [][]SimpleExpression{{}},
	}
	for _, token := range tokenize(text) {
		if token == "" || token == " " {
			continue
		}
		var err error
		switch {
		case operators[token] != "":
			err = p.operator(operators[token])
		case token == "(":
			p.open()
		case token == ")":
			err = p.close()
		case token == "T" || token == "F":
			p.push(BooleanConstant(token == "T"))
		default:
			err = p.atom(token)
		}
		if err != nil {
			return nil, err
		}
	}
	return p.finish()
}

type opEntry struct {
	op    string
	depth int
}

type parser struct {
	openParens int
	operators  []opEntry
	operands   [][]SimpleExpression
	current    string
	parseAtom  bool
}

func (p *parser) push(e SimpleExpression) {
	top := len(p.operands) - 1
	p.operands[top] = append(p.operands[top], e)
}

// operator starts a new connective group, or closes the pending one
// when a different connective shows up at the same depth.
func (p *parser) operator(op string) error {
	if p.current != "" {
		if p.current != op {
			top := len(p.operands) - 1
			entry := p.operators[len(p.operators)-1]
			p.operators = p.operators[:len(p.operators)-1]
			group, err := p.group(p.operands[top], entry.op)
			if err != nil {
				return err
			}
			p.operands[top] = []SimpleExpression{group}
			p.operators = append(p.operators, opEntry{op: op, depth: p.openParens})
			p.current = op
		}
		return nil
	}
	p.operators = append(p.operators, opEntry{op: op, depth: p.openParens})
	p.current = op
	return nil
}

func (p *parser) open() {
	p.openParens++
	p.operands = append(p.operands, nil)
	p.current = ""
}

func (p *parser) close() error {
	if p.openParens == 0 {
		return &ParseError{Msg: "unbalanced parentheses"}
	}
	p.openParens--

	top := len(p.operands) - 1
	group := p.operands[top]
	p.operands = p.operands[:top]

	if p.current != "" {
		entry := p.operators[len(p.operators)-1]
		p.operators = p.operators[:len(p.operators)-1]
		wrapped, err := p.group(group, entry.op)
		if err != nil {
			return err
		}
		p.push(wrapped)
	} else {
		if len(group) != 1 {
			return &ParseError{Msg: "malformed group"}
		}
		p.push(group[0])
	}

	p.current = ""
	if len(p.operators) > 0 && p.operators[len(p.operators)-1].depth == p.openParens {
		p.current = p.operators[len(p.operators)-1].op
	}
	return nil
}

func (p *parser) atom(token string) error {
	loc := relational.FindStringIndex(token)
	if loc == nil {
		member, err := parseMember(token)
		if err != nil {
			return err
		}
		p.push(member)
		p.parseAtom = true
		return nil
	}

	op := token[loc[0]:loc[1]]
	left, right := token[:loc[0]], token[loc[1]:]

	if p.parseAtom {
		// The left member was already pushed as a standalone token
		// (e.g. a parenthesized sum before the operator).
		top := len(p.operands) - 1
		group := p.operands[top]
		if len(group) == 0 {
			return &ParseError{Msg: "malformed atom: missing left member"}
		}
		lhs := group[len(group)-1]
		p.operands[top] = group[:len(group)-1]
		rhs, err := parseMember(right)
		if err != nil {
			return err
		}
		atom, err := NewAtom(lhs, rhs, op)
		if err != nil {
			return err
		}
		p.push(atom)
		p.parseAtom = false
		return nil
	}

	lhs, err := parseMember(left)
	if err != nil {
		return err
	}
	rhs, err := parseMember(right)
	if err != nil {
		return err
	}
	atom, err := NewAtom(lhs, rhs, op)
	if err != nil {
		return err
	}
	p.push(atom)
	return nil
}

func (p *parser) finish() (Expression, error) {
	if p.openParens != 0 {
		return nil, &ParseError{Msg: "unbalanced parentheses"}
	}
	top := len(p.operands) - 1
	if len(p.operators) > 0 {
		entry := p.operators[len(p.operators)-1]
		group, err := p.group(p.operands[top], entry.op)
		if err != nil {
			return nil, err
		}
		return group, nil
	}
	if len(p.operands[top]) != 1 {
		return nil, &ParseError{Msg: "empty or malformed formula"}
	}
	e, ok := p.operands[top][0].(Expression)
	if !ok {
		return nil, &ParseError{Msg: fmt.Sprintf("%s is not boolean-valued", p.operands[top][0])}
	}
	return e, nil
}

func (p *parser) group(operands []SimpleExpression, op string) (Expression, error) {
	exprs := make([]Expression, len(operands))
	for i, o := range operands {
		e, ok := o.(Expression)
		if !ok {
			return nil, &ParseError{Msg: fmt.Sprintf("%s is not boolean-valued", o)}
		}
		exprs[i] = e
	}
	return NewStateFormula(exprs, op)
}

// parseMember decomposes one side of an atom into a sum of
// multiplier*place and integer-literal terms.
func parseMember(member string) (SimpleExpression, error) {
	var places []string
	multipliers := make(map[string]int)
	constant := 0

	for _, element := range strings.Split(member, "+") {
		if element == "" {
			return nil, &ParseError{Msg: fmt.Sprintf("malformed member %q", member)}
		}
		if v, err := strconv.Atoi(element); err == nil {
			constant += v
			continue
		}
		factor, place, weighted := strings.Cut(element, "*")
		if !weighted {
			places = append(places, element)
			continue
		}
		m, err := strconv.Atoi(factor)
		if err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("malformed multiplier %q", factor)}
		}
		places = append(places, place)
		multipliers[place] = m
	}

	if len(places) == 0 {
		return IntegerConstant(constant), nil
	}
	return &TokenCount{Places: places, Multipliers: multipliers, Constant: constant}, nil
}

// tokenize splits formula text, special-casing the two-character
// connectives, unary - (only outside {...} labels), and parentheses.
// Brace-delimited labels are skipped verbatim.
func tokenize(s string) []string {
	var tokens []string
	var buffer, last string
	openBrace := false

	for _, c := range s {
		switch {
		case c == ' ':
			continue

		case (c == '/' && last == `\`) || (c == '\\' && last == "/"):
			if buffer != "" {
				tokens = append(tokens, buffer)
			}
			tokens = append(tokens, last+string(c))
			buffer, last = "", ""

		case (c == '-' && !openBrace) || c == '(' || c == ')':
			if last != "" {
				tokens = append(tokens, buffer+last)
			}
			tokens = append(tokens, string(c))
			buffer, last = "", ""

		case c == '{':
			openBrace = true

		case c == '}':
			openBrace = false

		default:
			buffer += last
			last = string(c)
		}
	}
	if buffer != "" || last != "" {
		tokens = append(tokens, buffer+last)
	}
	return tokens
}
