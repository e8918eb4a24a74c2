package quiz

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// equalityTolerance is the absolute tolerance for the two-sided comparison.
const equalityTolerance = 1e-9

// EvaluateEquation parses a two-sided equation string, substitutes the given
// variable bindings and reports whether both sides evaluate to the same value
// within tolerance. It fails closed: malformed equations, unbound variables,
// unparseable bindings and non-finite results all yield false, never a panic.
func EvaluateEquation(equation string, answers map[string]string) bool {
	parts := strings.Split(equation, "=")
	if len(parts) != 2 {
		return false
	}
	left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if left == "" || right == "" {
		return false
	}

	vars := make(map[string]float64, len(answers))
	for name, raw := range answers {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
		vars[name] = v
	}

	lv, err := evalExpr(insertImplicitMul(left), vars)
	if err != nil {
		return false
	}
	rv, err := evalExpr(insertImplicitMul(right), vars)
	if err != nil {
		return false
	}
	if math.IsNaN(lv) || math.IsInf(lv, 0) || math.IsNaN(rv) || math.IsInf(rv, 0) {
		return false
	}
	return math.Abs(lv-rv) < equalityTolerance
}

// insertImplicitMul rewrites a digit run immediately followed by a letter
// run into an explicit multiplication: "2x" -> "2*x". Purely textual.
func insertImplicitMul(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsLetter(r) && unicode.IsDigit(runes[i-1]) {
			b.WriteByte('*')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Recursive-descent evaluator over the fixed grammar
//
//	expr   -> term  {("+"|"-") term}
//	term   -> unary {("*"|"/") unary}
//	unary  -> "-" unary | power
//	power  -> atom ["^" unary]          (right-associative)
//	atom   -> number | variable | "(" expr ")"
type exprParser struct {
	input []rune
	pos   int
	vars  map[string]float64
}

func evalExpr(s string, vars map[string]float64) (float64, error) {
	p := &exprParser{input: []rune(s), vars: vars}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected %q at offset %d", string(p.input[p.pos]), p.pos)
	}
	return v, nil
}

func (p *exprParser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			w, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v += w
		case '-':
			p.pos++
			w, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v -= w
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			w, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			v *= w
		case '/':
			p.pos++
			w, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			v /= w
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parseAtom()
	if err != nil {
		return 0, err
	}
	if p.peek() == '^' {
		p.pos++
		exp, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *exprParser) parseAtom() (float64, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	r := p.input[p.pos]
	switch {
	case r == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.peekRaw() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case unicode.IsDigit(r) || r == '.':
		return p.parseNumber()
	case unicode.IsLetter(r) || r == '_':
		return p.parseVariable()
	default:
		return 0, fmt.Errorf("unexpected %q at offset %d", string(r), p.pos)
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	v, err := strconv.ParseFloat(string(p.input[start:p.pos]), 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", string(p.input[start:p.pos]))
	}
	return v, nil
}

func (p *exprParser) parseVariable() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsLetter(p.input[p.pos]) || unicode.IsDigit(p.input[p.pos]) || p.input[p.pos] == '_') {
		p.pos++
	}
	name := string(p.input[start:p.pos])
	v, ok := p.vars[name]
	if !ok {
		return 0, fmt.Errorf("unbound variable %q", name)
	}
	return v, nil
}

// peek skips whitespace and returns the next operator-relevant rune
// without consuming it, or 0 at end of input.
func (p *exprParser) peek() rune {
	p.skipSpace()
	return p.peekRaw()
}

func (p *exprParser) peekRaw() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}
