package solver

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func tokenize(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r):
			start := i
			for i < len(rs) && unicode.IsDigit(rs[i]) {
				i++
			}
			if i < len(rs) && rs[i] == '.' {
				i++
				if i >= len(rs) || !unicode.IsDigit(rs[i]) {
					return nil, fmt.Errorf("malformed number at %d", start)
				}
				for i < len(rs) && unicode.IsDigit(rs[i]) {
					i++
				}
			}
			toks = append(toks, token{kind: tokNumber, text: string(rs[start:i]), pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(rs) && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[start:i]), pos: start})
		case strings.ContainsRune("+-*/()=", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		default:
			return nil, fmt.Errorf("unexpected %q at %d", r, i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(rs)}), nil
}

// parser is a recursive-descent parser producing rational functions:
//
//	equation := expr "=" expr
//	expr     := term { ("+" | "-") term }
//	term     := unary { ("*" | "/") unary }
//	unary    := ("+" | "-") unary | primary
//	primary  := number | ident | "(" expr ")"
type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) acceptOp(op string) bool {
	if t := p.peek(); t.kind == tokOp && t.text == op {
		p.pos++
		return true
	}
	return false
}

// parseEquation returns the residual lhs - rhs of an equation.
func parseEquation(src string) (ratfunc, error) {
	toks, err := tokenize(src)
	if err != nil {
		return ratfunc{}, err
	}
	p := &parser{toks: toks}

	lhs, err := p.expr()
	if err != nil {
		return ratfunc{}, err
	}
	if !p.acceptOp("=") {
		return ratfunc{}, fmt.Errorf("expected \"=\" at %d", p.peek().pos)
	}
	rhs, err := p.expr()
	if err != nil {
		return ratfunc{}, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return ratfunc{}, fmt.Errorf("unexpected %q at %d", t.text, t.pos)
	}
	return lhs.sub(rhs), nil
}

func (p *parser) expr() (ratfunc, error) {
	left, err := p.term()
	if err != nil {
		return ratfunc{}, err
	}
	for {
		switch {
		case p.acceptOp("+"):
			right, err := p.term()
			if err != nil {
				return ratfunc{}, err
			}
			left = left.add(right)
		case p.acceptOp("-"):
			right, err := p.term()
			if err != nil {
				return ratfunc{}, err
			}
			left = left.sub(right)
		default:
			return left, nil
		}
	}
}

func (p *parser) term() (ratfunc, error) {
	left, err := p.unary()
	if err != nil {
		return ratfunc{}, err
	}
	for {
		switch {
		case p.acceptOp("*"):
			right, err := p.unary()
			if err != nil {
				return ratfunc{}, err
			}
			left = left.mul(right)
		case p.acceptOp("/"):
			pos := p.peek().pos
			right, err := p.unary()
			if err != nil {
				return ratfunc{}, err
			}
			q, ok := left.div(right)
			if !ok {
				return ratfunc{}, fmt.Errorf("division by zero at %d", pos)
			}
			left = q
		default:
			return left, nil
		}
	}
}

func (p *parser) unary() (ratfunc, error) {
	if p.acceptOp("-") {
		v, err := p.unary()
		if err != nil {
			return ratfunc{}, err
		}
		return v.neg(), nil
	}
	if p.acceptOp("+") {
		return p.unary()
	}
	return p.primary()
}

func (p *parser) primary() (ratfunc, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return ratfunc{}, fmt.Errorf("malformed number %q at %d", t.text, t.pos)
		}
		return polyFunc(constPoly(r)), nil
	case tokIdent:
		return polyFunc(symPoly(t.text)), nil
	case tokOp:
		if t.text == "(" {
			v, err := p.expr()
			if err != nil {
				return ratfunc{}, err
			}
			if !p.acceptOp(")") {
				return ratfunc{}, fmt.Errorf("expected \")\" at %d", p.peek().pos)
			}
			return v, nil
		}
	}
	if t.kind == tokEOF {
		return ratfunc{}, fmt.Errorf("unexpected end of input")
	}
	return ratfunc{}, fmt.Errorf("unexpected %q at %d", t.text, t.pos)
}
