package solver

import (
	"math/big"
	"sort"
	"strings"
)

// monomial is a product of symbols, sorted and joined with "*".
// The empty monomial is the constant term.
type monomial string

func (m monomial) factors() []string {
	if m == "" {
		return nil
	}
	return strings.Split(string(m), "*")
}

func makeMonomial(factors []string) monomial {
	sort.Strings(factors)
	return monomial(strings.Join(factors, "*"))
}

func (m monomial) times(o monomial) monomial {
	return makeMonomial(append(m.factors(), o.factors()...))
}

// poly is a multivariate polynomial with exact rational coefficients.
// Zero coefficients are never stored.
type poly map[monomial]*big.Rat

func constPoly(r *big.Rat) poly {
	p := poly{}
	if r.Sign() != 0 {
		p[""] = new(big.Rat).Set(r)
	}
	return p
}

func symPoly(name string) poly {
	return poly{monomial(name): big.NewRat(1, 1)}
}

func (p poly) addTerm(m monomial, c *big.Rat) {
	if c.Sign() == 0 {
		return
	}
	cur, ok := p[m]
	if !ok {
		p[m] = new(big.Rat).Set(c)
		return
	}
	cur.Add(cur, c)
	if cur.Sign() == 0 {
		delete(p, m)
	}
}

func (p poly) add(q poly) poly {
	out := poly{}
	for m, c := range p {
		out.addTerm(m, c)
	}
	for m, c := range q {
		out.addTerm(m, c)
	}
	return out
}

func (p poly) sub(q poly) poly {
	return p.add(q.scale(big.NewRat(-1, 1)))
}

func (p poly) mul(q poly) poly {
	out := poly{}
	for m1, c1 := range p {
		for m2, c2 := range q {
			out.addTerm(m1.times(m2), new(big.Rat).Mul(c1, c2))
		}
	}
	return out
}

func (p poly) scale(r *big.Rat) poly {
	out := poly{}
	for m, c := range p {
		out.addTerm(m, new(big.Rat).Mul(c, r))
	}
	return out
}

func (p poly) isZero() bool {
	return len(p) == 0
}

// constant reports the value of p when it has no symbols.
func (p poly) constant() (*big.Rat, bool) {
	switch len(p) {
	case 0:
		return new(big.Rat), true
	case 1:
		if c, ok := p[""]; ok {
			return new(big.Rat).Set(c), true
		}
	}
	return nil, false
}

func (p poly) degree() int {
	deg := 0
	for m := range p {
		if n := len(m.factors()); n > deg {
			deg = n
		}
	}
	return deg
}

func (p poly) symbols(into map[string]struct{}) {
	for m := range p {
		for _, f := range m.factors() {
			into[f] = struct{}{}
		}
	}
}

// substitute replaces every known symbol by its value.
func (p poly) substitute(known map[string]*big.Rat) poly {
	out := poly{}
	for m, c := range p {
		coeff := new(big.Rat).Set(c)
		var rest []string
		for _, f := range m.factors() {
			if v, ok := known[f]; ok {
				coeff.Mul(coeff, v)
				continue
			}
			rest = append(rest, f)
		}
		out.addTerm(makeMonomial(rest), coeff)
	}
	return out
}

func (p poly) equal(q poly) bool {
	return p.sub(q).isZero()
}

// ratfunc is a quotient of polynomials. Constant denominators are folded
// into the numerator.
type ratfunc struct {
	num, den poly
}

func polyFunc(p poly) ratfunc {
	return ratfunc{num: p, den: constPoly(big.NewRat(1, 1))}
}

func (f ratfunc) normalize() ratfunc {
	if c, ok := f.den.constant(); ok && c.Sign() != 0 {
		return polyFunc(f.num.scale(new(big.Rat).Inv(c)))
	}
	return f
}

func (f ratfunc) add(g ratfunc) ratfunc {
	if f.den.equal(g.den) {
		return ratfunc{num: f.num.add(g.num), den: f.den}.normalize()
	}
	return ratfunc{
		num: f.num.mul(g.den).add(g.num.mul(f.den)),
		den: f.den.mul(g.den),
	}.normalize()
}

func (f ratfunc) neg() ratfunc {
	return ratfunc{num: f.num.scale(big.NewRat(-1, 1)), den: f.den}
}

func (f ratfunc) sub(g ratfunc) ratfunc {
	return f.add(g.neg())
}

func (f ratfunc) mul(g ratfunc) ratfunc {
	return ratfunc{num: f.num.mul(g.num), den: f.den.mul(g.den)}.normalize()
}

// div returns false when g is identically zero.
func (f ratfunc) div(g ratfunc) (ratfunc, bool) {
	if g.num.isZero() {
		return ratfunc{}, false
	}
	return ratfunc{num: f.num.mul(g.den), den: f.den.mul(g.num)}.normalize(), true
}
