// Package solver solves systems of equations that become linear once the
// symbols fixed by literal equations are substituted in. Arithmetic is exact
// (math/big.Rat).
package solver

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

var (
	ErrSyntax          = errors.New("syntax error")
	ErrInconsistent    = errors.New("inconsistent system")
	ErrUnderdetermined = errors.New("underdetermined system")
)

// Solution maps each symbol to its value.
type Solution map[string]*big.Rat

// Pair is one symbol of a solution.
type Pair struct {
	Symbol string
	Value  *big.Rat
}

// Pairs returns the solution ordered by symbol.
func (s Solution) Pairs() []Pair {
	pairs := make([]Pair, 0, len(s))
	for sym, v := range s {
		pairs = append(pairs, Pair{Symbol: sym, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Symbol < pairs[j].Symbol })
	return pairs
}

// String renders the solution as "x,4,y,1".
func (s Solution) String() string {
	parts := make([]string, 0, 2*len(s))
	for _, p := range s.Pairs() {
		parts = append(parts, p.Symbol, p.Value.RatString())
	}
	return strings.Join(parts, ",")
}

// Solver is stateless and safe for concurrent use.
type Solver struct{}

func New() *Solver {
	return &Solver{}
}

// Solve returns the unique solution of equations, each written as
// "<expr> = <expr>". Every symbol must be determined.
func (s *Solver) Solve(ctx context.Context, equations []string) (Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(equations) == 0 {
		return nil, fmt.Errorf("%w: no equations", ErrUnderdetermined)
	}

	residuals := make([]poly, 0, len(equations))
	symbols := map[string]struct{}{}
	for i, eq := range equations {
		f, err := parseEquation(eq)
		if err != nil {
			return nil, fmt.Errorf("%w: equation %d %q: %v", ErrSyntax, i, eq, err)
		}
		f.num.symbols(symbols)
		f.den.symbols(symbols)
		residuals = append(residuals, f.num)
	}

	known := map[string]*big.Rat{}
	for {
		var rows []poly
		for i, r := range residuals {
			r = r.substitute(known)
			if c, ok := r.constant(); ok {
				if c.Sign() != 0 {
					return nil, fmt.Errorf("%w: equation %d %q", ErrInconsistent, i, equations[i])
				}
				continue
			}
			if r.degree() <= 1 {
				rows = append(rows, r)
			}
		}

		solved, err := eliminate(rows)
		if err != nil {
			return nil, err
		}

		progress := false
		for sym, v := range solved {
			if _, ok := known[sym]; !ok {
				known[sym] = v
				progress = true
			}
		}
		if !progress {
			break
		}
	}

	var free []string
	for sym := range symbols {
		if _, ok := known[sym]; !ok {
			free = append(free, sym)
		}
	}
	if len(free) > 0 {
		sort.Strings(free)
		return nil, fmt.Errorf("%w: cannot determine %s", ErrUnderdetermined, strings.Join(free, ", "))
	}

	return Solution(known), nil
}

// eliminate runs Gauss-Jordan elimination over linear residuals and returns
// the variables whose value does not depend on any free variable.
func eliminate(rows []poly) (map[string]*big.Rat, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	vars := map[string]struct{}{}
	for _, r := range rows {
		r.symbols(vars)
	}
	cols := make([]string, 0, len(vars))
	for v := range vars {
		cols = append(cols, v)
	}
	sort.Strings(cols)
	index := make(map[string]int, len(cols))
	for i, v := range cols {
		index[v] = i
	}

	n := len(cols)
	m := make([][]*big.Rat, len(rows))
	for i, r := range rows {
		row := make([]*big.Rat, n+1)
		for j := range row {
			row[j] = new(big.Rat)
		}
		for mono, c := range r {
			if mono == "" {
				row[n].Neg(c)
				continue
			}
			row[index[string(mono)]].Set(c)
		}
		m[i] = row
	}

	pivots := make([]int, 0, n)
	rank := 0
	for col := 0; col < n && rank < len(m); col++ {
		sel := -1
		for i := rank; i < len(m); i++ {
			if m[i][col].Sign() != 0 {
				sel = i
				break
			}
		}
		if sel < 0 {
			continue
		}
		m[rank], m[sel] = m[sel], m[rank]

		inv := new(big.Rat).Inv(m[rank][col])
		for j := col; j <= n; j++ {
			m[rank][j].Mul(m[rank][j], inv)
		}
		for i := range m {
			if i == rank || m[i][col].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Set(m[i][col])
			for j := col; j <= n; j++ {
				m[i][j].Sub(m[i][j], new(big.Rat).Mul(f, m[rank][j]))
			}
		}
		pivots = append(pivots, col)
		rank++
	}

	for i := rank; i < len(m); i++ {
		if m[i][n].Sign() != 0 {
			return nil, fmt.Errorf("%w: contradictory linear equations", ErrInconsistent)
		}
	}

	solved := map[string]*big.Rat{}
	for i, col := range pivots {
		determined := true
		for j := 0; j < n; j++ {
			if j != col && m[i][j].Sign() != 0 {
				determined = false
				break
			}
		}
		if determined {
			solved[cols[col]] = new(big.Rat).Set(m[i][n])
		}
	}
	return solved, nil
}
