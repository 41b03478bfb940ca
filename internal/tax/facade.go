package tax

import (
	"context"
	"fmt"
	"math/big"
)

// Facade runs Compute and folds every outcome into a Response, echoing
// correlationToken unchanged.
func (e *Engine) Facade(ctx context.Context, req Request, correlationToken string) Response {
	res, err := e.Compute(ctx, req)
	if err != nil {
		return Response{CorrelationToken: correlationToken, Err: err}
	}
	return Response{Result: res, Success: true, CorrelationToken: correlationToken}
}

// SelfCheck confirms the solver reproduces x = 4, y = 1 from
// "x = y + 3" and "y = 1".
func SelfCheck(ctx context.Context, s Solver) error {
	sol, err := s.Solve(ctx, []string{"x = y + 3", "y = 1"})
	if err != nil {
		return fmt.Errorf("solver self-check: %w", err)
	}

	want := map[string]*big.Rat{"x": big.NewRat(4, 1), "y": big.NewRat(1, 1)}
	if len(sol) != len(want) {
		return fmt.Errorf("solver self-check: got %d symbols, want %d", len(sol), len(want))
	}
	for sym, v := range want {
		got, ok := sol[sym]
		if !ok || got == nil || got.Cmp(v) != 0 {
			return fmt.Errorf("solver self-check: %s = %v, want %s", sym, got, v.RatString())
		}
	}
	return nil
}

// SelfCheck runs SelfCheck against the engine's solver.
func (e *Engine) SelfCheck(ctx context.Context) error {
	return SelfCheck(ctx, e.solver)
}
