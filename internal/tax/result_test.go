package tax

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tax-equation-service/internal/schema"
	"tax-equation-service/internal/solver"
)

func TestResultMarshalJSONKeepsOrderAndPlaces(t *testing.T) {
	e := newEngine()
	res := e.Normalize(solver.Solution{
		"a": big.NewRat(3, 100),
		"t": big.NewRat(4680, 1),
		"p": big.NewRat(468000, 103),
	}, false)

	b, err := json.Marshal(res)
	require.NoError(t, err)

	s := string(b)
	assert.True(t, strings.HasPrefix(s, `{"taxRate":0.0300000000,"discount":null,"quantity":null,"taxInclusivePrice":4680.0000000000,"exTaxPrice":4543.6893203883,`), s)

	// every field is present and the order follows the schema
	last := -1
	for _, f := range schema.Default().FieldNames() {
		i := strings.Index(s, `"`+f+`":`)
		require.GreaterOrEqual(t, i, 0, f)
		assert.Greater(t, i, last, f)
		last = i
	}
}

func TestResponseMarshalJSONOnFailure(t *testing.T) {
	resp := newEngine().Facade(context.Background(), Request{
		TaxRate: "0.03", Quantity: "2", Discount: "1", AnchorField: "haha", AnchorValue: "1",
	}, "tok-42")

	assert.False(t, resp.Success)
	assert.Equal(t, "tok-42", resp.CorrelationToken)
	assert.True(t, resp.Result.IsZero())

	b, err := json.Marshal(resp)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))

	for _, f := range schema.Default().FieldNames() {
		v, ok := got[f]
		assert.True(t, ok, f)
		assert.Nil(t, v, f)
	}
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "tok-42", got["correlationToken"])
	assert.Equal(t, string(KindUnknownAnchorField), got["kind"])
	assert.Contains(t, got["error"], "haha")
}

func TestResponseMarshalJSONOnSuccess(t *testing.T) {
	resp := newEngine().Facade(context.Background(), Request{
		TaxRate: "0.03", Quantity: "2", Discount: "1", AnchorField: "taxPrice", AnchorValue: "4680",
	}, "")

	require.True(t, resp.Success)
	require.NoError(t, resp.Err)

	b, err := json.Marshal(resp)
	require.NoError(t, err)

	s := string(b)
	assert.Contains(t, s, `"totalAmount":9360.0000000000`)
	assert.Contains(t, s, `"success":true`)
	assert.Contains(t, s, `"correlationToken":""`)
	assert.NotContains(t, s, `"error"`)
	assert.NotContains(t, s, `"kind"`)
}

func TestFacadeSolverFailure(t *testing.T) {
	resp := NewEngine(&stubSolver{err: solver.ErrInconsistent}).Facade(context.Background(), Request{
		TaxRate: "0.03", Quantity: "2", Discount: "1", AnchorField: "taxPrice", AnchorValue: "1",
	}, "c")

	assert.False(t, resp.Success)
	assert.Equal(t, KindSolverFailure, KindOf(resp.Err))
	assert.Equal(t, "c", resp.CorrelationToken)
}

func TestSelfCheck(t *testing.T) {
	tests := []struct {
		name    string
		solver  Solver
		wantErr bool
	}{
		{name: "exact solver", solver: solver.New()},
		{name: "wrong value", solver: &stubSolver{sol: solver.Solution{"x": big.NewRat(5, 1), "y": big.NewRat(1, 1)}}, wantErr: true},
		{name: "extra symbol", solver: &stubSolver{sol: solver.Solution{"x": big.NewRat(4, 1), "y": big.NewRat(1, 1), "z": new(big.Rat)}}, wantErr: true},
		{name: "missing symbol", solver: &stubSolver{sol: solver.Solution{"x": big.NewRat(4, 1)}}, wantErr: true},
		{name: "solver error", solver: &stubSolver{err: errors.New("down")}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := SelfCheck(context.Background(), tc.solver)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNumericUnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Numeric
	}{
		{`"0.03"`, "0.03"},
		{`4543.689320388349`, "4543.689320388349"},
		{`-2`, "-2"},
		{`null`, ""},
		{`"+1"`, "+1"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			var n Numeric
			require.NoError(t, json.Unmarshal([]byte(tc.in), &n))
			assert.Equal(t, tc.want, n)
		})
	}

	var n Numeric
	assert.Error(t, json.Unmarshal([]byte(`true`), &n))
}

func TestComputeRequestDecodesMixedInputs(t *testing.T) {
	var body ComputeRequest
	require.NoError(t, json.Unmarshal([]byte(
		`{"taxRate":"0.13","quantity":-2,"discount":0.8,"anchorField":"oriTaxPrice","anchorValue":"273.75","correlationToken":"x"}`,
	), &body))

	assert.Equal(t, Request{
		TaxRate: "0.13", Quantity: "-2", Discount: "0.8", AnchorField: "oriTaxPrice", AnchorValue: "273.75",
	}, body.Request())
	assert.Equal(t, "x", body.CorrelationToken)
}
