// Package tax derives every quantity of a taxed line item from one known
// anchor quantity plus the tax rate, quantity and discount, by building a
// system of equations and handing it to a Solver.
package tax

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tax-equation-service/internal/schema"
	"tax-equation-service/internal/solver"
)

var tracer = otel.Tracer("tax")

// Places is the number of fraction digits kept in results.
const Places = 10

// DefaultMaxMagnitude bounds every numeric input.
var DefaultMaxMagnitude = decimal.New(1, 15)

var numericLiteral = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// Solver solves a system of equations over named symbols. It must return
// every symbol or fail.
type Solver interface {
	Solve(ctx context.Context, equations []string) (solver.Solution, error)
}

// Request carries the raw inputs of one computation.
type Request struct {
	TaxRate     string `json:"taxRate" validate:"required,decimal_literal"`
	Quantity    string `json:"quantity" validate:"required,decimal_literal"`
	Discount    string `json:"discount" validate:"required,decimal_literal"`
	AnchorField string `json:"anchorField" validate:"required"`
	AnchorValue string `json:"anchorValue" validate:"required,decimal_literal"`
}

// Validated holds non-negative magnitudes; the quantity's sign is kept in
// Negative and only applied to the result.
type Validated struct {
	TaxRate     decimal.Decimal
	Quantity    decimal.Decimal
	Discount    decimal.Decimal
	Anchor      schema.Descriptor
	AnchorValue decimal.Decimal
	Negative    bool
}

type Engine struct {
	schema       *schema.Schema
	solver       Solver
	maxMagnitude decimal.Decimal
	validate     *validator.Validate
}

type Option func(*Engine)

// WithMaxMagnitude overrides DefaultMaxMagnitude. A non-positive value
// disables the bound.
func WithMaxMagnitude(limit decimal.Decimal) Option {
	return func(e *Engine) { e.maxMagnitude = limit }
}

func NewEngine(s Solver, opts ...Option) *Engine {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	if err := v.RegisterValidation("decimal_literal", func(fl validator.FieldLevel) bool {
		return numericLiteral.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("tax: registering validation: %v", err))
	}

	e := &Engine{
		schema:       schema.Default(),
		solver:       s,
		maxMagnitude: DefaultMaxMagnitude,
		validate:     v,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Schema() *schema.Schema { return e.schema }

// Validate checks presence, numeric format and the anchor name, in that
// order, before anything is solved.
func (e *Engine) Validate(req Request) (Validated, error) {
	if err := e.validate.Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return Validated{}, fmt.Errorf("validating request: %w", err)
		}
		var missing, malformed []string
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				missing = append(missing, fe.Field())
			} else {
				malformed = append(malformed, fe.Field())
			}
		}
		if len(missing) > 0 {
			return Validated{}, newError(KindMissingField, missing, "%s required", strings.Join(missing, ", "))
		}
		return Validated{}, newError(KindInvalidNumericFormat, malformed, "%s must match %s", strings.Join(malformed, ", "), numericLiteral)
	}

	anchor, ok := e.schema.Resolve(req.AnchorField)
	if !ok {
		return Validated{}, newError(KindUnknownAnchorField, []string{"anchorField"},
			"%q is not one of: %s", req.AnchorField, strings.Join(e.schema.SortedFieldNames(), ", "))
	}

	quantity := decimal.RequireFromString(req.Quantity)
	v := Validated{
		TaxRate:     decimal.RequireFromString(req.TaxRate).Abs(),
		Quantity:    quantity.Abs(),
		Discount:    decimal.RequireFromString(req.Discount).Abs(),
		Anchor:      anchor,
		AnchorValue: decimal.RequireFromString(req.AnchorValue).Abs(),
		Negative:    quantity.IsNegative(),
	}

	if e.maxMagnitude.IsPositive() {
		var over []string
		for _, in := range []struct {
			name  string
			value decimal.Decimal
		}{
			{"taxRate", v.TaxRate},
			{"quantity", v.Quantity},
			{"discount", v.Discount},
			{"anchorValue", v.AnchorValue},
		} {
			if in.value.GreaterThan(e.maxMagnitude) {
				over = append(over, in.name)
			}
		}
		if len(over) > 0 {
			return Validated{}, newError(KindMagnitudeExceeded, over, "%s exceeds %s", strings.Join(over, ", "), e.maxMagnitude)
		}
	}

	return v, nil
}

// BuildEquations returns the structural equations followed by one
// "<symbol>=<value>" equation per known field, in schema order. An anchor
// on taxRate, quantity or discount replaces that input's value.
func (e *Engine) BuildEquations(v Validated) []string {
	sym := func(field string) string { return e.schema.Lookup(field).Symbol }
	a, b, d := sym(schema.TaxRate), sym(schema.Quantity), sym(schema.Discount)
	t, p := sym(schema.TaxInclusivePrice), sym(schema.ExTaxPrice)
	w, k, m := sym(schema.ExTaxAmount), sym(schema.TaxAmount), sym(schema.TotalAmount)
	x, y := sym(schema.OriginalTaxInclusivePrice), sym(schema.OriginalExTaxPrice)

	equations := []string{
		fmt.Sprintf("%s=%s*%s*%s", k, p, a, b),
		fmt.Sprintf("%s=%s*(1+%s)", t, p, a),
		fmt.Sprintf("%s=%s*(1+%s)", x, y, a),
		fmt.Sprintf("%s=%s*%s", m, t, b),
		fmt.Sprintf("%s=%s*%s", w, p, b),
		fmt.Sprintf("%s=%s/%s", d, t, x),
	}

	known := map[string]decimal.Decimal{
		schema.TaxRate:  v.TaxRate,
		schema.Quantity: v.Quantity,
		schema.Discount: v.Discount,
	}
	known[v.Anchor.Field] = v.AnchorValue

	for _, desc := range e.schema.Descriptors() {
		if value, ok := known[desc.Field]; ok {
			equations = append(equations, desc.Symbol+"="+value.String())
		}
	}
	return equations
}

// Solve passes equations to the solver unchanged.
func (e *Engine) Solve(ctx context.Context, equations []string) (solver.Solution, error) {
	ctx, span := tracer.Start(ctx, "tax.solve",
		trace.WithAttributes(attribute.Int("tax.equations", len(equations))),
	)
	defer span.End()

	sol, err := e.solver.Solve(ctx, equations)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "solve failed")
		return nil, &Error{Kind: KindSolverFailure, Err: err}
	}
	span.SetStatus(codes.Ok, "")
	return sol, nil
}

// Normalize maps the solution onto schema fields, rounds to Places and
// negates sign-flippable fields when the quantity was negative. Symbols
// absent from the solution stay null.
func (e *Engine) Normalize(sol solver.Solution, negative bool) Result {
	res := Result{
		fields: e.schema.FieldNames(),
		values: make(map[string]decimal.NullDecimal, e.schema.Len()),
	}
	for _, desc := range e.schema.Descriptors() {
		r, ok := sol[desc.Symbol]
		if !ok || r == nil {
			res.values[desc.Field] = decimal.NullDecimal{}
			continue
		}
		v := Round(r)
		if negative && desc.SignFlippable {
			v = v.Neg()
		}
		res.values[desc.Field] = decimal.NullDecimal{Decimal: v, Valid: true}
	}
	return res
}

// Round rounds r to Places fraction digits, halves away from zero. The
// rounding is done on the exact rational, not on a float.
func Round(r *big.Rat) decimal.Decimal {
	return decimal.RequireFromString(r.FloatString(Places))
}

// Compute validates req, solves the line item and returns the normalized
// result. No result is returned unless every step succeeds.
func (e *Engine) Compute(ctx context.Context, req Request) (Result, error) {
	ctx, span := tracer.Start(ctx, "tax.compute",
		trace.WithAttributes(attribute.String("tax.anchor_field", req.AnchorField)),
	)
	defer span.End()

	v, err := e.Validate(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err)))
		return Result{}, err
	}

	sol, err := e.Solve(ctx, e.BuildEquations(v))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindSolverFailure))
		return Result{}, err
	}

	span.SetAttributes(attribute.Bool("tax.negative_quantity", v.Negative))
	span.SetStatus(codes.Ok, "")
	return e.Normalize(sol, v.Negative), nil
}
