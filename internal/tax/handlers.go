package tax

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tax-equation-service/internal/handlers"
	"tax-equation-service/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Handler serves the tax endpoints on top of an Engine.
type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// Compute handles POST /tax/compute. The body is always a Response; the
// status tells validation failures (400) from unsolvable systems (422).
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "tax.http.compute",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var body ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "compute", "invalid request body", err)
		handlers.WriteJSON(w, http.StatusBadRequest, Response{Err: fmt.Errorf("invalid request body: %w", err)})
		return
	}

	anchor := "unknown"
	if d, ok := h.engine.Schema().Resolve(body.AnchorField); ok {
		anchor = d.Field
	}
	span.SetAttributes(attribute.String("tax.anchor_field", anchor))

	start := time.Now()
	resp := h.engine.Facade(ctx, body.Request(), body.CorrelationToken)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(
		attribute.String("anchor_field", anchor),
		attribute.Bool("success", resp.Success),
	)
	computeCounter.Add(ctx, 1, attrs)
	computeHistogram.Record(ctx, elapsed, attrs)

	if !resp.Success {
		kind := KindOf(resp.Err)
		observability.RecordError(ctx, span, logger, errorCounter, "compute", "tax computation failed", resp.Err,
			attribute.String("error.kind", string(kind)),
		)
		handlers.WriteJSON(w, statusFor(resp.Err), resp)
		return
	}

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("tax computation completed",
		zap.String("anchor_field", anchor),
		zap.String("correlation_token", resp.CorrelationToken),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// Equations handles POST /tax/equations: it validates the body and returns
// the equation system without solving it.
func (h *Handler) Equations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "tax.http.equations",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var body ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "equations", "invalid request body", err)
		handlers.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v, err := h.engine.Validate(body.Request())
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "equations", "invalid equation inputs", err,
			attribute.String("error.kind", string(KindOf(err))),
		)
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	equations := h.engine.BuildEquations(v)
	span.SetAttributes(attribute.Int("tax.equations", len(equations)))
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, EquationsResponse{
		Equations: equations,
		RequestID: requestID,
	})
}

// Fields handles GET /tax/fields.
func (h *Handler) Fields(w http.ResponseWriter, r *http.Request) {
	descs := h.engine.Schema().Descriptors()
	out := make([]FieldInfo, 0, len(descs))
	for _, d := range descs {
		aliases := d.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		out = append(out, FieldInfo{
			Field:         d.Field,
			Symbol:        d.Symbol,
			SignFlippable: d.SignFlippable,
			Aliases:       aliases,
		})
	}
	handlers.WriteJSON(w, http.StatusOK, out)
}

func statusFor(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case KindOf(err) == KindSolverFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
