package tax

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments, created by InitMetrics.
var (
	computeCounter   metric.Int64Counter
	computeHistogram metric.Float64Histogram
	errorCounter     metric.Int64Counter
)

// InitMetrics registers the tax instruments on the global meter provider.
// Call it after observability.InitMetrics.
func InitMetrics() error {
	meter := otel.Meter("tax")

	var err error

	computeCounter, err = meter.Int64Counter("tax.computations.total",
		metric.WithDescription("Total number of line-item tax computations"),
		metric.WithUnit("{computation}"),
	)
	if err != nil {
		return fmt.Errorf("creating computations counter: %w", err)
	}

	computeHistogram, err = meter.Float64Histogram("tax.computation.duration",
		metric.WithDescription("Duration of tax computations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating computation histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("tax.errors.total",
		metric.WithDescription("Total number of failed tax requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
