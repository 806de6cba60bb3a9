package sale

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Submission outcomes recorded as the "outcome" attribute.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
	OutcomeUnknown   = "unknown"
)

// Metrics records submission outcomes. A nil *Metrics records nothing.
type Metrics struct {
	submissions metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewMetrics registers the submission instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	submissions, err := meter.Int64Counter("orbit.sale.submissions",
		metric.WithDescription("Sale submissions by outcome"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "submissions counter")
	}
	duration, err := meter.Float64Histogram("orbit.sale.submit.duration",
		metric.WithDescription("Time spent waiting for the server to record a sale"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "submit duration histogram")
	}
	return &Metrics{
		submissions: submissions,
		duration:    duration,
	}, nil
}

func (m *Metrics) record(ctx context.Context, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.submissions.Add(ctx, 1, attrs)
	if outcome != OutcomeInvalid {
		m.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}
