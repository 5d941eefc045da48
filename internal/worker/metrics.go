package worker

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// workerMetrics counts the signal traffic through the worker. With no meter
// provider installed these are no-ops, so the counters cost nothing in tests.
type workerMetrics struct {
	eventsIngested     metric.Int64Counter
	coachingDispatched metric.Int64Counter
	coachingSuppressed metric.Int64Counter
}

func newWorkerMetrics() *workerMetrics {
	meter := otel.Meter("github.com/thebtf/stagewhisper/internal/worker")

	eventsIngested, _ := meter.Int64Counter("stagewhisper.events.ingested",
		metric.WithDescription("Signal events ingested, by kind"))
	coachingDispatched, _ := meter.Int64Counter("stagewhisper.coaching.dispatched",
		metric.WithDescription("Coaching events approved by the gate"))
	coachingSuppressed, _ := meter.Int64Counter("stagewhisper.coaching.suppressed",
		metric.WithDescription("Coaching recommendations suppressed by the cooldown"))

	return &workerMetrics{
		eventsIngested:     eventsIngested,
		coachingDispatched: coachingDispatched,
		coachingSuppressed: coachingSuppressed,
	}
}

func (m *workerMetrics) recordIngested(ctx context.Context, kind string) {
	m.eventsIngested.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
