// Package telemetry wraps OpenTelemetry tracing and metrics for the sync
// agent. Without a configured provider the global no-op implementations are
// used, so instrumented code is safe to run in tests.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/dmitrijs2005/traveljournal"

// StartSpan starts a span named "<component>.<operation>".
func StartSpan(ctx context.Context, component, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("component", component),
		attribute.String("operation", operation),
	)
	return otel.Tracer(instrumentationName).Start(ctx, fmt.Sprintf("%s.%s", component, operation),
		trace.WithAttributes(attrs...),
	)
}

// StartClientSpan starts a span for an outbound call.
func StartClientSpan(ctx context.Context, component, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, fmt.Sprintf("%s.%s", component, operation),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// SyncMetrics holds the instruments reported by the sync coordinator.
type SyncMetrics struct {
	passes       metric.Int64Counter
	entries      metric.Int64Counter
	passDuration metric.Float64Histogram
}

// NewSyncMetrics creates the sync instruments on the global meter provider.
func NewSyncMetrics() (*SyncMetrics, error) {
	meter := otel.Meter(instrumentationName)

	passes, err := meter.Int64Counter(
		"journal.sync.passes",
		metric.WithDescription("Number of sync passes run"),
		metric.WithUnit("{passes}"),
	)
	if err != nil {
		return nil, err
	}

	entries, err := meter.Int64Counter(
		"journal.sync.entries",
		metric.WithDescription("Entries processed by sync passes, by outcome"),
		metric.WithUnit("{entries}"),
	)
	if err != nil {
		return nil, err
	}

	passDuration, err := meter.Float64Histogram(
		"journal.sync.pass.duration",
		metric.WithDescription("Sync pass duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{passes: passes, entries: entries, passDuration: passDuration}, nil
}

// RecordPass records one finished pass.
func (m *SyncMetrics) RecordPass(ctx context.Context, d time.Duration, aborted bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("aborted", aborted))
	m.passes.Add(ctx, 1, attrs)
	m.passDuration.Record(ctx, float64(d.Milliseconds()), attrs)
}

// RecordEntry records the final state of one entry in a pass.
func (m *SyncMetrics) RecordEntry(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.entries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
