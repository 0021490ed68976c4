package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ForecastTracer provides utilities for tracing forecast pipeline operations.
// It covers the domain-specific activities: scoring runs, overlay computation,
// and kit delivery.
type ForecastTracer struct {
	tracer trace.Tracer
}

// NewForecastTracer creates a new instance of ForecastTracer.
func NewForecastTracer() *ForecastTracer {
	return &ForecastTracer{tracer: GetForecastTracer()}
}

// TraceForecastRun starts a span covering a full scoring run for one game.
func (ft *ForecastTracer) TraceForecastRun(ctx context.Context, game string, session string, candidateCount int) (context.Context, trace.Span) {
	return ft.tracer.Start(ctx, "forecast_run",
		trace.WithAttributes(
			attribute.String("forecast.game", game),
			attribute.String("forecast.session", session),
			attribute.Int("forecast.candidate_count", candidateCount),
		),
	)
}

// RecordRunResult records the outcome of a scoring run onto a span.
func (ft *ForecastTracer) RecordRunResult(span trace.Span, result RunResult) {
	span.SetAttributes(
		attribute.Int("forecast.rows_scored", result.RowsScored),
		attribute.Int("forecast.green_count", result.GreenCount),
		attribute.Int("forecast.skip_count", result.SkipCount),
		attribute.Int64("forecast.elapsed_ms", result.Elapsed.Milliseconds()),
		attribute.String("forecast.overlay_source", result.OverlaySource),
	)
	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, "forecast run failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// TraceOverlayComputation starts a span for computing an esoteric overlay context.
func (ft *ForecastTracer) TraceOverlayComputation(ctx context.Context, date string, session string) (context.Context, trace.Span) {
	return ft.tracer.Start(ctx, "overlay_computation",
		trace.WithAttributes(
			attribute.String("overlay.date", date),
			attribute.String("overlay.session", session),
		),
	)
}

// RecordOverlayResult records overlay provenance onto a span.
func (ft *ForecastTracer) RecordOverlayResult(span trace.Span, source string, cacheHit bool) {
	span.SetAttributes(
		attribute.String("overlay.source", source),
		attribute.Bool("overlay.cache_hit", cacheHit),
	)
}

// TraceKitDelivery starts a span for delivering forecast kits to subscribers.
func (ft *ForecastTracer) TraceKitDelivery(ctx context.Context, channel string, subscriberCount int) (context.Context, trace.Span) {
	return ft.tracer.Start(ctx, "kit_delivery",
		trace.WithAttributes(
			attribute.String("delivery.channel", channel),
			attribute.Int("delivery.subscriber_count", subscriberCount),
		),
	)
}

// RecordDeliveryResult records the outcome of a delivery batch onto a span.
func (ft *ForecastTracer) RecordDeliveryResult(span trace.Span, delivered int, failed int) {
	span.SetAttributes(
		attribute.Int("delivery.delivered", delivered),
		attribute.Int("delivery.failed", failed),
	)
	if failed > 0 {
		span.SetStatus(codes.Error, "some deliveries failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// TraceExport starts a span for exporting forecast rows to a file format.
func (ft *ForecastTracer) TraceExport(ctx context.Context, format string, rowCount int) (context.Context, trace.Span) {
	return ft.tracer.Start(ctx, "forecast_export",
		trace.WithAttributes(
			attribute.String("export.format", format),
			attribute.Int("export.row_count", rowCount),
		),
	)
}

// RunResult defines the structure for tracking scoring run outcomes in telemetry.
type RunResult struct {
	RowsScored    int
	GreenCount    int
	SkipCount     int
	Elapsed       time.Duration
	OverlaySource string
	Err           error
}
