package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aihaccp/backend/internal/infrastructure/config"
	"github.com/aihaccp/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := setupRecorder(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "usage_ledger", "record",
		telemetry.WithAttribute(telemetry.SpanAttrActionType, "login"))
	telemetry.SetAttributes(span, telemetry.SpanAttrCost, "0.001", 42, "ignored")
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "usage_ledger.record", spans[0].Name())

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "login", attrs["action_type"])
	assert.Equal(t, "0.001", attrs["cost"])
	assert.Len(t, attrs, 2)
}

func TestRecordError(t *testing.T) {
	recorder := setupRecorder(t)

	_, span := telemetry.StartSpan(context.Background(), "op")
	telemetry.RecordError(span, errors.New("boom"))
	telemetry.RecordError(span, nil)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestAddEventAndSetOK(t *testing.T) {
	recorder := setupRecorder(t)

	_, span := telemetry.StartSpan(context.Background(), "op")
	telemetry.AddEvent(span, "price_resolved", telemetry.SpanAttrPriceSource, "cache")
	telemetry.SetOK(span)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "price_resolved", spans[0].Events()[0].Name)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.GetTraceID(context.Background()))
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestTracerProvider_EnableSpanProfiles(t *testing.T) {
	t.Run("no-op while tracing is off", func(t *testing.T) {
		tp, err := telemetry.NewTracerProvider(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
		require.NoError(t, err)
		tp.EnableSpanProfiles()
		assert.False(t, tp.SpanProfilesEnabled())
	})

	t.Run("wraps the global provider", func(t *testing.T) {
		previous := otel.GetTracerProvider()
		tp, err := telemetry.NewTracerProvider(context.Background(), config.TelemetryConfig{
			Enabled:           true,
			CollectorEndpoint: "localhost:4317",
			Insecure:          true,
			SamplingRatio:     1,
			ServiceName:       "haccp-test",
		}, zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(func() {
			otel.SetTracerProvider(previous)
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		})

		installed := otel.GetTracerProvider()
		tp.EnableSpanProfiles()
		assert.True(t, tp.SpanProfilesEnabled())
		assert.NotSame(t, installed, otel.GetTracerProvider())

		wrapped := otel.GetTracerProvider()
		tp.EnableSpanProfiles()
		assert.Same(t, wrapped, otel.GetTracerProvider(), "second call must not wrap again")
	})
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), config.TelemetryConfig{Enabled: true}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, telemetry.Sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, telemetry.Sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, telemetry.Sampler(0.5).Description(), "TraceIDRatioBased")
}
