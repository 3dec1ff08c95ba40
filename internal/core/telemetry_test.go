// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/carterperez-dev/eatme/internal/config"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func TestEndSpan(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		wantEvent  string
	}{
		{name: "success", wantStatus: codes.Unset},
		{name: "client error", err: ForbiddenError("nope"), wantStatus: codes.Unset, wantEvent: "rejected"},
		{name: "missing entity", err: NotFoundError("No such record."), wantStatus: codes.Unset, wantEvent: "rejected"},
		{name: "server error", err: errors.New("connection reset"), wantStatus: codes.Error, wantEvent: "exception"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := recordSpans(t)

			_, span := StartSpan(context.Background(), "record.create", AttrRecordID.Int64(7))
			EndSpan(span, tt.err)

			ended := recorder.Ended()
			require.Len(t, ended, 1)
			got := ended[0]
			assert.Equal(t, "record.create", got.Name())
			assert.Contains(t, got.Attributes(), AttrRecordID.Int64(7))
			assert.Equal(t, tt.wantStatus, got.Status().Code)

			if tt.wantEvent == "" {
				assert.Empty(t, got.Events())
				return
			}
			require.Len(t, got.Events(), 1)
			assert.Equal(t, tt.wantEvent, got.Events()[0].Name)
		})
	}
}

func TestStartSpan_NestsUnderParent(t *testing.T) {
	recorder := recordSpans(t)

	ctx, parent := StartSpan(context.Background(), "POST /api/v1/records")
	_, child := StartSpan(ctx, "record.create")
	EndSpan(child, nil)
	EndSpan(parent, nil)

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
	assert.NotEmpty(t, TraceIDFromContext(ctx))
}

func TestNewTelemetry_Disabled(t *testing.T) {
	tel, err := NewTelemetry(context.Background(), config.OtelConfig{ServiceName: "eatme"}, config.AppConfig{})
	require.NoError(t, err)
	require.NotNil(t, tel.Tracer)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestSampleRate(t *testing.T) {
	assert.InDelta(t, 0.5, sampleRate(0.5), 1e-9)
	assert.InDelta(t, defaultSampleRate, sampleRate(0), 1e-9)
	assert.InDelta(t, defaultSampleRate, sampleRate(1.5), 1e-9)
}
