package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracer_RecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := NewTracerWithProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)), "test")

	ctx, span := tracer.StartSpan(context.Background(), "op")
	tracer.RecordError(ctx, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestTracer_Attributes(t *testing.T) {
	tracer := NewTracerWithProvider(sdktrace.NewTracerProvider(), "test")

	assert.Equal(t, []attribute.KeyValue{
		attribute.String("hub.event_type", "petsim.Food"),
		attribute.Int("hub.subscribers", 2),
	}, tracer.PublishAttributes("petsim.Food", 2))

	assert.Equal(t, []attribute.KeyValue{attribute.Bool("error", false)}, tracer.ErrorAttributes(nil))

	attrs := tracer.ErrorAttributes(errors.New("boom"))
	assert.Contains(t, attrs, attribute.Bool("error", true))
	assert.Contains(t, attrs, attribute.String("error.type", "*errors.errorString"))
	assert.Contains(t, attrs, attribute.String("error.message", "boom"))
}
