package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/campus-events/server/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), config.TracingConfig{Enabled: false}, "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_Validation(t *testing.T) {
	_, err := InitTracing(context.Background(), config.TracingConfig{Enabled: true, Exporter: "none", SampleRate: 2}, "test")
	require.Error(t, err)

	_, err = InitTracing(context.Background(), config.TracingConfig{Enabled: true, Exporter: "zipkin", SampleRate: 1}, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported exporter")
}

func TestInitTracing_NoneExporter(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), config.TracingConfig{
		Enabled:     true,
		Exporter:    "none",
		ServiceName: "campus-events-test",
		SampleRate:  0.5,
	}, "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestStartAndEndSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	_, span := StartSpan(context.Background(), tracer, "registrations.Register", "event1")
	EndSpan(span, errors.New("capacity exceeded"))

	_, ok := StartSpan(context.Background(), tracer, "registrations.Cancel", "event2")
	EndSpan(ok, nil)

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "registrations.Register", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "event1", ended[0].Attributes()[0].Value.AsString())
	assert.Equal(t, codes.Unset, ended[1].Status().Code)
}
