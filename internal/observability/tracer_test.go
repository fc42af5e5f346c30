package observability_test

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/skshamimiqbal/greeter/internal/observability"
)

func TestInitTracer_NoEndpoint(t *testing.T) {
	cfg := observability.TracerConfig{
		ServiceName:    "test-service",
		ServiceVersion: "0.0.1",
		Environment:    "test",
		OTLPEndpoint:   "",
	}

	tp, err := observability.InitTracer(context.Background(), cfg)

	require.NoError(t, err)
	require.NotNil(t, tp)

	err = tp.Shutdown(context.Background())
	assert.NoError(t, err)
}

func TestTracerProvider_ShutdownNilProvider(t *testing.T) {
	tp := &observability.TracerProvider{}

	err := tp.Shutdown(context.Background())

	assert.NoError(t, err)
}

func TestTraceIDFromContext_NoActiveSpan(t *testing.T) {
	traceID := observability.TraceIDFromContext(context.Background())

	assert.Empty(t, traceID)
}

func TestTraceIDFromContext_WithActiveSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "test-span")
	defer span.End()

	traceID := observability.TraceIDFromContext(ctx)

	assert.NotEmpty(t, traceID)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), traceID)
}

func TestExtractHTTP(t *testing.T) {
	tp, err := observability.InitTracer(context.Background(), observability.TracerConfig{ServiceName: "test-service"})
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	t.Run("picks up traceparent", func(t *testing.T) {
		h := http.Header{}
		h.Set("traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")

		ctx := observability.ExtractHTTP(context.Background(), h)

		assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", observability.TraceIDFromContext(ctx))
	})

	t.Run("no headers leaves context empty", func(t *testing.T) {
		ctx := observability.ExtractHTTP(context.Background(), http.Header{})

		assert.Empty(t, observability.TraceIDFromContext(ctx))
	})

	t.Run("propagator round trip", func(t *testing.T) {
		local := sdktrace.NewTracerProvider()
		defer func() { _ = local.Shutdown(context.Background()) }()
		ctx, span := local.Tracer("test").Start(context.Background(), "client")
		defer span.End()

		h := http.Header{}
		propagation.TraceContext{}.Inject(ctx, propagation.HeaderCarrier(h))

		got := observability.ExtractHTTP(context.Background(), h)

		assert.Equal(t, observability.TraceIDFromContext(ctx), observability.TraceIDFromContext(got))
	})
}
