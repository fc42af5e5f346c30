package observability

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/skshamimiqbal/greeter/internal/domain"
)

// knownMethods bounds metric cardinality: any other method is reported as "_OTHER".
var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodConnect: true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// NormalizeMethod returns method if it is a standard HTTP method and "_OTHER" otherwise.
func NormalizeMethod(method string) string {
	if knownMethods[method] {
		return method
	}
	return "_OTHER"
}

// InstrumentHandler wraps next with a server span, request metrics and a
// debug log line per request. The response produced by next is passed
// through untouched.
func InstrumentHandler(name string, next http.Handler, clock domain.Clock) (http.Handler, error) {
	metrics, err := NewHTTPMetrics(Meter(name))
	if err != nil {
		return nil, fmt.Errorf("instrument handler: %w", err)
	}
	tracer := Tracer(name)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := clock.Now()
		method := NormalizeMethod(r.Method)

		ctx := ExtractHTTP(r.Context(), r.Header)
		ctx, span := tracer.Start(ctx, method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))

		status := rec.statusCode()
		elapsed := domain.Since(clock, start)
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		metrics.Record(ctx, method, status, elapsed)

		if logger := slog.Default(); logger.Enabled(ctx, slog.LevelDebug) {
			LoggerFromContext(ctx).LogAttrs(ctx, slog.LevelDebug, "request served",
				slog.String("request_id", uuid.NewString()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("elapsed", elapsed),
			)
		}
	}), nil
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
