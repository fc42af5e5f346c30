// Package server provides the service lifecycle runner.
// cmd/greeter delegates to server.Run for signal handling, config loading,
// observability init, serving, and shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/skshamimiqbal/greeter/internal/config"
	"github.com/skshamimiqbal/greeter/internal/domain"
	"github.com/skshamimiqbal/greeter/internal/observability"
)

// Version is reported as the service.version telemetry attribute.
const Version = "0.1.0"

// Params configures a service's lifecycle runner.
type Params struct {
	// Name identifies the service in logs and telemetry.
	Name string

	// PortFromConfig extracts the HTTP port for this service from config.
	PortFromConfig func(cfg *config.Config) int

	// Handler answers every request. It is wrapped with instrumentation.
	Handler http.Handler

	// Stdout receives the startup line. Defaults to os.Stdout.
	Stdout io.Writer
}

// Run executes the service lifecycle: signal handling, config loading,
// observability initialization, HTTP serving, and shutdown. If ln is non-nil
// it is used instead of binding a new listener from config (enables port-0
// testing); Run takes ownership of it and closes it on every return path.
// Exactly one bind attempt is made; its failure is returned.
func Run(ctx context.Context, p Params, ln net.Listener) error {
	// abort releases an injected listener when startup fails before serving.
	abort := func(err error) error {
		if ln != nil {
			_ = ln.Close()
		}
		return err
	}

	// Signal-based cancellation: ctx.Done() closes on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return abort(fmt.Errorf("load config: %w", err))
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: p.Name,
		Environment: cfg.Environment,
	})
	for _, w := range cfg.Warnings {
		logger.Warn("configuration fallback", slog.String("detail", w))
	}

	// --- Startup order: tracer -> metrics -> HTTP server ---

	tracerProvider, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName:    p.Name,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTEL.Endpoint,
	})
	if err != nil {
		return abort(fmt.Errorf("initialize tracer: %w", err))
	}

	metricsProvider, err := observability.InitMetrics(ctx, observability.MetricsConfig{
		ServiceName:    p.Name,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTEL.Endpoint,
	})
	if err != nil {
		flushTelemetry(logger, metricsProvider, tracerProvider)
		return abort(fmt.Errorf("initialize metrics: %w", err))
	}

	handler, err := observability.InstrumentHandler(p.Name, p.Handler, domain.RealClock{})
	if err != nil {
		flushTelemetry(logger, metricsProvider, tracerProvider)
		return abort(err)
	}

	if ln == nil {
		ln, err = (&net.ListenConfig{}).Listen(ctx, "tcp", fmt.Sprintf(":%d", p.PortFromConfig(cfg)))
		if err != nil {
			flushTelemetry(logger, metricsProvider, tracerProvider)
			return fmt.Errorf("listen: %w", err)
		}
	}

	stdout := p.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	fmt.Fprintf(stdout, "Server running on http://localhost:%d/\n", listenPort(ln))

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  domain.HTTPReadTimeout,
		WriteTimeout: domain.HTTPWriteTimeout,
		IdleTimeout:  domain.HTTPIdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	// --- Structured concurrency via errgroup ---
	g, gctx := errgroup.WithContext(ctx)

	// Goroutine 1: Serve HTTP
	g.Go(func() error {
		logger.Info("starting HTTP server",
			slog.String("addr", ln.Addr().String()),
			slog.String("environment", cfg.Environment),
		)
		if serveErr := server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", serveErr)
		}
		return nil
	})

	// Goroutine 2: Shutdown trigger. Waits for cancellation (or a serve
	// failure), then stops in reverse startup order: HTTP -> metrics -> tracer.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		httpCtx, httpCancel := context.WithTimeout(context.Background(), domain.ShutdownHTTPTimeout)
		defer httpCancel()
		if shutdownErr := server.Shutdown(httpCtx); shutdownErr != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", shutdownErr.Error()))
		}

		flushTelemetry(logger, metricsProvider, tracerProvider)

		logger.Info("shutdown complete")
		return nil
	})

	return g.Wait()
}

// flushTelemetry shuts down the metrics and tracer providers within
// domain.ShutdownOTELTimeout. Nil providers are skipped.
func flushTelemetry(logger *slog.Logger, mp *observability.MetricsProvider, tp *observability.TracerProvider) {
	ctx, cancel := context.WithTimeout(context.Background(), domain.ShutdownOTELTimeout)
	defer cancel()

	if mp != nil {
		if err := mp.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown metrics", slog.String("error", err.Error()))
		}
	}
	if tp != nil {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}
}

// listenPort returns the TCP port ln is bound to, or 0 for non-TCP listeners.
func listenPort(ln net.Listener) int {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}
