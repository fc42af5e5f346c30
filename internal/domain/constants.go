package domain

import "time"

// Compiled defaults. The port can be overridden via configuration.
const (
	// DefaultPort is used when PORT is unset or not a valid TCP port.
	DefaultPort = 3000

	// Greeting is the exact response body for every request.
	Greeting = "Hello, I am Sk Shamim Iqbal!\n"

	// GreetingContentType is the Content-Type sent with Greeting.
	GreetingContentType = "text/plain"

	// HTTP server timeouts
	HTTPReadTimeout  = 10 * time.Second
	HTTPWriteTimeout = 10 * time.Second
	HTTPIdleTimeout  = 60 * time.Second

	// Shutdown budgets
	ShutdownHTTPTimeout = 10 * time.Second // Max time to drain in-flight requests
	ShutdownOTELTimeout = 5 * time.Second  // Max time to flush telemetry

	// GracefulShutdownTimeout bounds the whole shutdown sequence.
	GracefulShutdownTimeout = ShutdownHTTPTimeout + ShutdownOTELTimeout
)
