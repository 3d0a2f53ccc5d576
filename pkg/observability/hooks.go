// Package observability provides hooks for instrumenting registry traffic.
//
// Hooks are plain interfaces passed to the components that emit events, so
// there is no process-wide registry to configure. Every consumer falls back
// to a no-op implementation when none is given.
//
// # Usage
//
//	logger := log.New(os.Stderr)
//	transport := httputil.NewTransport(
//	    httputil.WithHooks(observability.NewLogHTTPHooks(logger)),
//	)
package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout, cancellation).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// LogHTTPHooks writes HTTP events to a logger at debug level.
// Errors are logged at warn level.
type LogHTTPHooks struct {
	logger *log.Logger
}

// NewLogHTTPHooks returns hooks that log through l.
// A nil logger yields hooks that behave like [NoopHTTPHooks].
func NewLogHTTPHooks(l *log.Logger) *LogHTTPHooks {
	return &LogHTTPHooks{logger: l}
}

func (h *LogHTTPHooks) OnRequest(_ context.Context, method, host, path string) {
	if h.logger == nil {
		return
	}
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHTTPHooks) OnResponse(_ context.Context, method, host, path string, statusCode int, duration time.Duration) {
	if h.logger == nil {
		return
	}
	h.logger.Debug("http response",
		"method", method,
		"host", host,
		"path", path,
		"status", statusCode,
		"duration", duration.Round(time.Millisecond),
	)
}

func (h *LogHTTPHooks) OnError(_ context.Context, method, host, path string, err error) {
	if h.logger == nil {
		return
	}
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ HTTPHooks = NoopHTTPHooks{}
	_ HTTPHooks = (*LogHTTPHooks)(nil)
)
