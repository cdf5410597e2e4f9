package telemetry

import (
	"log"

	"tower-survival/server/logging"
)

// Logger is the printf-style logger shared by the server components.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts functions into the Logger interface.
type LoggerFunc func(format string, args ...any)

// Printf implements Logger for LoggerFunc.
func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// WrapLogger adapts a standard library logger. A nil logger discards output.
func WrapLogger(logger *log.Logger) Logger {
	return LoggerFunc(func(format string, args ...any) {
		if logger == nil {
			return
		}
		logger.Printf(format, args...)
	})
}

// WithPrefix prepends a bracketed component tag to every line.
func WithPrefix(logger Logger, component string) Logger {
	if logger == nil {
		return NopLogger()
	}
	tag := "[" + component + "] "
	return LoggerFunc(func(format string, args ...any) {
		logger.Printf(tag+format, args...)
	})
}

// NopLogger discards everything.
func NopLogger() Logger {
	return LoggerFunc(func(string, ...any) {})
}

// Metrics is the counter and gauge surface used outside the logging package.
type Metrics interface {
	Add(key string, delta uint64)
	Store(key string, value uint64)
}

// WrapMetrics adapts router metrics into the Metrics interface.
func WrapMetrics(metrics *logging.Metrics) Metrics {
	return metricsAdapter{metrics: metrics}
}

type metricsAdapter struct {
	metrics *logging.Metrics
}

func (m metricsAdapter) Add(key string, delta uint64) {
	if m.metrics == nil {
		return
	}
	m.metrics.TelemetryAdd(key, delta)
}

func (m metricsAdapter) Store(key string, value uint64) {
	if m.metrics == nil {
		return
	}
	m.metrics.TelemetryStore(key, value)
}

// NopMetrics drops every sample.
func NopMetrics() Metrics {
	return metricsAdapter{}
}
