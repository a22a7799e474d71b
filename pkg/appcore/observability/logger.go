// Package observability holds the log, metric and trace plumbing shared by
// the appcore packages. Log helpers accept a nil logger. Metrics and spans
// go through OpenTelemetry and default to the Noop implementations.
package observability

import (
	"log/slog"
)

// LogEmit logs an event dispatch.
func LogEmit(logger *slog.Logger, eventType string, handlers int) {
	if logger == nil {
		return
	}
	logger.Debug("event emitted",
		slog.String("event_type", eventType),
		slog.Int("handlers", handlers),
	)
}

// LogHandlerPanic logs a recovered handler panic.
func LogHandlerPanic(logger *slog.Logger, eventType, subscriptionID string, value any) {
	if logger == nil {
		return
	}
	logger.Error("event handler panicked",
		slog.String("event_type", eventType),
		slog.String("subscription_id", subscriptionID),
		slog.Any("panic", value),
	)
}

// LogInvalidArgument logs a rejected call. Rejections are part of the
// normal contract, so they only show up at debug level.
func LogInvalidArgument(logger *slog.Logger, err error) {
	if logger == nil || err == nil {
		return
	}
	logger.Debug("call ignored",
		slog.String("error", err.Error()),
	)
}

// LogRequestStart logs the start of an HTTP request.
func LogRequestStart(logger *slog.Logger, requestID, method, url string) {
	if logger == nil {
		return
	}
	logger.Debug("http request starting",
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("url", url),
	)
}

// LogRequestComplete logs a completed HTTP request, whatever its status code.
func LogRequestComplete(logger *slog.Logger, requestID string, status int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("http request completed",
		slog.String("request_id", requestID),
		slog.Int("status", status),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogRequestError logs a transport-level HTTP failure.
func LogRequestError(logger *slog.Logger, requestID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Warn("http request failed",
		slog.String("request_id", requestID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogConfigReload logs a config file reload.
func LogConfigReload(logger *slog.Logger, path string, updated int, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Warn("config reload failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Info("config reloaded",
		slog.String("path", path),
		slog.Int("updated", updated),
	)
}

// LogDestroy logs the teardown of a core instance.
func LogDestroy(logger *slog.Logger, eventTypes, storageKeys int) {
	if logger == nil {
		return
	}
	logger.Debug("core destroyed",
		slog.Int("event_types", eventTypes),
		slog.Int("storage_keys", storageKeys),
	)
}

