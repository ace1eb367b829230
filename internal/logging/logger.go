// Package logging configures log/slog for the brand admin.
//
// Request-scoped loggers carry the chi request id and, once the request
// context middleware has run, the acting employee.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

// Setup installs the default logger on stdout.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	slog.SetDefault(New(os.Stdout, level, format))
}

// New returns a logger writing to w.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromContext returns the default logger with request_id and employee_id
// attached when ctx carries them.
//
//	logging.FromContext(r.Context()).Warn("flash dropped", "error", err)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if id := core.GetEmployeeIDFromContext(ctx); id != 0 {
		logger = logger.With("employee_id", id)
	}
	return logger
}

// ForObject returns a request logger for one catalog object, e.g.
// ForObject(ctx, "Manufacturer", 42).
func ForObject(ctx context.Context, objectType string, id int) *slog.Logger {
	return FromContext(ctx).With("object_type", objectType, "object_id", id)
}
