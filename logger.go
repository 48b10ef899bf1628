package paint

import (
	"log/slog"
	"sync/atomic"
)

var (
	logger  atomic.Pointer[slog.Logger]
	discard = slog.New(slog.DiscardHandler)
)

// SetLogger routes the log records of the canvas, the GPU engine and the
// interaction state machine to l. Nothing is logged by default; passing
// nil restores that.
//
// Records by level:
//   - [slog.LevelDebug]: one per dispatch, canvas copy and flood fill
//   - [slog.LevelInfo]: adapter, canvas format, present mode, canvas ready
//   - [slog.LevelWarn]: surface reconfiguration, dropped polygon points,
//     events before Init, failed settings reloads
//   - [slog.LevelError]: event handler failures when no error handler is set
//
// Example:
//
//	paint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
//
// SetLogger may be called from any goroutine.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// Logger returns the logger set with SetLogger, or one that discards
// every record. The internal packages log only through it.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return discard
}
