package gpu

import (
	"log/slog"

	"github.com/gogpu/paint"
)

// slogger returns the logger configured with paint.SetLogger.
// All logging in internal/gpu goes through this function.
func slogger() *slog.Logger { return paint.Logger() }
