package ai

import "sync/atomic"

// debugLoggingEnabled gates debug records built on the per-tick path.
// Checking an atomic is cheaper than asking slog for the level on every
// agent every tick.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging toggles AI debug logging.
// Called once from main after the log level is parsed.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
// Use this to guard debug log calls inside brains:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("agent state changed", "from", old, "to", next)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
