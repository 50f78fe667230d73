package logger

import (
	"github.com/fatih/color"
)

// Colorized printf-style functions, one per log level. Wrapper commands
// stream the wrapped tool's own output untouched; these are only for
// shimbox's own chatter.

// Info logs informational messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warnings in bright magenta.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs errors in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan when enabled, otherwise is a no-op.
// Assigned by Init based on the --debug flag.
var Debug func(format string, a ...any)

func init() {
	// Safe default so packages can log before Init runs (e.g. in tests).
	Debug = func(format string, a ...any) {}
}

// Init enables or disables debug logging.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
