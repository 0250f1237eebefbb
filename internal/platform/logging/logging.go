package logging

import (
	"io"
	"os"

	hclog "github.com/hashicorp/go-hclog"
)

// New returns the process logger. The accrual engine absorbs store and
// provider failures instead of propagating them, so diagnostics are the only
// trace those failures leave.
func New(name string) hclog.Logger {
	level := hclog.Warn
	if raw := os.Getenv("WALKREAD_LOG"); raw != "" {
		level = hclog.LevelFromString(raw)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  level,
		Output: os.Stderr,
	})
}

// Discard suppresses all output; used in tests and by the plugin host.
func Discard() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel})
}
