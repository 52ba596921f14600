// Package logger provides a configured zerolog logger.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a new zerolog.Logger writing to stderr so log lines never
// mix with command output.
func New(component string) zerolog.Logger {
	return zerolog.New(os.Stderr).With().
		Str("component", component).
		Timestamp().
		Logger()
}
