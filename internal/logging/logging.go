// Package logging builds the application logger: colorized console
// output in dev mode, JSON lines otherwise.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the root logger.
func New(devMode bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if devMode {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "2006-01-02 15:04:05",
		}
		return zerolog.New(output).
			Level(zerolog.DebugLevel).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(os.Stdout).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}
