package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the process logger: human-readable console output during
// development, JSON lines in production.
func New(environment string) zerolog.Logger {
	return NewWithWriter(environment, os.Stdout)
}

func NewWithWriter(environment string, out io.Writer) zerolog.Logger {
	production := environment == "production"

	if !production {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(out).With().
		Timestamp().
		Str("service", "edumate-api").
		Str("env", environment).
		Logger()

	if production {
		return logger.Level(zerolog.InfoLevel)
	}
	return logger.Level(zerolog.DebugLevel)
}
