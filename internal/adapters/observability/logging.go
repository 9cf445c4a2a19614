package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the service logger. APP_ENV=dev (or development)
// uses a human-friendly console writer at debug level; everything else
// logs JSON at info. Every line carries the service name so the API,
// seeder, and metrics listener are distinguishable in shared sinks.
func NewLogger(env string) zerolog.Logger {
	out := io.Writer(os.Stdout)
	level := zerolog.InfoLevel
	if env == "dev" || env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}
	return zerolog.New(out).Level(level).
		With().Timestamp().Str("service", "hotelrec").Logger()
}
