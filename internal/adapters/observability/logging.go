package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the process-wide zerolog Logger: JSON to stdout, or a
// human-friendly console writer when APP_ENV=dev.
func NewLogger(env string) zerolog.Logger {
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Str("service", "hostel-api").Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Str("service", "hostel-api").Logger()
}
