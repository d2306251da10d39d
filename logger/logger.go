package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New configures the process-wide zerolog logger: human-readable console
// output in development, JSON everywhere else. The configured logger is also
// installed as zerolog's global so packages can use log.Info() directly.
func New(environment string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if environment == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zl := zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	log.Logger = zl
	return zl
}
