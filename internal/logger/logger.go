package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the application logger. JSON to stderr by default, with a
// console writer in development so local logs stay readable.
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("ENV") == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
	}

	return logger
}
