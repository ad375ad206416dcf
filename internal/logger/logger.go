// Package logger configures the global zerolog logger from CLI options.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger holds logging options, embedded as a go-flags group.
type Logger struct {
	Level   string `long:"log-level"  env:"LOG_LEVEL"  description:"Log level"  choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format  string `long:"log-format" env:"LOG_FORMAT" description:"Log format" choice:"text" choice:"json" default:"text"`
	Output  string `long:"log-output" env:"LOG_OUTPUT" description:"Log output (stdout, stderr or file path)" default:"stderr"`
	NoColor bool   `long:"log-no-color" env:"LOG_NO_COLOR" description:"Disable colored text output"`
}

// Setup applies the options to the global logger.
// Unknown levels fall back to info, an unwritable file falls back to stderr.
func (l Logger) Setup() {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	out := l.writer()
	if l.Format == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    l.NoColor,
		TimeFormat: time.DateTime,
	}).With().Timestamp().Logger()
}

func (l Logger) writer() io.Writer {
	switch l.Output {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	}

	f, err := os.OpenFile(l.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Error().Err(err).Str("path", l.Output).Msg("Failed to open log file, using stderr")
		return os.Stderr
	}

	return f
}
