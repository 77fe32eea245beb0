// Package logging wraps zerolog with the defaults used by the CLI and the server.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment selects the logger format
type Environment string

const (
	// Development writes human-readable console output at debug level
	Development Environment = "development"
	// Production writes JSON at info level
	Production Environment = "production"
	// Testing discards everything below error
	Testing Environment = "testing"
)

// ParseEnvironment maps a free-form value to a known environment.
// Unknown values fall back to Development.
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(v))) {
	case Production:
		return Production
	case Testing:
		return Testing
	default:
		return Development
	}
}

// Init configures the global logger for the given environment
func Init(env Environment) {
	InitWithWriter(env, os.Stderr)
}

// InitWithWriter is Init with an explicit destination
func InitWithWriter(env Environment, w io.Writer) {
	switch env {
	case Production:
		log.Logger = zerolog.New(w).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	case Testing:
		log.Logger = zerolog.New(w).Level(zerolog.ErrorLevel)
	default:
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Caller().Logger().Level(zerolog.DebugLevel)
	}
}

// SetVerbose lowers the global level to debug
func SetVerbose(verbose bool) {
	if verbose {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}
}

// Component returns a child logger tagged with the component name
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}
