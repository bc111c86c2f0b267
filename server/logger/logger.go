package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration
type Config struct {
	Level      string    // debug, info, warn, error
	Pretty     bool      // Use pretty console output (for development)
	TimeFormat string    // Time format (default: RFC3339)
	Output     io.Writer // Defaults to os.Stdout
}

// baseLogger is the underlying logger shared by the helpers below
var baseLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init initializes the global logger with the given configuration
func Init(cfg *Config) {
	if cfg == nil {
		cfg = &Config{Level: "info", Pretty: true}
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}
	zerolog.TimeFieldFormat = cfg.TimeFormat

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	baseLogger = zerolog.New(output).With().Timestamp().Logger()
	log.Logger = baseLogger
}

// Debugf logs a formatted debug message
func Debugf(format string, v ...interface{}) {
	baseLogger.Debug().Caller(1).Msgf(format, v...)
}

// Info logs an info message
func Info(msg string) {
	baseLogger.Info().Caller(1).Msg(msg)
}

// Infof logs a formatted info message
func Infof(format string, v ...interface{}) {
	baseLogger.Info().Caller(1).Msgf(format, v...)
}

// Warnf logs a formatted warning message
func Warnf(format string, v ...interface{}) {
	baseLogger.Warn().Caller(1).Msgf(format, v...)
}

// Errorf logs a formatted error message
func Errorf(format string, v ...interface{}) {
	baseLogger.Error().Caller(1).Msgf(format, v...)
}

// ErrorErr logs an error with error object
func ErrorErr(err error, msg string) {
	baseLogger.Error().Caller(1).Err(err).Msg(msg)
}

// Fatalf logs a formatted fatal message and exits
func Fatalf(format string, v ...interface{}) {
	baseLogger.Fatal().Caller(1).Msgf(format, v...)
}

// Optimization logs the outcome of one optimization run
func Optimization(source string, nodes int, elapsed time.Duration, cached bool, err error) {
	event := baseLogger.Info()
	if err != nil {
		event = baseLogger.Warn().Err(err)
	}
	event.
		Str("source", source).
		Int("nodes", nodes).
		Dur("elapsed", elapsed).
		Bool("cached", cached).
		Msg("optimization")
}
