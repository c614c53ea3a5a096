// Package logging provides structured diagnostics for pkgview.
//
// Diagnostics never go to stdout: stdout is the progress surface and a log
// line there would tear a bar that is being redrawn in place.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/rescale/pkgview/internal/constants"
)

// Logger wraps zerolog with an optional rotating log file.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer // current console writer
	file    *lumberjack.Logger
}

// NewLogger creates a logger writing human readable lines to out and, when
// logFile is set, JSON lines to a rotating file.
func NewLogger(out io.Writer, logFile string) *Logger {
	l := &Logger{}
	if logFile != "" {
		l.file = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    constants.LogFileMaxSizeMB,
			MaxBackups: constants.LogFileMaxBackups,
			MaxAge:     constants.LogFileMaxAgeDays,
			Compress:   true,
		}
	}
	l.SetOutput(out)
	return l
}

// NewDefaultCLILogger creates a default CLI logger on stderr.
func NewDefaultCLILogger() *Logger {
	return NewLogger(os.Stderr, "")
}

// NewNopLogger creates a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{zlog: zerolog.Nop(), console: io.Discard}
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// With creates a child logger context with additional fields.
func (l *Logger) With() zerolog.Context {
	return l.zlog.With()
}

// SetOutput changes the console writer, keeping the log file if any.
// Used to route diagnostics through a multi-bar container's writer.
func (l *Logger) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.console = w

	var out io.Writer = zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: constants.LogTimeFormat,
	}
	if l.file != nil {
		out = zerolog.MultiLevelWriter(out, l.file)
	}
	l.zlog = zerolog.New(out).With().Timestamp().Logger()
}

// Output returns the current console writer.
func (l *Logger) Output() io.Writer {
	return l.console
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Debugf logs a debug message with printf-style formatting.
// This is only shown when debug mode is enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zlog.Debug().Msgf(format, args...)
}

// Infof logs an info message with printf-style formatting.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.zlog.Info().Msgf(format, args...)
}

// Errorf logs an error message with printf-style formatting.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zlog.Error().Msgf(format, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zlog.Warn().Msgf(format, args...)
}

// SetGlobalLevel sets the global log level.
func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

func init() {
	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Configure global logger
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: constants.LogTimeFormat,
	})
}
