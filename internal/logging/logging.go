// Where: internal/logging/logging.go
// What: zerolog setup for the CLI.
// Why: Give every component the same leveled logger with console and file output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/poruru/dklet/internal/meta"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Verbosity levels mapped from CLI flags.
const (
	VerbosityDefault = 0
	VerbosityVerbose = 1
	VerbosityDebug   = 2
)

// Setup configures the global logger based on verbosity level.
// Console output goes to console (stderr when nil); a log file under the XDG state
// directory receives the same events when it can be opened. The returned closer
// releases the log file and is never nil.
func Setup(console io.Writer, verbosity int) io.Closer {
	switch {
	case verbosity <= VerbosityDefault:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case verbosity == VerbosityVerbose:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case verbosity == VerbosityDebug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(console),
	}}

	logPath := LogFilePath()
	logFile, err := openLogFile(logPath)
	if err == nil {
		writers = append(writers, logFile)
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	if verbosity >= VerbosityDebug {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	if err != nil {
		log.Warn().Err(err).Str("path", logPath).Msg("Failed to open log file, logging to console only")
		return nopCloser{}
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", logPath).Msg("Logger initialized")
	return logFile
}

// For returns a logger tagged with the given component name.
func For(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Nop returns a disabled logger for tests and library callers.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// LogCommand logs a composed command before it runs.
func LogCommand(logger zerolog.Logger, script string, dry bool) {
	logger.Debug().
		Str("command", script).
		Bool("dry", dry).
		Msg("Executing command")
}

// LogFilePath returns the log file location under XDG_STATE_HOME.
func LogFilePath() string {
	return filepath.Join(xdg.StateHome, meta.AppName, meta.LogFile)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}
