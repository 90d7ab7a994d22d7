package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NoLogFile disables the log file when passed as Options.LogFile.
const NoLogFile = "-"

// Options controls Setup.
type Options struct {
	// Verbosity is the -v count.
	Verbosity int
	// Console receives the human readable stream. Defaults to os.Stderr.
	Console io.Writer
	// LogFile overrides the log file location. Empty uses the XDG state dir.
	LogFile string
}

// Setup configures the global logger. Console output and a JSON log file are
// written side by side; when the log file cannot be opened only the console
// is used. The returned func closes the log file.
func Setup(opts Options) func() error {
	zerolog.SetGlobalLevel(LevelForVerbosity(opts.Verbosity))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}}

	closeFile := func() error { return nil }
	logPath := opts.LogFile
	if logPath == "" {
		logPath = getLogFilePath()
	}

	var fileErr error
	if logPath != NoLogFile {
		var file *os.File
		file, fileErr = openLogFile(logPath)
		if fileErr == nil {
			writers = append(writers, file)
			closeFile = file.Close
		}
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp()
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logPath).Msg("log file unavailable, logging to console only")
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("logFile", logPath).Msg("logger initialized")
	return closeFile
}

// LevelForVerbosity maps the -v count to a zerolog level.
func LevelForVerbosity(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// GetLogger returns the global logger tagged with a component name.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Or returns *l when set, otherwise the component logger. Library packages
// use it to honour an injected logger.
func Or(l *zerolog.Logger, component string) zerolog.Logger {
	if l != nil {
		return *l
	}
	return GetLogger(component)
}

func getLogFilePath() string {
	return paths.LogFilePath()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "create log directory %s", filepath.Dir(path))
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "open log file %s", path)
	}
	return file, nil
}

// LogOperationStart logs the start of an operation at debug level and returns
// a func that logs its completion with the elapsed time.
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("operation completed")
	}
}
