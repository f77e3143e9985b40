// Package logger wraps charmbracelet/log with a rotating file sink.
//
// The package-level helpers are safe to call before Init; they drop the
// message until a logger has been installed.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the log file inside <dir>/logs.
const FileName = "habitstreak.log"

var (
	// Logger is the global logger instance
	Logger *log.Logger

	rotator *lumberjack.Logger
)

// Config holds logger configuration
type Config struct {
	Debug bool
	// Dir is the data directory; logs go to Dir/logs.
	Dir string
}

// Init installs the global logger. In debug mode messages are mirrored to
// stderr and the level drops to debug; otherwise only warnings and errors are
// written, and only to the file.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.Dir, "logs")
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return err
	}

	Close()
	rotator = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.WarnLevel
	var writer io.Writer = rotator
	if cfg.Debug {
		level = log.DebugLevel
		writer = io.MultiWriter(os.Stderr, rotator)
	}

	// CallerOffset skips the package-level helper so the caller is reported.
	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		CallerOffset:    1,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "habitstreak",
	})
	return nil
}

// Path returns the log file path for dir.
func Path(dir string) string {
	return filepath.Join(dir, "logs", FileName)
}

// Close flushes and closes the rotating file, if one is open.
func Close() {
	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
