// Package logging wraps charmbracelet/log behind a small package-level API.
//
// Commands log progress detail at debug level; user-facing output goes
// through fmt/report, never through the logger. The --verbose flag raises
// the default logger to debug.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	defaultLogger *log.Logger
	defaultOnce   sync.Once
)

func getDefault() *log.Logger {
	defaultOnce.Do(func() {
		defaultLogger = New("warn")
	})
	return defaultLogger
}

// New creates a logger writing to stderr at the given level.
// Valid levels: "debug", "info", "warn", "error".
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	applyLevel(logger, level)
	return logger
}

func applyLevel(logger *log.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}
}

// Default returns the package-level logger.
func Default() *log.Logger {
	return getDefault()
}

// SetDefault replaces the package-level logger.
func SetDefault(logger *log.Logger) {
	defaultLogger = logger
}

// SetLevel changes the level of the package-level logger.
func SetLevel(level string) {
	applyLevel(getDefault(), level)
}

// Named returns a child of the default logger with a subsystem prefix,
// e.g. Named("inject") tags lines with "inject".
func Named(subsystem string) *log.Logger {
	return getDefault().WithPrefix(subsystem)
}
