// Package logging wraps charmbracelet/log with the process-wide logger and
// the structured field names gomddeep logs with.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var defaultLogger atomic.Pointer[log.Logger]

// levels maps accepted level names; anything else means info.
var levels = map[string]log.Level{
	"debug":   log.DebugLevel,
	"info":    log.InfoLevel,
	"warn":    log.WarnLevel,
	"warning": log.WarnLevel,
	"error":   log.ErrorLevel,
}

// ParseLevel returns the level named by s, or info.
func ParseLevel(s string) log.Level {
	if level, ok := levels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level
	}
	return log.InfoLevel
}

// New returns a stderr logger at level.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a logger writing to w at level, without timestamps.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: ParseLevel(level)})
}

// NewInteractive returns the prefixed logger used for messages aimed at a
// person, such as the confirmations printed by init.
func NewInteractive() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel, Prefix: "gomddeep"})
}

// Default returns the process-wide logger, creating it at info level on
// first use.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
