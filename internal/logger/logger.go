/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package logger provides the process-wide leveled logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr)
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func newLogger(w io.Writer) zerolog.Logger {
	if w == io.Discard {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}).
		With().Timestamp().Logger()
}

// SetOutput configures the logger output destination.
// Use io.Discard to silence all logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w)
}

// SetLevel sets the minimum level: debug, info, warn, error or disabled.
func SetLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled", "off", "none":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	current().Warn().Msgf(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	current().Debug().Msgf(format, args...)
}
