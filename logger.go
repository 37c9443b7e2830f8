// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lz77

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Logger is the leveled sink the core reports diagnostics through. It is
// satisfied by *logrus.Logger, mirroring the original program's replaceable
// lz77_log function pointer (logger.c) but expressed as a small interface
// instead of a bare function, so structured fields survive the call.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

var defaultLogger Logger = logrus.StandardLogger()

// loggerSlot holds the process-wide installed logger. A nil value means
// "use defaultLogger". atomic.Pointer gives SetLogger/currentLogger a
// data-race-free handoff across independent goroutines driving unrelated
// streams concurrently.
var loggerSlot atomic.Pointer[Logger]

// SetLogger installs the process-wide logger sink. Passing nil restores the
// default (a *logrus.Logger writing to stderr). Safe to call concurrently
// with an in-flight Compress/Decompress on another stream.
func SetLogger(l Logger) {
	if l == nil {
		loggerSlot.Store(nil)
		return
	}
	loggerSlot.Store(&l)
}

func currentLogger() Logger {
	if p := loggerSlot.Load(); p != nil {
		return *p
	}
	return defaultLogger
}
