package logging

import "sync/atomic"

var std atomic.Pointer[Logger]

func init() {
	std.Store(New("servicevalidator", WithMinPriority(PriorityInfo)))
}

// Default returns the process logger used by the package-level helpers.
func Default() *Logger {
	return std.Load()
}

// SetDefault replaces the process logger.
func SetDefault(l *Logger) {
	if l != nil {
		std.Store(l)
	}
}

func Debug(format string, args ...interface{}) {
	Default().Logf(PriorityDebug, false, format, args...)
}

func Info(format string, args ...interface{}) {
	Default().Logf(PriorityInfo, false, format, args...)
}

func Warn(format string, args ...interface{}) {
	Default().Logf(PriorityWarning, false, format, args...)
}

func Error(format string, args ...interface{}) {
	Default().Logf(PriorityError, false, format, args...)
}

// Sync flushes the process logger. Errors from syncing a terminal are ignored.
func Sync() {
	_ = Default().Sync()
}
