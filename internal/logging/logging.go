// Package logging provides the leveled logger used by the service validators.
// A Logger is constructed by the caller and passed to the components that need
// it; the package-level helpers only exist for command entry points.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Priority mirrors syslog severities. Higher values are more severe.
type Priority int

const (
	PriorityDebug Priority = iota
	PriorityInfo
	PriorityNotice
	PriorityWarning
	PriorityError
)

func (p Priority) String() string {
	switch p {
	case PriorityDebug:
		return "DEBUG"
	case PriorityInfo:
		return "INFO"
	case PriorityNotice:
		return "NOTICE"
	case PriorityWarning:
		return "WARNING"
	case PriorityError:
		return "ERROR"
	default:
		return fmt.Sprintf("PRIORITY(%d)", int(p))
	}
}

// ParsePriority converts a config value such as "notice" or "ERROR" into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return PriorityDebug, nil
	case "INFO":
		return PriorityInfo, nil
	case "NOTICE":
		return PriorityNotice, nil
	case "WARN", "WARNING":
		return PriorityWarning, nil
	case "ERROR":
		return PriorityError, nil
	}
	return PriorityNotice, fmt.Errorf("invalid log priority: %q", s)
}

// zapLevel maps a priority onto the closest zap level. zap has no NOTICE, so
// notice records go out at info with the priority attached as a field.
func (p Priority) zapLevel() zapcore.Level {
	switch {
	case p <= PriorityDebug:
		return zapcore.DebugLevel
	case p <= PriorityNotice:
		return zapcore.InfoLevel
	case p == PriorityWarning:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Logger writes prioritized records to a main sink and, on request, echoes
// them to a console sink. Records below the minimum priority are dropped.
type Logger struct {
	title       string
	mu          sync.RWMutex
	minPriority Priority
	verbose     bool
	sink        *zap.Logger
	console     *zap.Logger
}

// Option configures a Logger.
type Option func(*Logger)

// WithSink replaces the main zap logger.
func WithSink(z *zap.Logger) Option {
	return func(l *Logger) {
		l.sink = z
	}
}

// WithConsole replaces the zap logger used for console echo.
func WithConsole(z *zap.Logger) Option {
	return func(l *Logger) {
		l.console = z
	}
}

// WithMinPriority sets the initial threshold.
func WithMinPriority(p Priority) Option {
	return func(l *Logger) {
		l.minPriority = p
	}
}

// New creates a Logger titled with the name of the component that owns it.
// By default the main sink is stderr and the console sink is stdout.
func New(title string, opts ...Option) *Logger {
	l := &Logger{
		title:       title,
		minPriority: PriorityNotice,
		sink:        newZapLogger(os.Stderr),
		console:     newZapLogger(os.Stdout),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.sink = l.sink.Named(title)
	l.console = l.console.Named(title)
	return l
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return New("nop", WithSink(zap.NewNop()), WithConsole(zap.NewNop()))
}

func newZapLogger(out zapcore.WriteSyncer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(out), zapcore.DebugLevel)
	return zap.New(core)
}

// SetVerbose switches the threshold to debug when verbose and to notice
// otherwise. The same flag decides whether components echo to the console.
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.verbose = verbose
	if verbose {
		l.minPriority = PriorityDebug
	} else {
		l.minPriority = PriorityNotice
	}
}

// Verbose reports the flag last passed to SetVerbose.
func (l *Logger) Verbose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose
}

// SetMinPriority sets the threshold directly.
func (l *Logger) SetMinPriority(p Priority) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minPriority = p
}

// MinPriority returns the current threshold.
func (l *Logger) MinPriority() Priority {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.minPriority
}

// Enabled reports whether a record at p would be written.
func (l *Logger) Enabled(p Priority) bool {
	return p >= l.MinPriority()
}

// Log writes msg at priority p. When console is true the record is also
// written to the console sink.
func (l *Logger) Log(p Priority, msg string, console bool) {
	if !l.Enabled(p) {
		return
	}
	write(l.sink, p, msg)
	if console {
		write(l.console, p, msg)
	}
}

// Logf is Log with a format string.
func (l *Logger) Logf(p Priority, console bool, format string, args ...interface{}) {
	if !l.Enabled(p) {
		return
	}
	l.Log(p, fmt.Sprintf(format, args...), console)
}

func write(z *zap.Logger, p Priority, msg string) {
	if ce := z.Check(p.zapLevel(), msg); ce != nil {
		ce.Write(zap.Stringer("priority", p))
	}
}

// Sync flushes both sinks.
func (l *Logger) Sync() error {
	err := l.sink.Sync()
	if cerr := l.console.Sync(); err == nil {
		err = cerr
	}
	return err
}
