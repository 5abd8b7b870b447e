package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin printf-style facade over zap. Services and use cases
// depend on a local three-method interface (Info/Warn/Error), so this
// concrete type stays behind those contracts everywhere except main.
type Logger struct {
	zl *zap.SugaredLogger
}

// New creates a logger writing to stdout and, when file is non-empty, to the
// given file. Level is one of debug, info, warn, error (default info).
func New(file string, level string) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	cfg.OutputPaths = []string{"stdout"}
	if file != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, file)
	}

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("logger: build zap logger: %w", err)
	}

	return &Logger{zl: zl.Sugar()}, nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Debug logs a formatted message at debug level.
func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debugf(format, v...)
}

// Info logs a formatted message at info level.
func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Infof(format, v...)
}

// Warn logs a formatted message at warn level.
func (l *Logger) Warn(format string, v ...interface{}) {
	l.zl.Warnf(format, v...)
}

// Error logs a formatted message at error level.
func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Errorf(format, v...)
}

// Fatal logs a formatted message and terminates the process.
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.zl.Errorf(format, v...)
	_ = l.zl.Sync()
	os.Exit(1)
}

// Close flushes buffered log entries.
func (l *Logger) Close() {
	_ = l.zl.Sync()
}
