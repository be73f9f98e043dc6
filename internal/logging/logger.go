// Package logging wraps go.uber.org/zap so every component logs
// through structured, leveled fields passed in at construction instead
// of calling fmt.Print/log.Printf directly (spec §9: explicit
// constructor parameters, no hidden global access).
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field re-exports zap.Field so callers never import zap directly.
type Field = zap.Field

var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Duration = zap.Duration
	Bool     = zap.Bool
	Error    = zap.Error
)

// Logger is the structured logger every core component takes at
// construction.
type Logger struct {
	zap *zap.Logger
}

// New builds a console logger at the given level ("debug", "info",
// "warn", "error"). Output goes to stderr so stdout stays free for the
// CLI's own report/report-link output.
func New(level string) *Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoder := zapcore.NewConsoleEncoder(cfg)
	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), levelFromString(level))
	return &Logger{zap: zap.New(core)}
}

// Nop returns a logger that discards everything, for tests and library
// callers that don't want console output.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func levelFromString(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.zap.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.zap.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.zap.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.zap.Error(msg, fields...) }

// With returns a child logger carrying the given fields on every call.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{zap: l.zap.With(fields...)}
}

// Sync flushes any buffered log entries; call it before process exit.
func (l *Logger) Sync() error { return l.zap.Sync() }
