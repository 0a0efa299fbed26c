package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level int
	sugar *zap.SugaredLogger
}

func NewLogger(level int) *defaultLogger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}

	return &defaultLogger{level: level, sugar: l.Sugar()}
}

// ParseLevel converts a config string to a logger level, INFO if unknown.
func ParseLevel(s string) int {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARNING
	case "ERROR":
		return ERROR
	case "SILENCE":
		return SILENCE
	default:
		return INFO
	}
}

func zapLevel(level int) zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case WARNING:
		return zapcore.WarnLevel
	case ERROR, SILENCE:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	if l.level <= DEBUG {
		l.sugar.Debugf(msg, a...)
	}
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	if l.level <= INFO {
		l.sugar.Infof(msg, a...)
	}
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	if l.level <= WARNING {
		l.sugar.Warnf(msg, a...)
	}
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	if l.level <= ERROR {
		l.sugar.Errorf(msg, a...)
	}
}

// Sync flushes buffered log entries.
func (l *defaultLogger) Sync() {
	_ = l.sugar.Sync()
}
