// internal/utils/logger.go
package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a small leveled printf logger shared by every package.
type Logger struct {
	level Level
	out   *log.Logger
	err   *log.Logger
}

// NewLogger writes info and below to stdout, warnings and errors to stderr.
func NewLogger(level Level) *Logger {
	return NewLoggerTo(os.Stdout, os.Stderr, level)
}

func NewLoggerTo(out, errOut io.Writer, level Level) *Logger {
	return &Logger{
		level: level,
		out:   log.New(out, "", 0),
		err:   log.New(errOut, "", 0),
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return NewLoggerTo(io.Discard, io.Discard, LevelError+1)
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Debug(format string, args ...any) {
	if l.level > LevelDebug {
		return
	}
	l.out.Print(fmt.Sprintf("[%s] DEBUG %s", l.timestamp(), fmt.Sprintf(format, args...)))
}

func (l *Logger) Info(format string, args ...any) {
	if l.level > LevelInfo {
		return
	}
	l.out.Print(fmt.Sprintf("[%s] INFO  %s", l.timestamp(), fmt.Sprintf(format, args...)))
}

func (l *Logger) Warn(format string, args ...any) {
	if l.level > LevelWarn {
		return
	}
	l.err.Print(fmt.Sprintf("[%s] WARN  %s", l.timestamp(), fmt.Sprintf(format, args...)))
}

func (l *Logger) Error(format string, args ...any) {
	if l.level > LevelError {
		return
	}
	l.err.Print(fmt.Sprintf("[%s] ERROR %s", l.timestamp(), fmt.Sprintf(format, args...)))
}
