package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	logger *logrus.Logger
	ctx    context.Context
	fields logrus.Fields
}

// NewLogger initializes a new instance of Logger writing to stdout.
func NewLogger(ctx context.Context, level string, jsonFormat bool) *Logger {
	return NewLoggerWithOutput(ctx, os.Stdout, level, jsonFormat)
}

// NewLoggerWithOutput is NewLogger with an explicit destination, used by tests.
func NewLoggerWithOutput(ctx context.Context, out io.Writer, level string, jsonFormat bool) *Logger {
	logger := logrus.New()
	logger.Out = out

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if jsonFormat {
		logger.SetFormatter(&logrus.JSONFormatter{
			PrettyPrint: false,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
			PadLevelText:  true,
		})
	}

	return &Logger{logger: logger, ctx: ctx}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewLoggerWithOutput(context.Background(), io.Discard, "panic", true)
}

// With returns a child Logger that adds fields to every entry.
func (l *Logger) With(fields logrus.Fields) *Logger {
	merged := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{logger: l.logger, ctx: l.ctx, fields: merged}
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, fields ...logrus.Fields) {
	l.logWithFields(logrus.DebugLevel, msg, fields...)
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, fields ...logrus.Fields) {
	l.logWithFields(logrus.InfoLevel, msg, fields...)
}

// Warn logs a warn-level message.
func (l *Logger) Warn(msg string, fields ...logrus.Fields) {
	l.logWithFields(logrus.WarnLevel, msg, fields...)
}

// Error logs an error-level message.
func (l *Logger) Error(msg string, fields ...logrus.Fields) {
	l.logWithFields(logrus.ErrorLevel, msg, fields...)
}

// Fatal logs a fatal-level message and exits the application.
func (l *Logger) Fatal(msg string, fields ...logrus.Fields) {
	l.logWithFields(logrus.FatalLevel, msg, fields...)
	os.Exit(1) // Ensure application exits after fatal log
}

// Println lets the logger back gorilla/handlers' recovery handler.
func (l *Logger) Println(v ...interface{}) {
	l.logWithFields(logrus.ErrorLevel, fmt.Sprint(v...))
}

// logWithFields logs a message with optional fields at the specified level.
func (l *Logger) logWithFields(level logrus.Level, msg string, fields ...logrus.Fields) {
	entry := l.logger.WithContext(l.ctx)

	if len(l.fields) > 0 {
		entry = entry.WithFields(l.fields)
	}
	for _, field := range fields {
		entry = entry.WithFields(field)
	}

	entry.Log(level, msg)
}
