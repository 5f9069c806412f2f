package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// Logger is the global logger instance
var Logger *logrus.Logger

// Fields is an alias for logrus.Fields
type Fields = logrus.Fields

type invocationKey struct{}

// init initializes the global logger
func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.InfoLevel)

	// Use JSON formatter in production
	if os.Getenv("RAPYDO_ENV") == "production" {
		Logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
}

// SetLevel sets the logging level
func SetLevel(level string) {
	switch level {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "info":
		Logger.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects log output, mostly useful in tests
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// ResetOutput restores logging to stderr
func ResetOutput() {
	Logger.SetOutput(os.Stderr)
}

// ForInvocation returns a context carrying a fresh invocation id and
// the logger entry tagged with it.
func ForInvocation(ctx context.Context) (context.Context, *logrus.Entry) {
	id := xid.New().String()
	ctx = context.WithValue(ctx, invocationKey{}, id)
	return ctx, Logger.WithField("invocation", id)
}

// WithContext returns a logger with context fields
func WithContext(ctx context.Context) *logrus.Entry {
	if id, ok := ctx.Value(invocationKey{}).(string); ok {
		return Logger.WithField("invocation", id)
	}
	return Logger.WithContext(ctx)
}

// WithFields returns a logger with additional fields
func WithFields(fields Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithError adds an error field to the logger
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}

// WithField adds a field to the logger
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}
