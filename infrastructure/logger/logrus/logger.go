// ABOUTME: Structured logger implementation backed by sirupsen/logrus
// ABOUTME: Supports text or JSON output, level filtering and rotating log files via lumberjack

package logrus

import (
	"fmt"
	"io"
	"os"
	"strings"

	"icons-api/pkg/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger implements the interfaces.Logger contract using logrus
type Logger struct {
	log    *logrus.Logger
	closer io.Closer
}

// New creates a logger from configuration. When cfg.File is set, output goes
// to a size-rotated file instead of stderr; call Close to release it.
func New(cfg config.LogConfig) (*Logger, error) {
	if cfg.File == "" {
		return newLogger(os.Stderr, nil, cfg)
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return newLogger(rotating, rotating, cfg)
}

func newLogger(out io.Writer, closer io.Closer, cfg config.LogConfig) (*Logger, error) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(parsed)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q: want text or json", cfg.Format)
	}

	return &Logger{log: l, closer: closer}, nil
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Error(msg)
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
