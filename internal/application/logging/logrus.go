package logging

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/evemarkets-go/internal/infrastructure/config"
)

// LogrusLogger implements Logger backed by a logrus logger
type LogrusLogger struct {
	logger *logrus.Logger
}

// NewLogrusLogger creates a logrus-backed logger from configuration
func NewLogrusLogger(cfg config.LoggingConfig) *LogrusLogger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &LogrusLogger{logger: logger}
}

// Log writes a structured entry at the given level
func (l *LogrusLogger) Log(level, message string, fields map[string]interface{}) {
	entry := l.logger.WithFields(logrus.Fields(fields))

	switch strings.ToUpper(level) {
	case "DEBUG":
		entry.Debug(message)
	case "WARN":
		entry.Warn(message)
	case "ERROR":
		entry.Error(message)
	default:
		entry.Info(message)
	}
}
