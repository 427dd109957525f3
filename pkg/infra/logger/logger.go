package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	logsDir        = "logs"
	fileBufferSize = 32 * 1024
)

// NewLogger builds the process logger for service (aggregator, server_a,
// server_b, migrate). Entries go to logs/<service>.log through an async
// writer and are mirrored on stdout. LOG_FILE_DISABLED=true keeps only
// the console. The returned func flushes and closes the log file; call it
// once the process is done logging.
func NewLogger(service string) (*logrus.Logger, func()) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))

	if strings.EqualFold(os.Getenv("LOG_FILE_DISABLED"), "true") {
		logger.SetOutput(os.Stdout)
		return logger, func() {}
	}

	writer, err := openServiceLog(service)
	if err != nil {
		logger.SetOutput(os.Stdout)
		logger.WithError(err).Warn("file logging disabled")
		return logger, func() {}
	}
	logger.SetOutput(io.MultiWriter(writer, os.Stdout))
	return logger, func() {
		logger.SetOutput(os.Stdout)
		writer.Close()
	}
}

// ParseLevel maps LOG_LEVEL values onto logrus levels, defaulting to info.
func ParseLevel(raw string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func openServiceLog(service string) (*AsyncFileWriter, error) {
	name := strings.TrimSpace(service)
	if name == "" {
		name = "toolhub"
	}
	logFile := filepath.Clean(filepath.Join(logsDir, name+".log"))
	if !strings.HasPrefix(logFile, logsDir+string(filepath.Separator)) {
		return nil, fmt.Errorf("invalid log file path %q: must be in %s directory", logFile, logsDir)
	}
	if err := os.MkdirAll(logsDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	return NewAsyncFileWriter(logFile, fileBufferSize)
}
