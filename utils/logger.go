package utils

import (
	"io"
	"os"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a logger writing to the standard error and,
// when logFile is not empty, to a size rotated log file.
func NewLogger(level string, logFile string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(lvl)
	logger.SetFormatter(&formatter.Formatter{
		TimestampFormat: "02 Jan 06 - 15:04:05",
		HideKeys:        false,
		FieldsOrder:     []string{"run", "image", "face", "region"},
	})

	writers := []io.Writer{os.Stderr}
	if logFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   logFile,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    50,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}
	logger.SetOutput(io.MultiWriter(writers...))

	return logger, nil
}

// DiscardLogger returns a logger dropping every entry.
func DiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
