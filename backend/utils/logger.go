package utils

import (
	"io"
	"os"
	"strings"

	"vritti/backend/config"

	"github.com/sirupsen/logrus"
)

// InitLogger builds the service logger from the configured level and format.
// An optional writer replaces stdout.
func InitLogger(cfg *config.Config, out ...io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if len(out) > 0 && out[0] != nil {
		logger.SetOutput(out[0])
	}

	if strings.EqualFold(cfg.LogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
