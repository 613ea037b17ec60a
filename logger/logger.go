package logger

import (
	"fmt"

	"github.com/gruntwork-io/go-commons/logging"
	"github.com/sirupsen/logrus"
)

var projectLogger = newProjectLogger()

func newProjectLogger() *logrus.Entry {
	return logging.GetLogger("").WithField("name", "luma")
}

// GetProjectLogger returns the shared project logger.
func GetProjectLogger() *logrus.Entry {
	return projectLogger
}

// SetLevel adjusts the verbosity of the project logger.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("unknown log level %q: %w", level, err)
	}
	projectLogger.Logger.SetLevel(lvl)
	return nil
}
