package contract

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide structured logger. It writes to stderr so that
// stdout stays clean for rendered results and the MCP stdio transport.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// SetVerbose switches the logger between info and debug level.
func SetVerbose(verbose bool) {
	if verbose {
		Logger.SetLevel(logrus.DebugLevel)
	} else {
		Logger.SetLevel(logrus.InfoLevel)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.WithError(err).Fatal(msg)
}

// LogWarn logs a warning with its cause.
func LogWarn(msg string, err error) {
	Logger.WithError(err).Warn(msg)
}
