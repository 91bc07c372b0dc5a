package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger.
var Log *logrus.Logger

// Init configures Log from the environment and writes to stdout.
// Call it once from main (or TestMain).
func Init() {
	initWithOutput(os.Stdout)
}

// initWithOutput is Init with an explicit sink.
//
// LOG_LEVEL picks the level (default "info"), LOG_FORMAT=json switches to
// the JSON formatter, anything else gives colored text.
func initWithOutput(out io.Writer) {
	l := logrus.New()

	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	l.SetOutput(out)
	Log = l
}

// Component returns an entry tagged with the component name.
// Safe before Init: the message goes to a discarded logger.
func Component(name string) *logrus.Entry {
	l := Log
	if l == nil {
		l = discard
	}
	return l.WithField("component", name)
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
