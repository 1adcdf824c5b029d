package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	globalLogger *logrus.Logger
	once         sync.Once
)

// Get returns the global logger, configuring it from LOG_LEVEL and LOG_FORMAT
// on first use.
func Get() *logrus.Logger {
	once.Do(func() {
		l := logrus.New()

		switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
		case "debug":
			l.SetLevel(logrus.DebugLevel)
		case "warn", "warning":
			l.SetLevel(logrus.WarnLevel)
		case "error":
			l.SetLevel(logrus.ErrorLevel)
		default:
			l.SetLevel(logrus.InfoLevel)
		}

		if strings.ToLower(os.Getenv("LOG_FORMAT")) == "text" {
			l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		} else {
			l.SetFormatter(&logrus.JSONFormatter{
				TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			})
		}

		l.SetOutput(os.Stdout)
		globalLogger = l
	})
	return globalLogger
}

// WithComponent returns an entry tagged with the originating component name.
func WithComponent(name string) *logrus.Entry {
	return Get().WithField("component", name)
}
