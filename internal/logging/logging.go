package logging

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init configures the global logrus logger. When logFile is non-empty,
// output goes to a size-rotated file instead of stdout.
func Init(logFile string) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if logFile != "" {
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	} else {
		logrus.SetOutput(os.Stdout)
	}

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
