package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a bridging interface between logrus and the components that
// need a logger.
type Logger interface {
	logrus.FieldLogger
}

// Options configures the root logger.
type Options struct {
	// Debug enables debug-level logging.
	Debug bool
	// File, if set, redirects log output to a size-rotated file.
	File string
	// Output is used when File is empty. Defaults to os.Stderr.
	Output io.Writer
}

const (
	maxLogFileSizeMB  = 10
	maxLogFileBackups = 3
)

// New creates the root logger. The returned closer releases the log file,
// if one was opened.
func New(opts Options) (Logger, io.Closer) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if opts.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	var closer io.Closer = nopCloser{}
	switch {
	case opts.File != "":
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxLogFileSizeMB,
			MaxBackups: maxLogFileBackups,
		}
		logger.SetOutput(rotator)
		closer = rotator
	case opts.Output != nil:
		logger.SetOutput(opts.Output)
	default:
		logger.SetOutput(os.Stderr)
	}

	return logrus.NewEntry(logger), closer
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
