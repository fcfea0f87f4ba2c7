// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TimestampFormat is used for every log line.
const TimestampFormat = "2006-01-02 15:04:05"

// Options configures Setup.
type Options struct {
	// Level is a logrus level name. Empty means info.
	Level string

	// Debug forces the debug level.
	Debug bool

	// Output defaults to os.Stderr.
	Output io.Writer

	// File, when set, receives a copy of every line through a rotating
	// writer.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup returns a configured logger and a function that closes the log file,
// if any.
func Setup(opts Options) (*logrus.Logger, func() error, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		l, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	if opts.Debug {
		level = logrus.DebugLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	closeFn := func() error { return nil }
	if opts.File != "" {
		rot := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		out = io.MultiWriter(out, rot)
		closeFn = rot.Close
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: TimestampFormat,
	})
	return logger, closeFn, nil
}
