package utils

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileOptions configures the rotating log file
type LogFileOptions struct {
	Path       string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// NewLogWriter returns the writer for the given output (stdout, file or both).
// The returned close func must be called on shutdown to flush the log file.
func NewLogWriter(output string, file LogFileOptions) (io.Writer, func() error) {
	noop := func() error { return nil }

	switch output {
	case "file", "both":
		rotating := &lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    file.MaxSize,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAge,
			Compress:   file.Compress,
		}
		if output == "both" {
			return io.MultiWriter(os.Stdout, rotating), rotating.Close
		}
		return rotating, rotating.Close
	default:
		return os.Stdout, noop
	}
}

// SetupLogger points the standard logger at the configured output
func SetupLogger(level, output string, file LogFileOptions) func() error {
	w, closeFn := NewLogWriter(output, file)
	log.SetOutput(w)

	flags := log.LstdFlags | log.LUTC
	if level == "debug" {
		flags |= log.Lshortfile
	}
	log.SetFlags(flags)

	return closeFn
}
