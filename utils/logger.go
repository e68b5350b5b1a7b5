// Package utils provides utility functions for the application.
package utils

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerOptions controls application log output and rotation.
type LoggerOptions struct {
	Output     string // stdout, file, both
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewAppLogger builds the application logger. File output rotates via lumberjack.
func NewAppLogger(opts LoggerOptions) *log.Logger {
	var w io.Writer

	switch opts.Output {
	case "file":
		w = newRotatingWriter(opts)
	case "both":
		w = io.MultiWriter(os.Stdout, newRotatingWriter(opts))
	default:
		w = os.Stdout
	}

	return log.New(w, "", log.LstdFlags|log.LUTC)
}

func newRotatingWriter(opts LoggerOptions) io.Writer {
	path := opts.FilePath
	if path == "" {
		path = "logs/app.log"
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    max(opts.MaxSizeMB, 1),
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
}
