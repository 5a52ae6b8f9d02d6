// Package logging wraps logrus and progressbar for the build and restore
// pipelines.
package logging

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
}

// SetOutput redirects log output (tests use io.Discard).
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// SetVerbose enables debug messages.
func SetVerbose(verbose bool) {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
		return
	}
	log.SetLevel(logrus.InfoLevel)
}

// SetQuiet drops everything below error level.
func SetQuiet() {
	log.SetLevel(logrus.ErrorLevel)
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Info logs an informational message
func Info(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// WithFile returns an entry tagged with the file being processed.
func WithFile(path string) *logrus.Entry {
	return log.WithField("file", path)
}

// Progress is a progress bar for long file trees
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a progress bar over total files written to w
func NewProgress(w io.Writer, total int, description string) *Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(description),
		progressbar.OptionClearOnFinish(),
	)
	return &Progress{bar: bar}
}

// Add advances the bar by one file
func (p *Progress) Add() {
	if p == nil {
		return
	}
	_ = p.bar.Add(1)
}

// Complete finishes the bar
func (p *Progress) Complete() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}
