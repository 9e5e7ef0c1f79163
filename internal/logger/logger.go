package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	return NewWithLevel(io.MultiWriter(writers...), level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel converts a config level name into a log level
func ParseLevel(s string) (log.Level, error) {
	return log.ParseLevel(s)
}

// BuildStarted logs the start of a site build
func (l *Logger) BuildStarted(buildID, contentDir, publicDir string) {
	l.Info("build started",
		"build_id", buildID,
		"content_dir", contentDir,
		"public_dir", publicDir)
}

// BuildCompleted logs the completion of a site build
func (l *Logger) BuildCompleted(buildID string, pages, skipped, errors int, bytes int64, duration time.Duration) {
	l.Info("build completed",
		"build_id", buildID,
		"pages", pages,
		"skipped", skipped,
		"errors", errors,
		"written", humanize.Bytes(uint64(bytes)),
		"duration", duration.Round(time.Millisecond))
}

// PageGenerated logs a page written to disk
func (l *Logger) PageGenerated(source, dest, title string) {
	l.Info("page generated",
		"source", source,
		"dest", dest,
		"title", title)
}

// PageSkipped logs when a page is not regenerated
func (l *Logger) PageSkipped(source, reason string) {
	l.Debug("page skipped",
		"source", source,
		"reason", reason)
}

// PageError logs an error for a specific page
func (l *Logger) PageError(source string, err error) {
	l.Error("page failed",
		"source", source,
		"error", err)
}

// AssetCopied logs a static file copied into the output
func (l *Logger) AssetCopied(source, dest string) {
	l.Debug("asset copied",
		"source", source,
		"dest", dest)
}

// DirCleaned logs the removal of previous output
func (l *Logger) DirCleaned(dir string, removed int) {
	l.Info("output cleaned",
		"dir", dir,
		"removed", removed)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path, contentDir, publicDir string) {
	l.Debug("config loaded",
		"path", path,
		"content_dir", contentDir,
		"public_dir", publicDir)
}

// ManifestError logs a manifest-related error
func (l *Logger) ManifestError(operation string, err error) {
	l.Error("manifest error",
		"operation", operation,
		"error", err)
}
