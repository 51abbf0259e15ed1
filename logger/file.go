package logger

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig configures size-based rotation for a file-backed Logger.
type FileConfig struct {
	// Filename is the file to write log records to.
	Filename string
	// MaxSizeMB is the maximum size in megabytes of the log file before it
	// gets rotated. Defaults to 100 megabytes.
	MaxSizeMB int
	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int
	// MaxAgeDays is the maximum number of days to retain old log files.
	MaxAgeDays int
	// Compress determines if the rotated log files should be compressed.
	Compress bool
}

// NewFileSlog creates a slog-backed Logger that writes JSON records to a
// size-rotated log file.
func NewFileSlog(level Level, addSource bool, cfg FileConfig) Logger {
	output := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	return newSlogWithOutput(level, addSource, output)
}
