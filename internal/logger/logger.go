package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Info    = discard()
	Warn    = discard()
	Debug   = discard()
	Verbose = discard()
	Error   = log.New(os.Stderr, "❌ ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	Always  = discard() // Always logs to file regardless of log level

	// Current log level for filtering
	currentLogLevel string

	// Rotating file sink, closed by Close
	fileSink *lumberjack.Logger
)

// Config describes the log sink
type Config struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

func Init() error {
	return InitWithLevel("info")
}

func InitWithLevel(logLevel string) error {
	return InitWithConfig(logLevel, "option-pricing.log")
}

func InitWithConfig(logLevel, logFilePath string) error {
	return InitWith(Config{Level: logLevel, File: logFilePath})
}

// InitWith opens the rotating log file and rebuilds every level logger
func InitWith(cfg Config) error {
	currentLogLevel = cfg.Level

	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if fileSink != nil {
		fileSink.Close()
	}
	fileSink = &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	logFile := io.Writer(fileSink)

	// Create null writer for disabled log levels
	nullWriter := io.Discard

	Info = log.New(getWriter("info", logFile, nullWriter), "ℹ️  INFO: ", log.Ldate|log.Ltime)
	Warn = log.New(getWriter("warn", logFile, nullWriter), "⚠️  WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	Debug = log.New(getWriter("debug", logFile, nullWriter), "🐛 DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	Verbose = log.New(getWriter("verbose", logFile, nullWriter), "🔍 VERBOSE: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error = log.New(io.MultiWriter(os.Stderr, logFile), "❌ ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	Always = log.New(logFile, "📝 ALWAYS: ", log.Ldate|log.Ltime) // Always logs to file, bypasses level filtering

	return nil
}

// Close flushes and closes the log file
func Close() error {
	if fileSink == nil {
		return nil
	}
	err := fileSink.Close()
	fileSink = nil
	return err
}

// Level returns the active log level
func Level() string {
	return currentLogLevel
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// getWriter returns the appropriate writer based on log level
func getWriter(level string, activeWriter, disabledWriter io.Writer) io.Writer {
	if shouldLog(level) {
		return activeWriter
	}
	return disabledWriter
}

// shouldLog determines if a log level should be active
func shouldLog(level string) bool {
	levels := map[string]int{
		"error":   0,
		"warn":    1,
		"info":    2,
		"debug":   3,
		"verbose": 4,
	}

	currentLevel, exists := levels[currentLogLevel]
	if !exists {
		currentLevel = 2 // default to info
	}

	requiredLevel, exists := levels[level]
	if !exists {
		return false
	}

	return currentLevel >= requiredLevel
}
