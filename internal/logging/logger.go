// Package logging provides config-driven categorized file-based logging for
// lexi. Logs are written to ~/.lexi/logs/ with separate files per category.
// Logging is controlled by the logging section of the config file - when
// debug mode is off, no logs are written.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup/shutdown
	CategoryFlow      Category = "flow"      // Onboarding flow transitions
	CategoryStore     Category = "store"     // SQLite persistence
	CategoryProgress  Category = "progress"  // Card session, streaks
	CategoryDeck      Category = "deck"      // Word pack loading and reload
	CategoryUI        Category = "ui"        // Bubbletea pages
	CategorySpeech    Category = "speech"    // Pronunciation subprocess
	CategoryAnalytics Category = "analytics" // Local event tracking
)

// Settings mirrors the logging section of the lexi config. It is passed in at
// startup so this package does not read the config file itself.
type Settings struct {
	DebugMode  bool            `json:"debug_mode" yaml:"debug_mode"`
	Categories map[string]bool `json:"categories" yaml:"categories"`
	Level      string          `json:"level" yaml:"level"`
	JSONFormat bool            `json:"json_format" yaml:"json_format"`
}

// entry is the JSON form of a log line when json_format is enabled.
type entry struct {
	Timestamp int64                  `json:"ts"` // Unix milliseconds
	Category  string                 `json:"cat"`
	Level     string                 `json:"lvl"`
	Message   string                 `json:"msg"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers    = make(map[Category]*Logger)
	loggersMu  sync.RWMutex
	logsDir    string
	settings   Settings
	settingsMu sync.RWMutex
	logLevel   int
)

// Log levels
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logging directory under the given data dir using the
// provided settings. Call once at startup; a no-op when debug mode is off.
func Initialize(dataDir string, s Settings) error {
	if dataDir == "" {
		return fmt.Errorf("data directory required")
	}

	settingsMu.Lock()
	settings = s
	switch s.Level {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	settingsMu.Unlock()

	if !s.DebugMode {
		return nil
	}

	logsDir = filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== lexi logging initialized ===")
	boot.Info("Logs directory: %s", logsDir)
	boot.Info("Log level: %s", s.Level)
	return nil
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	settingsMu.RLock()
	defer settingsMu.RUnlock()

	if !settings.DebugMode {
		return false
	}
	if settings.Categories == nil {
		return true
	}
	enabled, exists := settings.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode or the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	// Date prefix keeps rotation as simple as deleting old files.
	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

func (l *Logger) logJSON(level, msg string) {
	e := entry{
		Timestamp: time.Now().UnixMilli(),
		Category:  string(l.category),
		Level:     level,
		Message:   msg,
	}
	data, err := json.Marshal(e)
	if err != nil {
		l.logger.Printf("[%s] %s", level, msg)
		return
	}
	l.logger.Printf("%s", data)
}

func (l *Logger) write(level int, tag, format string, args ...interface{}) {
	if l.logger == nil || logLevel > level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	settingsMu.RLock()
	jsonFormat := settings.JSONFormat
	settingsMu.RUnlock()
	if jsonFormat {
		l.logJSON(tag, msg)
	} else {
		l.logger.Printf("[%s] %s", tag, msg)
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(LevelDebug, "DEBUG", format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, "INFO", format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(LevelWarn, "WARN", format, args...)
}

// Error logs an error message. Errors bypass the level filter.
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(LevelError, "ERROR", format, args...)
}

// CloseAll closes all open log files (call at shutdown).
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Flow logs to the flow category.
func Flow(format string, args ...interface{}) { Get(CategoryFlow).Info(format, args...) }

// FlowDebug logs debug to the flow category.
func FlowDebug(format string, args ...interface{}) { Get(CategoryFlow).Debug(format, args...) }

// FlowError logs error to the flow category.
func FlowError(format string, args ...interface{}) { Get(CategoryFlow).Error(format, args...) }

// Store logs to the store category.
func Store(format string, args ...interface{}) { Get(CategoryStore).Info(format, args...) }

// StoreDebug logs debug to the store category.
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debug(format, args...) }

// StoreError logs error to the store category.
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }

// Progress logs to the progress category.
func Progress(format string, args ...interface{}) { Get(CategoryProgress).Info(format, args...) }

// ProgressDebug logs debug to the progress category.
func ProgressDebug(format string, args ...interface{}) {
	Get(CategoryProgress).Debug(format, args...)
}

// Deck logs to the deck category.
func Deck(format string, args ...interface{}) { Get(CategoryDeck).Info(format, args...) }

// DeckDebug logs debug to the deck category.
func DeckDebug(format string, args ...interface{}) { Get(CategoryDeck).Debug(format, args...) }

// DeckWarn logs warning to the deck category.
func DeckWarn(format string, args ...interface{}) { Get(CategoryDeck).Warn(format, args...) }

// Speech logs to the speech category.
func Speech(format string, args ...interface{}) { Get(CategorySpeech).Info(format, args...) }

// SpeechDebug logs debug to the speech category.
func SpeechDebug(format string, args ...interface{}) { Get(CategorySpeech).Debug(format, args...) }

// Analytics logs to the analytics category.
func Analytics(format string, args ...interface{}) { Get(CategoryAnalytics).Info(format, args...) }

// AnalyticsDebug logs debug to the analytics category.
func AnalyticsDebug(format string, args ...interface{}) {
	Get(CategoryAnalytics).Debug(format, args...)
}

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}
