package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Logger provides logging functionality
type Logger struct {
	*log.Logger
	file *os.File
}

// NewLogger creates a logger that writes to a timestamped file in logDir
// and mirrors every entry to stderr.
func NewLogger(logDir string) (*Logger, error) {
	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logDir, fmt.Sprintf("docs_%s.log", timestamp))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	return &Logger{
		Logger: log.New(io.MultiWriter(os.Stderr, file), "", log.LstdFlags),
		file:   file,
	}, nil
}

// New creates a logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{Logger: log.New(w, "", log.LstdFlags)}
}

// NewStderrLogger creates a logger writing to stderr.
func NewStderrLogger() *Logger {
	return New(os.Stderr)
}

// Close closes the log file
func (l *Logger) Close() error {
	if l != nil && l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Infof logs an informational message. A nil Logger discards it.
func (l *Logger) Infof(format string, args ...any) {
	if l == nil {
		return
	}
	l.Output(2, fmt.Sprintf(format, args...))
}

// Errorf logs an error message. A nil Logger discards it.
func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.Output(2, "ERROR: "+fmt.Sprintf(format, args...))
}

// LogRecording logs a single recorded exchange
func (l *Logger) LogRecording(method, path string, status int, duration time.Duration, err error) {
	if l == nil {
		return
	}
	l.Printf("Recording: %s %s\n", method, path)
	if err != nil {
		l.Printf("Error: %v\n", err)
	} else {
		l.Printf("Status: %d (%s)\n", status, duration)
	}
	l.Println("---")
}

// LogLLMInteraction logs an LLM interaction
func (l *Logger) LogLLMInteraction(operation string, input interface{}, output interface{}, err error) {
	if l == nil {
		return
	}
	l.Printf("LLM Operation: %s\n", operation)
	l.Printf("Input: %+v\n", input)
	if err != nil {
		l.Printf("Error: %v\n", err)
	} else {
		l.Printf("Output: %+v\n", output)
	}
	l.Println("---")
}
