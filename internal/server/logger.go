package server

import (
	"io"
	"log"
)

// Logger writes prefixed server log lines
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

// NewLogger creates a logger writing to w
func NewLogger(w io.Writer) *Logger {
	flags := log.Ldate | log.Ltime
	return &Logger{
		infoLogger:  log.New(w, "[MONSTERPET-INFO] ", flags),
		warnLogger:  log.New(w, "[MONSTERPET-WARN] ", flags),
		errorLogger: log.New(w, "[MONSTERPET-ERROR] ", flags),
	}
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.infoLogger.Println(msg)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.warnLogger.Println(msg)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.errorLogger.Println(msg)
}

// Event logs an engine event for one game session
func (l *Logger) Event(kind, sessionID, details string) {
	l.infoLogger.Printf("[EVENT:%s] Game:%s | %s", kind, sessionID, details)
}
