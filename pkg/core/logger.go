package core

import "log"

// Logger interface for simulation and rendering output
type Logger interface {
	Printf(format string, args ...interface{})
}

// DefaultLogger implements Logger using the standard log package
type DefaultLogger struct{}

// Printf implements the Logger interface
func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}
