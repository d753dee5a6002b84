package taskpool

import (
	"fmt"
	"log"
	"os"
)

// Logger is the minimal logging surface the pool needs. It is deliberately
// small so callers can adapt structured loggers (logrus, slog, ...) without
// this package importing any of them.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// defaultLogger implements Logger using the standard log package
type defaultLogger struct {
	debug *log.Logger
	info  *log.Logger
	err   *log.Logger
}

func newDefaultLogger() Logger {
	return &defaultLogger{
		debug: log.New(os.Stdout, "[DEBUG] ", log.LstdFlags|log.Lshortfile),
		info:  log.New(os.Stdout, "[INFO] ", log.LstdFlags|log.Lshortfile),
		err:   log.New(os.Stderr, "[ERROR] ", log.LstdFlags|log.Lshortfile),
	}
}

func (l *defaultLogger) Debugf(format string, args ...interface{}) {
	l.debug.Output(3, fmt.Sprintf(format, args...))
}

func (l *defaultLogger) Infof(format string, args ...interface{}) {
	l.info.Output(3, fmt.Sprintf(format, args...))
}

func (l *defaultLogger) Errorf(format string, args ...interface{}) {
	l.err.Output(3, fmt.Sprintf(format, args...))
}

// nopLogger discards everything. Used in tests and by callers that want a
// silent pool.
type nopLogger struct{}

// NewNopLogger returns a Logger that discards all output.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
