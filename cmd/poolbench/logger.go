package main

import (
	"github.com/sirupsen/logrus"

	"github.com/fluxorio/taskpool/pkg/taskpool"
)

// logrusAdapter bridges a logrus entry to the pool's Logger interface
type logrusAdapter struct {
	entry *logrus.Entry
}

func newLogrusAdapter(entry *logrus.Entry) taskpool.Logger {
	return &logrusAdapter{entry: entry}
}

func (l *logrusAdapter) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *logrusAdapter) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *logrusAdapter) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}
