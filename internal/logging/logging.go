// Package logging holds the process-wide zap logger used by the library
// packages. It is a no-op logger until Set is called.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// L returns the current logger.
func L() *zap.Logger {
	return current.Load()
}

// Set replaces the current logger. A nil logger restores the no-op logger.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// Named returns a child logger for the given component.
func Named(name string) *zap.Logger {
	return L().Named(name)
}
