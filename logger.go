package gofred

import (
	"go.uber.org/zap"

	"github.com/sartorproj/gofred/internal/logging"
)

// SetLogger routes the diagnostics of every gofred package to l: API requests,
// cache activity and filter frequency warnings. The default discards them.
// Passing nil restores the default.
func SetLogger(l *zap.Logger) {
	logging.Set(l)
}

// Logger returns the logger set with SetLogger.
func Logger() *zap.Logger {
	return logging.L()
}
