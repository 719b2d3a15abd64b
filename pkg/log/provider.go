package log

import (
	"sync"

	scierrors "github.com/YuminosukeSato/blend/pkg/errors"
)

var (
	providerMu     sync.RWMutex
	globalProvider LoggerProvider
)

// SetProvider replaces the process wide provider used by GetLogger and
// GetLoggerWithName, and routes library warnings through it.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	globalProvider = p
	providerMu.Unlock()

	warnLogger := p.GetLoggerWithName("warnings")
	scierrors.SetZerologWarnFunc(func(w error) {
		warnLogger.Warn(w.Error(), ErrorTypeKey, "warning", "warning", w)
	})
}

func provider() LoggerProvider {
	providerMu.RLock()
	p := globalProvider
	providerMu.RUnlock()
	if p != nil {
		return p
	}

	providerMu.Lock()
	defer providerMu.Unlock()
	if globalProvider == nil {
		globalProvider = NewZerologProvider(LevelWarn)
	}
	return globalProvider
}

// GetLogger returns the default logger of the global provider.
func GetLogger() Logger {
	return provider().GetLogger()
}

// GetLoggerWithName returns a component logger from the global provider.
func GetLoggerWithName(name string) Logger {
	return provider().GetLoggerWithName(name)
}
