package util

import (
	"sync"
)

var (
	globalLogger LoggerInterface
	loggerMu     sync.RWMutex
)

// InitLogger installs the package logger used by the Log* helpers.
func InitLogger(opts LoggerOptions) error {
	logger, err := NewLogger(opts)
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger replaces the package logger. nil disables logging.
func SetLogger(logger LoggerInterface) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	globalLogger = logger
}

// CloseLogger closes and removes the package logger.
func CloseLogger() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if globalLogger == nil {
		return nil
	}
	err := globalLogger.Close()
	globalLogger = nil
	return err
}

func current() LoggerInterface {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

func LogInfo(msg string, fields ...Field) {
	if l := current(); l != nil {
		l.Info(msg, fields...)
	}
}

func LogInfof(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Infof(format, args...)
	}
}

func LogDebug(msg string, fields ...Field) {
	if l := current(); l != nil {
		l.Debug(msg, fields...)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Debugf(format, args...)
	}
}

func LogWarn(msg string, fields ...Field) {
	if l := current(); l != nil {
		l.Warn(msg, fields...)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Warnf(format, args...)
	}
}

func LogError(msg string, fields ...Field) {
	if l := current(); l != nil {
		l.Error(msg, fields...)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Errorf(format, args...)
	}
}
