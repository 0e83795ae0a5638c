//nolint:gochecknoglobals
package logx

import (
	"context"
	"log"
)

// Logger - process logger interface used for library diagnostics.
type Logger interface {
	// LogInfo logs a message at Info level.
	LogInfo(ctx context.Context, msg string)
	// LogDebug logs a message at Debug level.
	LogDebug(ctx context.Context, msg string)
	// LogWarning logs a message at Warning level.
	LogWarning(ctx context.Context, msg string, errs ...error)
	// LogError logs a message at Error level.
	LogError(ctx context.Context, msg string, errs ...error)
	// LogFatal logs a message at Fatal Level.
	// The logger then calls os.Exit(1), even if logging at FatalLevel is
	// disabled.
	LogFatal(ctx context.Context, msg string, errs ...error)

	GetLogger() interface{}
}

var logger Logger

// DefaultLogger - fallback Logger backed by the standard library log
// package, used when SetupLogger has not been called.
type DefaultLogger struct{}

// GetLogger - returns an instance of the Logger.
// If called before SetupLogger a DefaultLogger will be returned.
func GetLogger() Logger {
	if logger == nil {
		return &DefaultLogger{}
	}

	return logger
}

// LogInfo - log at info level.
func (nl *DefaultLogger) LogInfo(ctx context.Context, msg string) {
	log.Println("INFO " + msg)
}

// LogDebug - log at debug level.
func (nl *DefaultLogger) LogDebug(ctx context.Context, msg string) {
	log.Println("DEBUG " + msg)
}

// LogWarning - log at warning level.
func (nl *DefaultLogger) LogWarning(ctx context.Context, msg string, errs ...error) {
	log.Println("WARN " + msg)
}

// LogError - log at error level.
func (nl *DefaultLogger) LogError(ctx context.Context, msg string, errs ...error) {
	log.Println("ERROR " + msg)
}

// LogFatal - log at fatal level and exit.
func (nl *DefaultLogger) LogFatal(ctx context.Context, msg string, errs ...error) {
	log.Fatalln("FATAL " + msg)
}

// GetLogger - returns the underlying logger.
func (nl *DefaultLogger) GetLogger() interface{} {
	return nil
}
