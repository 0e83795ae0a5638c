package logx

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogWrapper - Logger implementation backed by zerolog.
type ZeroLogWrapper struct {
	zeroLog            *zerolog.Logger
	serviceName        string
	isLocalEnvironment bool
}

// SetupLogger sets up the process Logger.
// Outside local environments logs are emitted as JSON on stdout,
// locally a console writer is used.
func SetupLogger(serviceName, environment, level string) Logger {

	// Set log level
	logLevel := zerolog.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	}

	// Set zerolog global log level
	zerolog.SetGlobalLevel(logLevel)

	// Create zLog instance
	var zLog zerolog.Logger

	isLocalEnvironment := true

	switch strings.ToUpper(environment) {
	case "DEV", "STAGE", "PROD":
		isLocalEnvironment = false
		zLog = zerolog.New(os.Stdout).With().Timestamp().Logger()
	default:
		zLog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	// Add common fields
	zLog = zLog.With().
		Str("service", serviceName).
		Logger()

	logger = &ZeroLogWrapper{
		&zLog,
		serviceName,
		isLocalEnvironment,
	}

	return logger
}

func (lm *ZeroLogWrapper) logWithContext(ctx context.Context, level zerolog.Level, errs []error, msg string) {
	logEvent := lm.zeroLog.WithLevel(level)

	switch level {
	case zerolog.DebugLevel:
		logEvent = logEvent.Str("severity", "DEBUG")
	case zerolog.InfoLevel:
		logEvent = logEvent.Str("severity", "INFO")
	case zerolog.WarnLevel:
		logEvent = logEvent.Str("severity", "WARNING")
	case zerolog.ErrorLevel:
		logEvent = logEvent.Str("severity", "ERROR")
	case zerolog.FatalLevel:
		logEvent = logEvent.Str("severity", "CRITICAL")
	}

	for _, err := range errs {
		logEvent = logEvent.Err(err)
	}

	logEvent.Msg(msg)
}

// LogInfo - log at info level.
func (lm *ZeroLogWrapper) LogInfo(ctx context.Context, msg string) {
	lm.logWithContext(ctx, zerolog.InfoLevel, nil, msg)
}

// LogDebug - log at debug level.
func (lm *ZeroLogWrapper) LogDebug(ctx context.Context, msg string) {
	lm.logWithContext(ctx, zerolog.DebugLevel, nil, msg)
}

// LogWarning - log at warning level.
func (lm *ZeroLogWrapper) LogWarning(ctx context.Context, msg string, errs ...error) {
	lm.logWithContext(ctx, zerolog.WarnLevel, errs, msg)
}

// LogError - log at error level.
func (lm *ZeroLogWrapper) LogError(ctx context.Context, msg string, errs ...error) {
	lm.logWithContext(ctx, zerolog.ErrorLevel, errs, msg)
}

// LogFatal - log at fatal level and exit.
func (lm *ZeroLogWrapper) LogFatal(ctx context.Context, msg string, errs ...error) {
	lm.logWithContext(ctx, zerolog.FatalLevel, errs, msg)
}

// GetLogger - returns the underlying zerolog logger.
func (lm *ZeroLogWrapper) GetLogger() interface{} {
	return lm.zeroLog
}
