package errorx

import (
	"errors"
	"fmt"
)

// INVALID ARGUMENT ERROR:

// InvalidArgumentError - programmer error raised synchronously when a
// caller-supplied argument fails validation. Never retried.
type InvalidArgumentError struct {
	message string
}

// NewInvalidArgumentError - InvalidArgumentError constructor.
func NewInvalidArgumentError(msg string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{message: fmt.Sprintf(msg, args...)}
}

// Error - return the error string.
func (ia *InvalidArgumentError) Error() string {
	return ia.message
}

// IsInvalidArgument - report whether err is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var ia *InvalidArgumentError
	return errors.As(err, &ia)
}

// DATABASE ERROR:

// DatabaseError - operational database error.
type DatabaseError struct {
	message string
	err     error
}

// NewDatabaseError - DatabaseError constructor.
func NewDatabaseError(msg string, args ...any) *DatabaseError {
	return &DatabaseError{message: fmt.Sprintf(msg, args...), err: nil}
}

// NewDatabaseErrorWrapper - DatabaseError constructor for wrapper of another error.
func NewDatabaseErrorWrapper(err error, msg string, args ...any) *DatabaseError {
	return &DatabaseError{message: fmt.Sprintf(msg, args...), err: err}
}

// Error - return the error string.
func (de *DatabaseError) Error() string {
	if de.err != nil {
		return fmt.Errorf("%s: %w", de.message, de.err).Error()
	}

	return de.message
}

// Unwrap - return the wrapped error.
func (de *DatabaseError) Unwrap() error {
	return de.err
}

// QUERY ERROR:

// QueryError - error raised by the underlying driver during query
// execution. Carries the driver's numeric error code and an operational
// flag. Propagated to the caller unchanged after being logged.
type QueryError struct {
	Code          int
	IsOperational bool
	message       string
	err           error
}

// NewQueryError - QueryError constructor.
func NewQueryError(code int, isOperational bool, msg string, args ...any) *QueryError {
	return &QueryError{Code: code, IsOperational: isOperational, message: fmt.Sprintf(msg, args...)}
}

// NewQueryErrorWrapper - QueryError constructor wrapping the original driver error.
func NewQueryErrorWrapper(err error, code int, isOperational bool, msg string, args ...any) *QueryError {
	return &QueryError{Code: code, IsOperational: isOperational, message: fmt.Sprintf(msg, args...), err: err}
}

// Error - return the driver's message.
func (qe *QueryError) Error() string {
	return qe.message
}

// Message - the driver's message.
func (qe *QueryError) Message() string {
	return qe.message
}

// Unwrap - return the wrapped driver error.
func (qe *QueryError) Unwrap() error {
	return qe.err
}

// QueryErrorDetails - extract {code, isOperational, message} from any
// error for response logging. Errors that are not QueryError report
// code 0 and isOperational false.
func QueryErrorDetails(err error) (code int, isOperational bool, message string) {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code, qe.IsOperational, qe.Message()
	}

	return 0, false, err.Error()
}
