// Package database wraps a relational-database client driver with
// structured lifecycle logging, argument validation, SQL NULL
// normalization and a process-wide test-time automock switch.
//
// The package owns no wire protocol, pooling or transaction logic of its
// own. It rides entirely on the Driver capability passed to
// NewConnection, and forwards lifecycle events to an optional
// logx.LogClient sink.
package database

import (
	"context"
)

// =====================================
// Driver Interfaces
// =====================================

// Driver - capability consumed from the underlying database driver.
// Connection params are an opaque map interpreted by the driver alone.
type Driver interface {
	Connect(params map[string]any) (Conn, error)
}

// Conn - one driver-level connection handle. Owned exclusively by the
// Connection wrapping it and must be explicitly released via End or
// Destroy.
type Conn interface {
	// QueryContext executes a query. The result carries the rows plus
	// driver-reported execution metadata.
	QueryContext(ctx context.Context, query string, params map[string]any, options map[string]any) (*Result, error)
	// End requests a graceful close: in-flight work finishes first.
	End() error
	// Destroy abruptly terminates the connection with no drain.
	Destroy() error
	// OnError registers a handler for connection-level asynchronous
	// errors not tied to any single query.
	OnError(handler func(error))
}

// =====================================
// Result Types
// =====================================

// Row - one result row keyed by column name. SQL NULL columns are
// removed entirely by normalization, so a missing key is the absent
// value.
type Row map[string]any

// Info - driver-reported execution metadata, string-encoded as supplied
// by the driver.
type Info struct {
	NumRows      string
	AffectedRows string
	InsertId     string
}

// Result - resolved value of a query: the normalized rows with the
// driver info attached.
type Result struct {
	Rows []Row
	Info Info
}
