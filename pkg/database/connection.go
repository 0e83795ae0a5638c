package database

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/warncke/immutable-db/pkg/argx"
	"github.com/warncke/immutable-db/pkg/errorx"
	"github.com/warncke/immutable-db/pkg/idx"
	"github.com/warncke/immutable-db/pkg/logx"
)

// insertPattern - statements skipped under session noInsert. Leading
// whitespace allowed, case-insensitive.
var insertPattern = regexp.MustCompile(`(?i)^\s*insert`)

// Connection - one logical database connection. Owns the underlying
// driver handle exclusively. connectionId and connectionCreateTime are
// assigned once at construction and never mutated. A Connection with no
// log client never emits any log event.
type Connection struct {
	connectionName       string
	connectionNum        int
	connectionParams     map[string]any
	connectionCreateTime string
	connectionId         string
	instanceId           string
	logClient            logx.LogClient
	client               Conn
}

// NewConnection - construct a Connection over the given driver.
//
// Recognized option keys: logClient (logx.LogClient sink, absent
// suppresses all logging), connectionName (string label), connectionNum
// (int sequence number, default 0). The connection event is logged
// before the driver connection is established: it records metadata,
// not confirmation of live connectivity. If an automock installer is
// active it runs synchronously as the last construction step.
func NewConnection(driver Driver, connectionParams map[string]any, options any) (*Connection, error) {
	opts, err := argx.RequireOptionalObject(options)
	if err != nil {
		return nil, err
	}

	conn := &Connection{
		connectionParams: connectionParams,
	}

	if value, ok := opts["logClient"]; ok && value != nil {
		logClient, ok := value.(logx.LogClient)
		if !ok {
			return nil, errorx.NewInvalidArgumentError("logClient must provide Log and Error, got %T", value)
		}

		conn.logClient = logClient
	}

	if value, ok := opts["connectionName"]; ok && value != nil {
		name, ok := value.(string)
		if !ok {
			return nil, errorx.NewInvalidArgumentError("connectionName must be a string, got %T", value)
		}

		conn.connectionName = name
	}

	if value, ok := opts["connectionNum"]; ok && value != nil {
		num, ok := value.(int)
		if !ok {
			return nil, errorx.NewInvalidArgumentError("connectionNum must be an int, got %T", value)
		}

		conn.connectionNum = num
	}

	id := idx.New()
	conn.connectionId = id.Id
	conn.connectionCreateTime = id.Timestamp
	conn.instanceId = InstanceId()

	// Logged ahead of the driver connect so the connection event is
	// emitted even if the connect fails.
	conn.logConnection()

	client, err := driver.Connect(connectionParams)
	if err != nil {
		return nil, errorx.NewDatabaseErrorWrapper(err, "error connecting to database")
	}

	conn.client = client

	client.OnError(func(err error) {
		if conn.logClient != nil {
			conn.logClient.Error(err)
			return
		}

		fmt.Fprintf(os.Stderr, "database connection error: %v\n", err)
	})

	if installer := GetAutomock(); installer != nil {
		installer(conn)
	}

	return conn, nil
}

// Query - validate, log and dispatch one query to the driver.
//
// The query must be a string. params, options and session must each be
// absent or a plain object. Recognized option: log=false suppresses the
// dbQuery and dbResponse events for this call. Recognized session keys:
// moduleCallId and requestId (correlation fields echoed into the
// dbQuery event) and noInsert (truthy skips INSERT statements without
// touching the driver or logging anything).
//
// On success the rows are normalized (SQL NULL columns cleared) and
// returned with the driver info attached. On failure the driver error
// is returned unchanged after the failure event is logged.
func (c *Connection) Query(ctx context.Context, query any, params any, options any, session any) (*Result, error) {
	queryText, ok := query.(string)
	if !ok {
		return nil, errorx.NewInvalidArgumentError("query must be a string, got %T", query)
	}

	paramsMap, err := argx.RequireOptionalObject(params)
	if err != nil {
		return nil, err
	}

	optionsMap, err := argx.RequireOptionalObject(options)
	if err != nil {
		return nil, err
	}

	sessionMap, err := argx.RequireOptionalObject(session)
	if err != nil {
		return nil, err
	}

	// noInsert skips INSERT statements entirely, including the query
	// start event. Downstream log consumers depend on its absence.
	if truthy(sessionMap["noInsert"]) && insertPattern.MatchString(queryText) {
		return &Result{}, nil
	}

	queryId := idx.New()

	c.logQueryStart(queryText, paramsMap, optionsMap, sessionMap, queryId)

	result, err := c.client.QueryContext(ctx, queryText, paramsMap, optionsMap)
	if err != nil {
		c.logQueryError(queryId, optionsMap, err)

		return nil, err
	}

	NormalizeRows(result.Rows)

	c.logQueryResponse(queryId, optionsMap, result)

	return result, nil
}

// Close - release the underlying driver connection. force terminates
// abruptly with no drain, otherwise in-flight work finishes first.
// Close errors propagate per the driver's own contract.
func (c *Connection) Close(force bool) error {
	if force {
		return c.client.Destroy()
	}

	return c.client.End()
}

// ConnectionId - unique id assigned at construction.
func (c *Connection) ConnectionId() string {
	return c.connectionId
}

// ConnectionCreateTime - microsecond precision construction timestamp.
func (c *Connection) ConnectionCreateTime() string {
	return c.connectionCreateTime
}

// ConnectionName - caller-supplied label, may be empty.
func (c *Connection) ConnectionName() string {
	return c.connectionName
}

// ConnectionNum - caller-supplied sequence number, default 0.
func (c *Connection) ConnectionNum() int {
	return c.connectionNum
}

// InstanceId - id of the owning process/module instance.
func (c *Connection) InstanceId() string {
	return c.instanceId
}

// Client - the underlying driver connection handle.
func (c *Connection) Client() Conn {
	return c.client
}

// SetClient - replace the underlying driver connection handle. Used by
// automock installers to substitute query execution.
func (c *Connection) SetClient(client Conn) {
	c.client = client
}

// truthy - loose truthiness for dynamically typed session flags.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}
