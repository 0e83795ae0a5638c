package database

import (
	"github.com/warncke/immutable-db/pkg/errorx"
	"github.com/warncke/immutable-db/pkg/idx"
)

// Lifecycle event types forwarded to the log client.
const (
	EventConnection = "dbConnection"
	EventQuery      = "dbQuery"
	EventResponse   = "dbResponse"
)

// logConnection - emit the dbConnection event. Fired exactly once,
// synchronously, during construction.
func (c *Connection) logConnection() {
	if c.logClient == nil {
		return
	}

	c.logClient.Log(EventConnection, map[string]any{
		"connectionName":       c.connectionName,
		"connectionNum":        c.connectionNum,
		"connectionParams":     c.connectionParams,
		"connectionCreateTime": c.connectionCreateTime,
		"connectionId":         c.connectionId,
		"instanceId":           c.instanceId,
	})
}

// logQueryStart - emit the dbQuery event before dispatching to the
// driver. Shares its id with the eventual response event.
func (c *Connection) logQueryStart(query string, params, options, session map[string]any, queryId idx.ID) {
	if c.logClient == nil || loggingDisabled(options) {
		return
	}

	c.logClient.Log(EventQuery, map[string]any{
		"connectionId":      c.connectionId,
		"dbQueryCreateTime": queryId.Timestamp,
		"dbQueryId":         queryId.Id,
		"moduleCallId":      session["moduleCallId"],
		"options":           options,
		"params":            params,
		"query":             query,
		"requestId":         session["requestId"],
	})
}

// logQueryResponse - emit the dbResponse success event with the
// normalized rows and driver info.
func (c *Connection) logQueryResponse(queryId idx.ID, options map[string]any, result *Result) {
	if c.logClient == nil || loggingDisabled(options) {
		return
	}

	c.logClient.Log(EventResponse, map[string]any{
		"data":                 result.Rows,
		"dbQueryId":            queryId.Id,
		"dbResponseCreateTime": idx.Now(),
		"dbResponseSuccess":    true,
		"info": map[string]any{
			"numRows":      result.Info.NumRows,
			"affectedRows": result.Info.AffectedRows,
			"insertId":     result.Info.InsertId,
		},
	})
}

// logQueryError - emit the dbResponse failure event with the error
// details extracted as data.
func (c *Connection) logQueryError(queryId idx.ID, options map[string]any, err error) {
	if c.logClient == nil || loggingDisabled(options) {
		return
	}

	code, isOperational, message := errorx.QueryErrorDetails(err)

	c.logClient.Log(EventResponse, map[string]any{
		"data": map[string]any{
			"code":          code,
			"isOperational": isOperational,
			"message":       message,
		},
		"dbQueryId":            queryId.Id,
		"dbResponseCreateTime": idx.Now(),
		"dbResponseSuccess":    false,
	})
}

// loggingDisabled - per-query logging flag. Only an explicit false
// disables logging, any other value leaves it on.
func loggingDisabled(options map[string]any) bool {
	value, ok := options["log"]

	return ok && value == false
}
