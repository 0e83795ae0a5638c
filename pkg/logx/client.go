package logx

import (
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// LogClient - capability required of any sink receiving database
// lifecycle events. Connections with no LogClient emit nothing.
type LogClient interface {
	// Log receives a structured lifecycle event. Event types are
	// dbConnection, dbQuery and dbResponse.
	Log(eventType string, payload map[string]any)
	// Error receives driver errors not tied to a specific query.
	Error(err error)
}

// ZeroLogClient - LogClient implementation backed by zerolog.
// Payloads are rendered with goccy/go-json and embedded as raw JSON.
type ZeroLogClient struct {
	zeroLog *zerolog.Logger
}

// NewZeroLogClient - create a LogClient writing JSON events to stdout.
func NewZeroLogClient(serviceName string) *ZeroLogClient {
	return NewZeroLogClientWithWriter(os.Stdout, serviceName)
}

// NewZeroLogClientWithWriter - create a LogClient writing to the given writer.
func NewZeroLogClientWithWriter(w io.Writer, serviceName string) *ZeroLogClient {
	zLog := zerolog.New(w).With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return &ZeroLogClient{zeroLog: &zLog}
}

// Log - emit a lifecycle event at info level.
func (c *ZeroLogClient) Log(eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.zeroLog.Error().
			Str("severity", "ERROR").
			Str("eventType", eventType).
			Err(err).
			Msg("error marshalling event payload")

		return
	}

	c.zeroLog.Info().
		Str("severity", "INFO").
		Str("eventType", eventType).
		RawJSON("payload", data).
		Msg(eventType)
}

// Error - emit an out-of-band driver error.
func (c *ZeroLogClient) Error(err error) {
	c.zeroLog.Error().
		Str("severity", "ERROR").
		Err(err).
		Time("errorTime", time.Now().UTC()).
		Msg("dbError")
}

// NopClient - LogClient that discards everything.
type NopClient struct{}

func (c *NopClient) Log(eventType string, payload map[string]any) {}

func (c *NopClient) Error(err error) {}
