// Package mysqldb implements the database.Driver capability on top of
// database/sql and the go-sql-driver MySQL driver. It works against
// MySQL and MariaDB servers.
package mysqldb

import (
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/warncke/immutable-db/pkg/database"
)

// defaultPingInterval - interval of the connection watchdog feeding
// OnError handlers.
const defaultPingInterval = 30 * time.Second

// MySQLDriver - database.Driver implementation.
type MySQLDriver struct {
	pingInterval time.Duration
}

// Option - MySQLDriver construction option.
type Option func(*MySQLDriver)

// WithPingInterval - override the connection watchdog interval. A zero
// or negative interval disables the watchdog.
func WithPingInterval(interval time.Duration) Option {
	return func(d *MySQLDriver) {
		d.pingInterval = interval
	}
}

// New - create a MySQLDriver.
func New(opts ...Option) *MySQLDriver {
	driver := &MySQLDriver{
		pingInterval: defaultPingInterval,
	}

	for _, opt := range opts {
		opt(driver)
	}

	return driver
}

// Connect - open a connection from an opaque params map. Recognized
// keys, matching the classic MariaDB client params: host, port, user,
// password, db (also accepted as database), charset.
func (d *MySQLDriver) Connect(params map[string]any) (database.Conn, error) {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%s", stringParam(params, "host", "localhost"), stringParam(params, "port", "3306"))
	cfg.User = stringParam(params, "user", "")
	cfg.Passwd = stringParam(params, "password", "")
	cfg.DBName = stringParam(params, "db", stringParam(params, "database", ""))
	cfg.ParseTime = true

	if charset := stringParam(params, "charset", ""); charset != "" {
		cfg.Params = map[string]string{"charset": charset}
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error building mysql connector")
	}

	return wrap(sql.OpenDB(connector), d.pingInterval), nil
}

// MySQLConn - database.Conn implementation over *sql.DB.
type MySQLConn struct {
	db           *sql.DB
	pingInterval time.Duration
	handlerMu    sync.RWMutex
	handler      func(error)
	stopOnce     sync.Once
	stop         chan struct{}
}

// WrapDB - adapt an already opened *sql.DB. Used by test harnesses
// and callers that build their own DSN. No watchdog is started unless
// a ping interval is given.
func WrapDB(db *sql.DB, opts ...Option) *MySQLConn {
	driver := &MySQLDriver{}

	for _, opt := range opts {
		opt(driver)
	}

	return wrap(db, driver.pingInterval)
}

func wrap(db *sql.DB, pingInterval time.Duration) *MySQLConn {
	conn := &MySQLConn{
		db:           db,
		pingInterval: pingInterval,
		stop:         make(chan struct{}),
	}

	if pingInterval > 0 {
		go conn.watch()
	}

	return conn
}

// OnError - register the handler for connection-level errors detected
// outside any query, e.g. by the watchdog. Replaces any previously
// registered handler.
func (c *MySQLConn) OnError(handler func(error)) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()

	c.handler = handler
}

// watch - periodically ping the server and route failures to the
// registered error handler.
func (c *MySQLConn) watch() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if err := c.db.Ping(); err != nil {
				c.notify(errors.Wrap(err, "connection check failed"))
			}
		}
	}
}

func (c *MySQLConn) notify(err error) {
	c.handlerMu.RLock()
	handler := c.handler
	c.handlerMu.RUnlock()

	if handler != nil {
		handler(err)
	}
}

// End - graceful close. database/sql returns in-use connections to the
// pool before closing them, so in-flight work finishes first.
func (c *MySQLConn) End() error {
	c.stopWatch()

	return c.db.Close()
}

// Destroy - forced close. The pool is closed immediately; the server
// side tears down its half on its own.
func (c *MySQLConn) Destroy() error {
	c.stopWatch()
	c.db.SetConnMaxLifetime(0)

	return c.db.Close()
}

func (c *MySQLConn) stopWatch() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// stringParam - read a params value as a string, accepting the numeric
// types a dynamically built params map may carry.
func stringParam(params map[string]any, key string, fallback string) string {
	value, ok := params[key]
	if !ok || value == nil {
		return fallback
	}

	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
