package database

import (
	"context"
	"database/sql/driver"
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	retryBaseDelay = 50 * time.Millisecond
	retryMaxDelay  = 2 * time.Second
)

var busyMarkers = []string{
	"database is locked",
	"database table is locked",
	"SQLITE_BUSY",
	"SQLITE_LOCKED",
	"(5)",
	"(6)",
}

// isBusyError reports whether err is SQLite telling us another connection
// holds the lock. Both the cgo and the pure Go drivers only expose this
// through the message.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range busyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// retryWithBackoff runs fn until it succeeds, fails with a non-busy error, or
// maxRetries retries have been spent. The delay doubles on each attempt with
// up to 25% jitter and is capped at retryMaxDelay.
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !isBusyError(err) || attempt >= maxRetries {
			return err
		}

		delay := retryBaseDelay << attempt
		delay += time.Duration(rand.Int63n(int64(delay/4) + 1))
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// dsnConnector adapts a driver without driver.DriverContext to a
// driver.Connector.
type dsnConnector struct {
	dsn string
	drv driver.Driver
}

func (dc *dsnConnector) Connect(_ context.Context) (driver.Conn, error) {
	return dc.drv.Open(dc.dsn)
}

func (dc *dsnConnector) Driver() driver.Driver {
	return dc.drv
}

func newConnector(drv driver.Driver, dsn string) (driver.Connector, error) {
	if dctx, ok := drv.(driver.DriverContext); ok {
		return dctx.OpenConnector(dsn)
	}
	return &dsnConnector{dsn: dsn, drv: drv}, nil
}

// retryConnector hands out connections whose exec, query and begin calls are
// retried on SQLITE_BUSY. The pragmas run on every new connection, since
// SQLite scopes them to the connection and not the database file.
type retryConnector struct {
	driver.Connector
	maxRetries int
	pragmas    []string
}

func (rc *retryConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := rc.Connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	rconn := &retryConn{Conn: conn, maxRetries: rc.maxRetries}
	for _, pragma := range rc.pragmas {
		if err := rconn.exec(ctx, pragma); err != nil {
			_ = conn.Close()
			return nil, errors.Wrapf(err, "failed to run %q", pragma)
		}
	}
	return rconn, nil
}

type retryConn struct {
	driver.Conn
	maxRetries int
}

func (c *retryConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	var tx driver.Tx
	err := retryWithBackoff(ctx, c.maxRetries, func() error {
		var err error
		if beginner, ok := c.Conn.(driver.ConnBeginTx); ok {
			tx, err = beginner.BeginTx(ctx, opts)
		} else {
			tx, err = c.Conn.Begin() //nolint:staticcheck // fallback for drivers without BeginTx
		}
		return err
	})
	return tx, err
}

func (c *retryConn) exec(ctx context.Context, query string) error {
	if _, err := c.ExecContext(ctx, query, nil); !errors.Is(err, driver.ErrSkip) {
		return err
	}
	stmt, err := c.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.Exec(nil) //nolint:staticcheck // drivers without ExecerContext
	return err
}

func (c *retryConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if preparer, ok := c.Conn.(driver.ConnPrepareContext); ok {
		return preparer.PrepareContext(ctx, query)
	}
	return c.Conn.Prepare(query)
}

func (c *retryConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	execer, ok := c.Conn.(driver.ExecerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	var res driver.Result
	err := retryWithBackoff(ctx, c.maxRetries, func() error {
		var err error
		res, err = execer.ExecContext(ctx, query, args)
		return err
	})
	return res, err
}

func (c *retryConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	queryer, ok := c.Conn.(driver.QueryerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	var rows driver.Rows
	err := retryWithBackoff(ctx, c.maxRetries, func() error {
		var err error
		rows, err = queryer.QueryContext(ctx, query, args)
		return err
	})
	return rows, err
}

func (c *retryConn) Ping(ctx context.Context) error {
	if pinger, ok := c.Conn.(driver.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func (c *retryConn) ResetSession(ctx context.Context) error {
	if resetter, ok := c.Conn.(driver.SessionResetter); ok {
		return resetter.ResetSession(ctx)
	}
	return nil
}

func (c *retryConn) IsValid() bool {
	if validator, ok := c.Conn.(driver.Validator); ok {
		return validator.IsValid()
	}
	return true
}
