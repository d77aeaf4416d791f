package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBusyError(t *testing.T) {
	t.Parallel()

	busy := []string{
		"database is locked",
		"database table is locked",
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
		"error (5): database busy",
		"error (6): database locked",
	}
	for _, msg := range busy {
		assert.True(t, isBusyError(errors.New(msg)), msg)
	}

	assert.False(t, isBusyError(nil))
	assert.False(t, isBusyError(errors.New("connection refused")))
	assert.False(t, isBusyError(errors.New("UNIQUE constraint failed: book_instances.id")))
}

func TestRetryWithBackoff(t *testing.T) {
	t.Parallel()

	t.Run("stops after the first success", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries busy errors until they clear", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			return errors.New("no such table: book_instances")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 2, func() error {
			attempts++
			return errors.New("SQLITE_BUSY")
		})
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("zero retries means a single attempt", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 0, func() error {
			attempts++
			return errors.New("SQLITE_BUSY")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("returns when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		attempts := 0
		err := retryWithBackoff(ctx, 20, func() error {
			attempts++
			return errors.New("database is locked")
		})
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, attempts, 20)
	})
}

type plainDriver struct {
	opened []string
}

func (d *plainDriver) Open(name string) (driver.Conn, error) {
	d.opened = append(d.opened, name)
	return nil, errors.New("not a real connection")
}

func TestNewConnector_FallsBackToOpen(t *testing.T) {
	t.Parallel()

	drv := &plainDriver{}
	connector, err := newConnector(drv, "file:test.db")
	require.NoError(t, err)
	assert.Same(t, drv, connector.Driver())

	_, err = connector.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"file:test.db"}, drv.opened)
}

type recordingConn struct {
	execs  []string
	closed bool
}

func (c *recordingConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *recordingConn) Close() error {
	c.closed = true
	return nil
}

func (c *recordingConn) Begin() (driver.Tx, error) {
	return nil, errors.New("begin not supported")
}

func (c *recordingConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.execs = append(c.execs, query)
	if query == "PRAGMA broken" {
		return nil, errors.New("near \"broken\": syntax error")
	}
	return driver.RowsAffected(0), nil
}

type recordingConnector struct {
	conns []*recordingConn
}

func (rc *recordingConnector) Connect(context.Context) (driver.Conn, error) {
	conn := &recordingConn{}
	rc.conns = append(rc.conns, conn)
	return conn, nil
}

func (rc *recordingConnector) Driver() driver.Driver {
	return &plainDriver{}
}

func TestRetryConnector_RunsPragmasOnEveryConnection(t *testing.T) {
	t.Parallel()

	inner := &recordingConnector{}
	connector := &retryConnector{
		Connector: inner,
		pragmas:   []string{"PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"},
	}

	for i := 0; i < 2; i++ {
		conn, err := connector.Connect(context.Background())
		require.NoError(t, err)
		require.NoError(t, conn.Close())
	}

	require.Len(t, inner.conns, 2)
	for _, conn := range inner.conns {
		assert.Equal(t, []string{"PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"}, conn.execs)
	}
}

func TestRetryConnector_PragmaFailureClosesConnection(t *testing.T) {
	t.Parallel()

	inner := &recordingConnector{}
	connector := &retryConnector{Connector: inner, pragmas: []string{"PRAGMA broken"}}

	_, err := connector.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to run "PRAGMA broken"`)
	require.Len(t, inner.conns, 1)
	assert.True(t, inner.conns[0].closed)
}
