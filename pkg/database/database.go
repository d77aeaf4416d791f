package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/circulation/pkg/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type queryLogHook struct {
	log logger.Logger
}

func (*queryLogHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	data := logger.Data{"duration_ms": time.Since(event.StartTime).Milliseconds()}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		h.log.Err(event.Err).Debug(event.Query, data)
		return
	}
	h.log.Debug(event.Query, data)
}

// New opens the SQLite database described by cfg. Every connection goes
// through a connector that retries SQLITE_BUSY errors, and the pool is capped
// at a single connection so writers queue instead of contending for the lock.
func New(cfg *config.Config) (*bun.DB, error) {
	shim, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseFilePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	// sql.Open never dials, so this handle only exists to get at the driver.
	drv := shim.Driver()
	if err := shim.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	connector, err := newConnector(drv, cfg.DatabaseFilePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	sqldb := sql.OpenDB(&retryConnector{
		Connector:  connector,
		maxRetries: cfg.DatabaseMaxRetries,
		pragmas: []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA foreign_keys=ON",
			fmt.Sprintf("PRAGMA busy_timeout=%d", cfg.DatabaseBusyTimeout.Milliseconds()),
		},
	})
	sqldb.SetMaxOpenConns(1)
	// An in-memory database only lives as long as its connection, so the one
	// connection is never expired or closed for idleness.
	sqldb.SetConnMaxLifetime(0)
	sqldb.SetConnMaxIdleTime(0)
	sqldb.SetMaxIdleConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if cfg.DatabaseDebug {
		db.AddQueryHook(&queryLogHook{logger.NewWithLevel("debug")})
	}

	attempts := cfg.DatabaseConnectRetryCount
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if _, err = db.Exec("SELECT 1"); err == nil {
			break
		}
		time.Sleep(cfg.DatabaseConnectRetryDelay)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	return db, nil
}
