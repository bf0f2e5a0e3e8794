// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/bloodbank/store"
)

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to the backend, sizes the pool and pings it.
// The caller owns the returned pool and must Close it.
func Open(ctx context.Context, dialect store.Dialect, url string, pool PoolConfig) (*sqlx.DB, error) {
	conn, err := open(dialect, url)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(pool.MaxOpenConns)
	conn.SetMaxIdleConns(pool.MaxIdleConns)
	conn.SetConnMaxLifetime(pool.ConnMaxLifetime)

	// Every connection to :memory: is a separate database
	if dialect == store.SQLite && isMemory(url) {
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return conn, nil
}

func open(dialect store.Dialect, url string) (*sqlx.DB, error) {
	switch dialect {
	case store.Postgres:
		conn, err := sqlx.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		return conn, nil

	case store.SQLite:
		conn, err := sqlx.Open("sqlite", SQLiteDSN(url))
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		return conn, nil

	case store.MySQL:
		cfg, err := mysql.ParseDSN(url)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql DSN: %w", err)
		}
		// Times come back as time.Time in UTC, and UPDATE reports matched
		// rows so an unchanged row still counts as found.
		cfg.ParseTime = true
		cfg.ClientFoundRows = true
		if cfg.Loc == nil {
			cfg.Loc = time.UTC
		}
		connector, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		return sqlx.NewDb(sql.OpenDB(connector), "mysql"), nil
	}
	return nil, fmt.Errorf("unsupported database type %q", dialect)
}

// SQLiteDSN enables foreign keys, a busy timeout and sortable time text on
// every connection.
func SQLiteDSN(url string) string {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	if strings.Contains(url, "?") {
		return url + "&" + params
	}
	return url + "?" + params
}

func isMemory(url string) bool {
	return strings.HasPrefix(url, ":memory:") || strings.Contains(url, "mode=memory")
}
