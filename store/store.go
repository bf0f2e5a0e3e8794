// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/danielhkuo/bloodbank/errs"
)

// Dialect selects placeholder style and error classification.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
	MySQL    Dialect = "mysql"
)

// ParseDialect accepts the configured database type.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case Postgres, SQLite, MySQL:
		return Dialect(s), nil
	case "postgresql":
		return Postgres, nil
	case "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database type %q (use postgres, sqlite or mysql)", s)
}

const defaultRetryInterval = 100 * time.Millisecond

// Store runs parametrized statements against an injected connection pool.
// It holds no locks; concurrency control is left to the backend.
type Store struct {
	db            *sqlx.DB
	dialect       Dialect
	sb            sq.StatementBuilderType
	log           *zap.Logger
	clock         clock.Clock
	retryInterval time.Duration
}

type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithClock(clk clock.Clock) Option {
	return func(s *Store) { s.clock = clk }
}

// WithRetryInterval sets the pause before the single retry of an
// unavailable backend.
func WithRetryInterval(d time.Duration) Option {
	return func(s *Store) { s.retryInterval = d }
}

// New wraps a pool owned by the caller. The store never closes it.
func New(db *sqlx.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{
		db:            db,
		dialect:       dialect,
		log:           zap.NewNop(),
		clock:         clock.New(),
		retryInterval: defaultRetryInterval,
	}
	for _, o := range opts {
		o(s)
	}

	var format sq.PlaceholderFormat = sq.Question
	if dialect == Postgres {
		format = sq.Dollar
	}
	s.sb = sq.StatementBuilder.PlaceholderFormat(format)
	return s
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Now returns the store clock in UTC. Timestamps written by the store come
// from here.
func (s *Store) Now() time.Time {
	return s.clock.Now().UTC()
}

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.retry(ctx, "store.Ping", func() error {
		return s.db.PingContext(ctx)
	})
}

// retry runs fn, classifying its error. An unavailable backend is retried
// exactly once; every other failure returns immediately.
func (s *Store) retry(ctx context.Context, op string, fn func() error) error {
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryInterval), 1),
		ctx,
	)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := classify(op, fn())
		if err == nil {
			return nil
		}
		if errs.ErrorCode(err) != errs.EUnavailable || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		s.log.Warn("backend unavailable",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}, b)
	if err != nil {
		// The context may end between attempts; report it coded.
		return classify(op, err)
	}
	return nil
}

// exec runs a built statement and returns the affected row count.
func (s *Store) exec(ctx context.Context, op string, q sq.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, errs.Wrap(errs.EInternal, op, err)
	}

	var n int64
	err = s.retry(ctx, op, func() error {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

func (s *Store) get(ctx context.Context, op string, dest any, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errs.Wrap(errs.EInternal, op, err)
	}
	return s.retry(ctx, op, func() error {
		return s.db.GetContext(ctx, dest, query, args...)
	})
}

func (s *Store) selectRows(ctx context.Context, op string, dest any, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errs.Wrap(errs.EInternal, op, err)
	}
	return s.retry(ctx, op, func() error {
		return s.db.SelectContext(ctx, dest, query, args...)
	})
}
