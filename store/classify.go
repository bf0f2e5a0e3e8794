// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/bloodbank/errs"
)

// MySQL server error numbers treated as constraint violations.
const (
	mysqlDupEntry        = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
	mysqlCheckConstraint = 3819
	mysqlServerGone      = 2006
	mysqlServerLost      = 2013
	mysqlTooManyConns    = 1040
	mysqlLockWaitTimeout = 1205
)

// classify turns a driver error into a coded error. Errors that are
// already coded pass through untouched.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var coded *errs.Error
	if errors.As(err, &coded) {
		return err
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return &errs.Error{Code: errs.ENotFound, Op: op, Msg: "record not found", Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &errs.Error{Code: errs.EUnavailable, Op: op, Msg: "request cancelled before the backend answered", Err: err}
	case isConstraint(err):
		return &errs.Error{Code: errs.EConflict, Op: op, Msg: "record violates a uniqueness or reference constraint", Err: err}
	case isUnavailable(err):
		return &errs.Error{Code: errs.EUnavailable, Op: op, Msg: "database unavailable", Err: err}
	}
	return &errs.Error{Code: errs.EInternal, Op: op, Err: err}
}

func isConstraint(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDupEntry, mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlCheckConstraint:
			return true
		}
	}
	return false
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 08: connection exception, 57P0x: server shutting down
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return true
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlServerGone, mysqlServerLost, mysqlTooManyConns, mysqlLockWaitTimeout:
			return true
		}
	}
	return false
}
