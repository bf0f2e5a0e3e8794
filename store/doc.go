// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the generic record layer: typed tables over an injected
connection pool.

# Tables

Each table is a Schema (name plus column allow-list) bound to its row type:

	donors := store.NewTable[models.Donor](s, store.Donors)
	d, err := donors.GetByID(ctx, id)

Only allow-listed column names are ever written into SQL text. Filter and
update values always travel as placeholders (github.com/Masterminds/squirrel builds the statements,
github.com/jmoiron/sqlx scans the rows). An unknown column is an EInvalid
error before any statement runs.

# Fields

Writes take a Fields map. Entries whose value is nil or a nil pointer are
"not supplied" and dropped, so request structs can be passed through
FieldsFrom directly:

	updated, err := donors.Update(ctx, id, store.FieldsFrom(req))

An update whose effective set is empty fails with EInvalid. id, created_at,
updated_at and a schema's Touch columns are owned by the store and cannot be
written by callers. Every mutation re-reads the row and returns it.

# Atomic Updates

AddInt applies a delta in a single conditional statement, so concurrent
adjustments never lose updates and a column never crosses its floor:

	UPDATE blood_inventory SET units_available = units_available + ?
	WHERE id = ? AND units_available + ? >= ?

UpdateIf and CompareAndSwap guard a write on the current value of one or
more columns; a false result means another writer got there first.

# Errors

Driver errors are classified per backend (lib/pq, modernc.org/sqlite,
go-sql-driver/mysql):

	uniqueness / foreign key / check violation  -> errs.EConflict
	no rows                                      -> errs.ENotFound
	connection refused / reset / server gone     -> errs.EUnavailable

An EUnavailable failure is retried exactly once
(github.com/cenkalti/backoff/v4) and logged; everything else returns
immediately.
*/
package store
