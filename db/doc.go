// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the connection pool and creates the schema.

# Connecting

Open returns a pinged *sqlx.DB for one of three backends:

	conn, err := db.Open(ctx, store.Postgres, url, db.PoolConfig{MaxOpenConns: 10})

  - postgres: github.com/lib/pq
  - sqlite: modernc.org/sqlite, with foreign keys enforced per connection.
    An in-memory database is pinned to a single connection.
  - mysql: github.com/go-sql-driver/mysql, with parseTime and
    clientFoundRows forced on.

The pool belongs to the caller (main, or a test) and is handed to
store.New.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn, dialect); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS. PostgreSQL and SQLite
share one set of statements; MySQL gets its own (DATETIME(6), inline
indexes).

# Tables

  - users: credentials and role
  - donors: donor profile, one per user
  - blood_receivers: blood request profile, one per user
  - donation_events: drives with a JSON list of registered donor ids
  - donation_records: collections and their screening results
  - blood_inventory: one row per blood type

# Relationships

	users 1──0..1 donors            (ON DELETE CASCADE)
	users 1──0..1 blood_receivers   (ON DELETE CASCADE)
	donors 1──* donation_records    (ON DELETE CASCADE)
	donation_events 1──* donation_records (ON DELETE SET NULL)

# Constraints

  - users.email, blood_inventory.blood_type: UNIQUE
  - blood_inventory.units_available >= 0
  - enumerated columns (role, status, urgency_level, blood_type) carry CHECKs
*/
package db
