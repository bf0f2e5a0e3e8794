// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/bloodbank/store"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, conn *sqlx.DB, dialect store.Dialect) error {
	stmts := portableSchema
	if dialect == store.MySQL {
		stmts = mysqlSchema
	}

	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// DropSchema removes every table, children first.
func DropSchema(ctx context.Context, conn *sqlx.DB) error {
	for i := len(store.Schemas) - 1; i >= 0; i-- {
		if _, err := conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+store.Schemas[i].Name); err != nil {
			return fmt.Errorf("failed to drop %s: %w", store.Schemas[i].Name, err)
		}
	}
	return nil
}

// PostgreSQL and SQLite share one dialect of DDL.
var portableSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(36) PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(16) NOT NULL CHECK (role IN ('admin', 'donor', 'receiver')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,

	`CREATE TABLE IF NOT EXISTS donors (
    id VARCHAR(36) PRIMARY KEY,
    user_id VARCHAR(36) NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255),
    phone VARCHAR(32),
    blood_type VARCHAR(3) NOT NULL CHECK (blood_type IN ('A+', 'A-', 'B+', 'B-', 'AB+', 'AB-', 'O+', 'O-')),
    age INTEGER NOT NULL,
    weight DOUBLE PRECISION NOT NULL,
    address TEXT,
    medical_history TEXT,
    donation_units INTEGER NOT NULL DEFAULT 1,
    last_donation_date TIMESTAMP,
    is_eligible BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_donors_blood_type ON donors(blood_type)`,
	`CREATE INDEX IF NOT EXISTS idx_donors_is_eligible ON donors(is_eligible)`,

	`CREATE TABLE IF NOT EXISTS blood_receivers (
    id VARCHAR(36) PRIMARY KEY,
    user_id VARCHAR(36) NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255),
    phone VARCHAR(32),
    blood_type VARCHAR(3) NOT NULL CHECK (blood_type IN ('A+', 'A-', 'B+', 'B-', 'AB+', 'AB-', 'O+', 'O-')),
    address TEXT,
    emergency_contact VARCHAR(255),
    medical_conditions TEXT,
    urgency_level VARCHAR(16) NOT NULL DEFAULT 'medium' CHECK (urgency_level IN ('low', 'medium', 'high', 'critical')),
    units_needed INTEGER NOT NULL DEFAULT 1,
    hospital_name VARCHAR(255),
    doctor_name VARCHAR(255),
    medical_condition TEXT,
    request_date TIMESTAMP,
    status VARCHAR(16) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'fulfilled', 'cancelled')),
    notes TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_receivers_status ON blood_receivers(status)`,
	`CREATE INDEX IF NOT EXISTS idx_receivers_urgency ON blood_receivers(urgency_level)`,

	`CREATE TABLE IF NOT EXISTS donation_events (
    id VARCHAR(36) PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    description TEXT,
    event_date TIMESTAMP NOT NULL,
    start_time VARCHAR(8) NOT NULL,
    location VARCHAR(255) NOT NULL,
    address TEXT,
    capacity INTEGER NOT NULL CHECK (capacity > 0),
    registered_donors TEXT NOT NULL,
    organizer VARCHAR(255),
    status VARCHAR(16) NOT NULL DEFAULT 'upcoming' CHECK (status IN ('upcoming', 'ongoing', 'completed', 'cancelled')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_events_status ON donation_events(status)`,
	`CREATE INDEX IF NOT EXISTS idx_events_date ON donation_events(event_date)`,

	`CREATE TABLE IF NOT EXISTS donation_records (
    id VARCHAR(36) PRIMARY KEY,
    donor_id VARCHAR(36) NOT NULL REFERENCES donors(id) ON DELETE CASCADE,
    event_id VARCHAR(36) REFERENCES donation_events(id) ON DELETE SET NULL,
    donation_date TIMESTAMP NOT NULL,
    blood_type VARCHAR(3) NOT NULL CHECK (blood_type IN ('A+', 'A-', 'B+', 'B-', 'AB+', 'AB-', 'O+', 'O-')),
    units_collected INTEGER NOT NULL DEFAULT 1,
    hiv_test BOOLEAN NOT NULL DEFAULT FALSE,
    hepatitis_b_test BOOLEAN NOT NULL DEFAULT FALSE,
    hepatitis_c_test BOOLEAN NOT NULL DEFAULT FALSE,
    syphilis_test BOOLEAN NOT NULL DEFAULT FALSE,
    status VARCHAR(16) NOT NULL DEFAULT 'collected' CHECK (status IN ('collected', 'tested', 'approved', 'rejected')),
    notes TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_records_donor ON donation_records(donor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_records_event ON donation_records(event_id)`,
	`CREATE INDEX IF NOT EXISTS idx_records_date ON donation_records(donation_date)`,

	`CREATE TABLE IF NOT EXISTS blood_inventory (
    id VARCHAR(36) PRIMARY KEY,
    blood_type VARCHAR(3) NOT NULL UNIQUE CHECK (blood_type IN ('A+', 'A-', 'B+', 'B-', 'AB+', 'AB-', 'O+', 'O-')),
    units_available INTEGER NOT NULL DEFAULT 0 CHECK (units_available >= 0),
    expiry_date TIMESTAMP,
    last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so indexes are declared inline.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(36) PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(16) NOT NULL CHECK (role IN ('admin', 'donor', 'receiver')),
    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS donors (
    id VARCHAR(36) PRIMARY KEY,
    user_id VARCHAR(36) NOT NULL UNIQUE,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255),
    phone VARCHAR(32),
    blood_type VARCHAR(3) NOT NULL CHECK (blood_type IN ('A+', 'A-', 'B+', 'B-', 'AB+', 'AB-', 'O+', 'O-')),
    age INT NOT NULL,
    weight DOUBLE NOT NULL,
    address TEXT,
    medical_history TEXT,
    donation_units INT NOT NULL DEFAULT 1,
    last_donation_date DATETIME(6),
    is_eligible BOOLEAN NOT NULL DEFAULT TRUE,
    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    INDEX idx_donors_blood_type (blood_type),
    INDEX idx_donors_is_eligible (is_eligible),
    CONSTRAINT fk_donors_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS blood_receivers (
    id VARCHAR(36) PRIMARY KEY,
    user_id VARCHAR(36) NOT NULL UNIQUE,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255),
    phone VARCHAR(32),
    blood_type VARCHAR(3) NOT NULL CHECK (blood_type IN ('A+', 'A-', 'B+', 'B-', 'AB+', 'AB-', 'O+', 'O-')),
    address TEXT,
    emergency_contact VARCHAR(255),
    medical_conditions TEXT,
    urgency_level VARCHAR(16) NOT NULL DEFAULT 'medium' CHECK (urgency_level IN ('low', 'medium', 'high', 'critical')),
    units_needed INT NOT NULL DEFAULT 1,
    hospital_name VARCHAR(255),
    doctor_name VARCHAR(255),
    medical_condition TEXT,
    request_date DATETIME(6),
    status VARCHAR(16) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'fulfilled', 'cancelled')),
    notes TEXT,
    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    INDEX idx_receivers_status (status),
    INDEX idx_receivers_urgency (urgency_level),
    CONSTRAINT fk_receivers_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS donation_events (
    id VARCHAR(36) PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    description TEXT,
    event_date DATETIME(6) NOT NULL,
    start_time VARCHAR(8) NOT NULL,
    location VARCHAR(255) NOT NULL,
    address TEXT,
    capacity INT NOT NULL CHECK (capacity > 0),
    registered_donors TEXT NOT NULL,
    organizer VARCHAR(255),
    status VARCHAR(16) NOT NULL DEFAULT 'upcoming' CHECK (status IN ('upcoming', 'ongoing', 'completed', 'cancelled')),
    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    INDEX idx_events_status (status),
    INDEX idx_events_date (event_date)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS donation_records (
    id VARCHAR(36) PRIMARY KEY,
    donor_id VARCHAR(36) NOT NULL,
    event_id VARCHAR(36),
    donation_date DATETIME(6) NOT NULL,
    blood_type VARCHAR(3) NOT NULL CHECK (blood_type IN ('A+', 'A-', 'B+', 'B-', 'AB+', 'AB-', 'O+', 'O-')),
    units_collected INT NOT NULL DEFAULT 1,
    hiv_test BOOLEAN NOT NULL DEFAULT FALSE,
    hepatitis_b_test BOOLEAN NOT NULL DEFAULT FALSE,
    hepatitis_c_test BOOLEAN NOT NULL DEFAULT FALSE,
    syphilis_test BOOLEAN NOT NULL DEFAULT FALSE,
    status VARCHAR(16) NOT NULL DEFAULT 'collected' CHECK (status IN ('collected', 'tested', 'approved', 'rejected')),
    notes TEXT,
    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    INDEX idx_records_donor (donor_id),
    INDEX idx_records_event (event_id),
    INDEX idx_records_date (donation_date),
    CONSTRAINT fk_records_donor FOREIGN KEY (donor_id) REFERENCES donors(id) ON DELETE CASCADE,
    CONSTRAINT fk_records_event FOREIGN KEY (event_id) REFERENCES donation_events(id) ON DELETE SET NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS blood_inventory (
    id VARCHAR(36) PRIMARY KEY,
    blood_type VARCHAR(3) NOT NULL UNIQUE CHECK (blood_type IN ('A+', 'A-', 'B+', 'B-', 'AB+', 'AB-', 'O+', 'O-')),
    units_available INT NOT NULL DEFAULT 0 CHECK (units_available >= 0),
    expiry_date DATETIME(6),
    last_updated DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
