// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Blood Bank API server.

The service keeps donor and receiver profiles, donation events with seat
registration, donation records with screening results, and per-blood-type
inventory, behind role-gated bearer-token authentication.

# Commands

	bloodbank serve          Run the HTTP server
	bloodbank init-db        Create the schema
	bloodbank init-db --seed Create the schema and load sample data
	bloodbank create-admin --email a@b.c --password secret

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... JWT_SECRET_KEY=... go run . serve

Or with flags:

	go run . serve -p 8000 -t sqlite -d file:bloodbank.db --jwt-secret dev

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): backend connection string
  - JWT_SECRET_KEY (--jwt-secret): token signing secret

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): postgres, sqlite or mysql (default: postgres)
  - ACCESS_TOKEN_EXPIRE_MINUTES (--token-ttl): token lifetime (default: 30m)
  - BACKEND_CORS_ORIGINS (--cors-origins): allowed browser origins
  - LOG_LEVEL, LOG_FORMAT: zap logger settings

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, donors, receivers, events, records, inventory, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: authorization gate, CORS, logging, metrics, validation
  - resources: per-entity operations and business rules
  - store: generic record store over squirrel and sqlx
  - models: domain, request and response types
  - auth: password hashing and JWT bearer tokens
  - db: connection setup and schema creation
  - errs: coded errors mapped to HTTP statuses
  - cliparse: configuration parsing
  - logger: zap logger construction
  - seed: sample data

See package documentation for each component.
*/
package main
