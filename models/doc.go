// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

One struct per table. The `db` tag is the column name, the `json` tag the
wire name:

  - User: email, role (password_hash never serialized)
  - Donor: profile owned by a donor user (user_id)
  - Receiver: blood request profile owned by a receiver user
  - Event: donation drive; RegisteredDonors is a DonorIDs JSON column
  - DonationRecord: one collection, with four screening results nested
    under "test_results" in JSON
  - InventoryItem: units on hand for one blood type

# Enumerations

Role, BloodType, UrgencyLevel, RequestStatus, EventStatus and DonationStatus
are closed string enumerations. Role.Valid and BloodType.Valid are used where
values arrive from outside a validated request body.

# Request Types

Create requests carry required fields as values and optional ones as
pointers. Update requests are all pointers: nil means "do not touch". The
`validate` tags are checked by middleware.DecodeAndValidate
(github.com/go-playground/validator/v10).

# Event Registration

DonorIDs keeps insertion order. With and Without return copies so the value
read from the database can still be used as the compare-and-swap guard:

	next := event.RegisteredDonors.With(donorID)
*/
package models
