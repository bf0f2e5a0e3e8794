// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the blood bank API.

# Handler Types

Each handler is a struct over the resource wrappers it needs and a logger:

  - AuthHandler: registration, login, current user
  - DonorHandler: donor profiles and eligibility
  - ReceiverHandler: receiver profiles and the blood request views
  - EventHandler: donation events and registrations
  - RecordHandler: donation records and test results
  - InventoryHandler: blood stock levels
  - AdminHandler: dashboard statistics and table counts
  - HealthHandler: liveness and the API banner

Handlers are created via constructor functions:

	donorHandler := handlers.NewDonorHandler(res, log)

# Authorization

Handlers never check roles. The router wraps each route with the gate
from package middleware, and handlers read the caller with
middleware.CurrentUser. "My profile" endpoints resolve the profile through
the caller's user id, so a donor can only ever see or edit their own.

Event registration is the one place a handler branches on role: donors
register themselves, admins name a donor_id in the body.

# Errors

Wrappers return errs-coded errors and handlers pass them to
middleware.WriteError, which picks the status:

	400 invalid input            404 missing record
	401 missing or bad token     409 duplicate or state conflict
	403 wrong role               503 database unreachable

# Paging

List endpoints accept ?skip and ?limit. The limit defaults to 100 and is
capped at 1000.
*/
package handlers
