// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the blood bank API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{
		Store:     s,
		Resources: res,
		Issuer:    issuer,
		Log:       log,
		Registry:  prometheus.NewRegistry(),
	})

Every API route is instrumented and logged. Gated routes also pass the
authorization gate with the roles listed below.

# Endpoints

Operational:

	GET /health  - Liveness and database reachability
	GET /metrics - Prometheus metrics
	GET /        - API banner

Authentication (under /api/v1):

	POST /auth/register - public, donor or receiver accounts only
	POST /auth/login    - public, returns a bearer token
	GET  /auth/me       - any authenticated user

Donors and receivers:

	GET  /donors[?blood_type=], /donors/eligible, /donors/ineligible  - admin
	GET  /donors/me, POST /donors, PUT /donors/me      - donor
	GET  /donors/{id}, PUT /donors/{id}/eligibility    - admin
	DELETE /donors/{id}                                - admin
	GET  /receivers, /receivers/{id}, DELETE /receivers/{id}  - admin
	GET  /receivers/me, POST /receivers, PUT /receivers/me    - receiver
	GET  /blood-requests, PUT /blood-requests/{id}/status     - admin

Events:

	GET  /events, /events/{id}                       - public
	POST /events, PUT /events/{id}, DELETE /events/{id} - admin
	POST /events/{id}/register                       - donor or admin
	DELETE /events/{id}/unregister                   - donor or admin

Donation records:

	GET /donation-records/my-records - donor
	everything else                  - admin

Inventory and administration:

	GET /blood-inventory                  - any authenticated user
	POST, PUT and DELETE /blood-inventory - admin
	GET /dashboard/stats                  - admin
	GET /admin/table-counts               - admin
	GET /admin/users                      - admin
*/
package router
