// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Authorization Gate

Gate turns a bearer token into a user and checks roles:

	gate := middleware.NewGate(issuer, res.Users, log)
	mux.HandleFunc("GET /api/v1/donors", gate.Require(models.RoleAdmin)(h.List))
	mux.HandleFunc("GET /api/v1/auth/me", gate.Require()(h.Me))

A missing or invalid token, or a token whose user no longer exists, is
401. An authenticated user without a required role is 403. Handlers read
the user with CurrentUser.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(log, handler))

Logs method, path, status and duration_ms for every request.

# Metrics

Metrics counts requests and observes their duration, labelled by method,
route pattern and status:

	m := middleware.NewMetrics(prometheus.DefaultRegisterer)
	mux.HandleFunc(pattern, m.Instrument(pattern, handler))

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigins)(mux),
	}

Only listed origins are echoed back; "*" allows any origin.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.WriteError(w, r, err)

WriteError maps errs codes to statuses. Bodies are decoded and checked
against their validate tags in one step:

	var req models.DonorCreate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
*/
package middleware
