// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package errs defines the error taxonomy used across the service.

Every failure that crosses a package boundary is an *Error carrying one of
the codes below:

	EUnauthenticated  missing, malformed or expired token; unknown user (401)
	EForbidden        authenticated but wrong role (403)
	ENotFound         no row with the requested id (404)
	EInvalid          empty update, unknown column, bad input (400)
	EConflict         uniqueness/foreign key violation or state conflict (409)
	EUnavailable      backend unreachable after one retry (503)
	EInternal         anything else (500)

The store classifies driver errors into these codes; handlers only look at
the code via ErrorCode and HTTPStatus.
*/
package errs
