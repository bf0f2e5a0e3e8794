// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and bearer token utilities.

# Passwords

Passwords are stored as salted bcrypt hashes:

	hash, err := auth.HashPassword(plain)
	ok := auth.VerifyPassword(plain, hash)

bcrypt only considers the first 72 bytes of input, so longer passwords are
rejected with ErrPasswordTooLong instead of being silently truncated.

# Bearer Tokens

TokenIssuer signs JWTs with a server-held HMAC secret:

	issuer, err := auth.NewTokenIssuer(secret, "HS256", 30*time.Minute, nil)
	token, err := issuer.Issue(userID)
	userID, ok := issuer.Verify(token)

Tokens carry sub, iat, exp and a random jti. A token issued with lifetime T
verifies while now < iat+T and fails from iat+T on. Verify never returns an
error: every rejection (bad signature, unexpected algorithm, no expiry,
malformed input) is reported as ok=false so callers cannot leak the reason.

The clock is injectable (github.com/benbjohnson/clock) so expiry can be
tested without sleeping.

# ID Generation

Record IDs are random UUIDv4 strings:

	id := auth.GenerateID()
*/
package auth
