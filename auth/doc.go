// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and credential checks.

# Secret Keys

Each poll carries a creator credential generated at creation time:

	key, err := auth.GenerateSecretKey() // 128-bit random, hex

ValidateSecretKey compares a provided key against the stored one in
constant time and returns ErrInvalidSecretKey on mismatch.

# Voter Tokens

GenerateVoterToken creates the opaque per-browser identifier used to
de-duplicate votes (192 bits, URL-safe base64).

# Device Fingerprints

FingerprintDevice hashes the client IP and user agent into a short
opaque key for the abuse limiter. It is intentionally independent of
the voter token: clearing a browser's storage mints a new voter token
but not a new fingerprint.
*/
package auth
