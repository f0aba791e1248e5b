// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package middleware provides HTTP middleware and response helpers:
// request logging, CORS, JSON encode/decode helpers, and the
// RequireAdmin guard that protects /admin/* routes with a JWT
// session token.
package middleware
