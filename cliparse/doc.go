// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cliparse parses server configuration from CLI flags with
// environment-variable fallbacks. SMTP settings are read directly
// from the environment by the email package and are optional;
// everything security-relevant here (JWT_SECRET) is required.
package cliparse
