// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the relational schema and the storage conventions
shared by every query in the codebase.

The schema sticks to the dialect subset that SQLite and PostgreSQL
interpret identically, so the same statements run against both
drivers (modernc.org/sqlite and lib/pq):

  - ids are TEXT, generated in Go via the auth package; no serial
    columns
  - candidate ids are plain INTEGER ballot numbers supplied by the
    admin (0 is reserved for kotak kosong)
  - timestamps are RFC3339 TEXT written through FormatTime and read
    through ParseTime
  - placeholders are $1..$n in order of first occurrence

CreateSchema is idempotent and runs at startup and at the top of
every test.
*/
package db
