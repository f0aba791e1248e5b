// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package sweeper enforces the voting window from the server side.

A voter who opens the ballot screen gets a 5-minute window. If the
window elapses without a ballot, the sweeper casts an automatic kotak
kosong vote for them (source "timeout"), using the same atomic
has_voted flip as a manual ballot, so a late manual submission and the
sweep can never both land.

The sweeper also sends each approved voter a reminder mail with their
voting token once, within 24 hours of the election start.

Run blocks until its context is cancelled; SweepAbstain and
SendReminders are single passes and can be driven directly.
*/
package sweeper
