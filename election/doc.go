// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the election lifecycle core: the election
clock, the voter lifecycle derivation, and the per-voter voting
window. Everything here is pure - callers inject the current time -
so the package has no I/O and is trivially testable.

# Election Clock

Classify places a wall-clock instant against the configured window:

	phase := election.Classify(time.Now(), start, end)

Phases are PhasePreStart, PhaseActive, PhaseEnded. The start bound is
inclusive and the end bound exclusive. Unset bounds fail open to
Active; that is a deliberate policy for missing configuration, not a
default to lean on.

# Voter Lifecycle

DeriveState maps (voter record, phase) to the one legal screen:

	state := election.DeriveState(rec, phase)

The derivation is a pure function with no hidden memory, so it is
idempotent across reloads. Voted voters are absorbed into StateVoted;
everyone else collapses to StateEnded once the clock passes the end
bound.

# Voting Window

Window models the 5-minute per-voter deadline, anchored to the first
entry into the voting screen:

	w := election.Window{Entry: entry}
	w.Remaining(now) // clamped to >= 0
	w.Expired(now)

The sweeper package turns expired windows into automatic kotak kosong
votes.
*/
package election
