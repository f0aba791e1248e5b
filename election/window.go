// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "time"

// WindowDuration is how long a voter has to cast a ballot after first
// entering the voting screen.
const WindowDuration = 5 * time.Minute

// Window is a voter's personal voting window, anchored to the first
// time they entered the ballot. The anchor is recorded server-side
// exactly once, so refreshing or reopening the page never restarts
// the countdown: the deadline is absolute.
type Window struct {
	Entry time.Time
}

// Deadline is the instant the window closes.
func (w Window) Deadline() time.Time {
	return w.Entry.Add(WindowDuration)
}

// Remaining is the time left before the deadline, clamped to zero.
func (w Window) Remaining(now time.Time) time.Duration {
	r := w.Deadline().Sub(now)
	if r < 0 {
		return 0
	}
	return r
}

// Expired reports whether the deadline has passed. The deadline
// instant itself counts as expired, mirroring the end bound of the
// election clock.
func (w Window) Expired(now time.Time) bool {
	return !now.Before(w.Deadline())
}
