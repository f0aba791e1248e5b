// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "time"

// Phase is the temporal phase of the election as a whole.
type Phase int

const (
	PhasePreStart Phase = iota
	PhaseActive
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhasePreStart:
		return "pre_start"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// Classify places now against the configured voting window.
// The start boundary is inclusive, the end boundary exclusive:
// now == start is Active, now == end is Ended.
//
// An unset (zero) bound fails open: with no configuration at all the
// election counts as Active. Blocking every voter because an admin
// never saved the window is the worse failure mode; unreachable
// runtime state is handled fail-closed by the callers instead.
func Classify(now, start, end time.Time) Phase {
	if !end.IsZero() && !now.Before(end) {
		return PhaseEnded
	}
	if !start.IsZero() && now.Before(start) {
		return PhasePreStart
	}
	return PhaseActive
}

// settingTimeLayouts are the accepted forms for stored start/end
// values: RFC3339 and the format an HTML datetime-local input emits.
var settingTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

// ParseSettingTime parses an admin-supplied startTime/endTime value.
// An empty value parses to the zero time (unset bound).
func ParseSettingTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	var err error
	for _, layout := range settingTimeLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
