package domain

import (
	"fmt"
	"time"
)

// windowLayout is the compact hour-resolution stamp the KNMI service expects.
const windowLayout = "2006010215"

// Window bounds a weather query at hour resolution.
type Window struct {
	Start string // YYYYMMDDHH of the hour containing the session start
	End   string // YYYYMMDDHH of the hour containing start+duration
}

// ObservationWindow derives the weather query window from a session's local
// start timestamp and its duration in seconds. Both bounds truncate to the
// containing hour; no timezone conversion is performed, the input is treated
// as already being in the weather service's reference frame. A zero or
// negative duration collapses both bounds to the start hour, which is still
// a valid single-hour query.
func ObservationWindow(startLocal string, durationSec int64) (Window, error) {
	start, err := parseLocalTime(startLocal)
	if err != nil {
		return Window{}, fmt.Errorf("parse session start %q: %w", startLocal, err)
	}

	end := start
	if durationSec > 0 {
		end = start.Add(time.Duration(durationSec) * time.Second)
	}

	return Window{
		Start: start.Truncate(time.Hour).Format(windowLayout),
		End:   end.Truncate(time.Hour).Format(windowLayout),
	}, nil
}
