package internal

import "time"

// Window is an inclusive unix-second range covering exactly one local
// calendar day, plus the YYYY-MM-DD label used for report folders.
// Both bounds and the label are derived from the same reference
// instant, so message filtering and folder naming can never disagree.
type Window struct {
	Start int64  // 00:00:00.000 local, unix seconds
	End   int64  // 23:59:59.999 local, unix seconds (floored)
	Date  string // YYYY-MM-DD
}

// PreviousDay computes the window for the full local calendar day
// before now. Capture now once per run and thread the window through;
// recomputing near midnight would race the day rollover.
func PreviousDay(now time.Time) Window {
	y := now.AddDate(0, 0, -1)
	loc := now.Location()

	start := time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, loc)
	end := time.Date(y.Year(), y.Month(), y.Day(), 23, 59, 59, int(999*time.Millisecond), loc)

	return Window{
		Start: start.Unix(),
		End:   end.Unix(),
		Date:  start.Format("2006-01-02"),
	}
}

// Contains reports whether a message timestamp falls inside the window.
// A nil timestamp is never in range. Bounds are inclusive on both ends.
func (w Window) Contains(ts *int64) bool {
	if ts == nil {
		return false
	}
	return *ts >= w.Start && *ts <= w.End
}
