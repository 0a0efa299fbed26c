package dateutil

import "time"

// Now returns the current time in UTC without the monotonic clock reading,
// so values survive a JSON round trip unchanged.
func Now() time.Time {
	return time.Now().UTC().Round(0)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// PreviousDay returns midnight of the day before t's day. AddDate keeps this
// correct across daylight saving changes.
func PreviousDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -1)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// DayKey identifies the calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t.In(loc))
}
