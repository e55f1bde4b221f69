package models

import "time"

// TimeWindow is an inclusive [Start, End] interval anchored at "now"
type TimeWindow struct {
	Start time.Time
	End   time.Time
	Days  int
}

// WindowEndingAt builds a trailing window of the given number of days ending
// at now (inclusive on both ends)
func WindowEndingAt(now time.Time, days int) TimeWindow {
	return TimeWindow{
		Start: now.AddDate(0, 0, -days),
		End:   now,
		Days:  days,
	}
}

// Contains reports whether t falls inside the window
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// FilterEvents returns the events whose timestamps fall inside the window,
// preserving input order
func (w TimeWindow) FilterEvents(events []Event) []Event {
	var result []Event
	for _, e := range events {
		if w.Contains(e.Timestamp) {
			result = append(result, e)
		}
	}
	return result
}

// DistinctDays counts the distinct calendar days covered by the events
func DistinctDays(events []Event) int {
	days := make(map[string]bool)
	for _, e := range events {
		days[e.Timestamp.Format("2006-01-02")] = true
	}
	return len(days)
}

// DaysSince returns fractional days elapsed from t to now, floored at 0
func DaysSince(t, now time.Time) float64 {
	d := now.Sub(t).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
}

// LatestTimestamp returns the most recent event timestamp, or the zero time
// for an empty slice
func LatestTimestamp(events []Event) time.Time {
	var latest time.Time
	for _, e := range events {
		if e.Timestamp.After(latest) {
			latest = e.Timestamp
		}
	}
	return latest
}

// SumStars totals the StarsDelta over the events
func SumStars(events []Event) int {
	total := 0
	for _, e := range events {
		total += e.StarsDelta
	}
	return total
}

// EventIDs extracts ids in input order
func EventIDs(events []Event) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}
