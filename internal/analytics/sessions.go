package analytics

import (
	"sort"
	"time"
)

// SessionGap is the idle time that splits a conversation into separate sessions.
const SessionGap = 30 * time.Minute

// Session is a run of messages with no gap longer than SessionGap.
type Session struct {
	Start    time.Time
	End      time.Time
	Messages int
}

// Minutes is the session span in minutes.
func (s Session) Minutes() float64 {
	return s.End.Sub(s.Start).Minutes()
}

// SplitSessions breaks one conversation's timestamps on idle gaps.
func SplitSessions(times []time.Time) []Session {
	if len(times) == 0 {
		return nil
	}
	sorted := make([]time.Time, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var sessions []Session
	cur := Session{Start: sorted[0], End: sorted[0], Messages: 1}
	for _, t := range sorted[1:] {
		if t.Sub(cur.End) > SessionGap {
			sessions = append(sessions, cur)
			cur = Session{Start: t, End: t, Messages: 1}
			continue
		}
		cur.End = t
		cur.Messages++
	}
	return append(sessions, cur)
}

// ActiveMinutes sums session spans. A lone message contributes zero.
func ActiveMinutes(times []time.Time) float64 {
	var total float64
	for _, s := range SplitSessions(times) {
		total += s.Minutes()
	}
	return total
}
