package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Freq is the width of a time bucket.
type Freq string

const (
	Daily   Freq = "D"
	Weekly  Freq = "W"
	Monthly Freq = "M"
)

// ParseFreq accepts D/W/M or day/week/month. Empty means Daily.
func ParseFreq(s string) (Freq, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "d", "day", "daily":
		return Daily, nil
	case "w", "week", "weekly":
		return Weekly, nil
	case "m", "month", "monthly":
		return Monthly, nil
	}
	return "", &FilterError{Field: "freq", Value: s, Err: fmt.Errorf("want D, W or M")}
}

// Bucket returns the label of the bucket containing t, in t's location.
// Weeks start on Monday.
func (f Freq) Bucket(t time.Time) string {
	y, m, d := t.Date()
	switch f {
	case Weekly:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location()).Format(DateLayout)
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).Format(DateLayout)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Format(DateLayout)
	}
}

// TokenPoint is one (bucket, role) cell of the token time series.
type TokenPoint struct {
	Time   string `json:"time"`
	Role   string `json:"role"`
	Tokens int    `json:"tokens"`
}

// TimePoint is one bucket of the active-time series.
type TimePoint struct {
	Time          string  `json:"time"`
	ActiveMinutes float64 `json:"active_minutes"`
}

// TokensOverTime sums tokens per role per bucket. Only buckets with activity
// appear. Rows are ordered by role, then time.
func TokensOverTime(rows []Row, freq Freq) []TokenPoint {
	if len(rows) == 0 {
		return nil
	}
	type key struct{ role, bucket string }
	sums := make(map[key]int)
	for _, r := range rows {
		sums[key{r.Role, freq.Bucket(r.CreatedAt)}] += r.Tokens
	}
	out := make([]TokenPoint, 0, len(sums))
	for k, n := range sums {
		out = append(out, TokenPoint{Time: k.bucket, Role: k.role, Tokens: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// TimeOverTime sums conversation active minutes by the bucket of each conversation's first message.
func TimeOverTime(conv []ConversationSummary, freq Freq) []TimePoint {
	if len(conv) == 0 {
		return nil
	}
	sums := make(map[string]float64)
	for _, c := range conv {
		sums[freq.Bucket(c.FirstAt)] += c.ActiveMinutes
	}
	out := make([]TimePoint, 0, len(sums))
	for b, m := range sums {
		out = append(out, TimePoint{Time: b, ActiveMinutes: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}
