package analytics

import (
	"sort"
	"time"
)

// Weekdays is the fixed row order of the activity matrix, whatever the locale.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ActivityMatrix holds token sums per (weekday, hour). Tokens[d][h] is the
// cell for Days[d] and Hours[h]. Hours lists only hours present in the data.
type ActivityMatrix struct {
	Days   []string `json:"days"`
	Hours  []int    `json:"hours"`
	Tokens [][]int  `json:"tokens"`
}

// Empty reports whether the matrix has no rows.
func (m ActivityMatrix) Empty() bool { return len(m.Days) == 0 }

// At returns the cell for a weekday name and hour, or 0 when absent.
func (m ActivityMatrix) At(day string, hour int) int {
	for d, name := range m.Days {
		if name != day {
			continue
		}
		for h, hr := range m.Hours {
			if hr == hour {
				return m.Tokens[d][h]
			}
		}
	}
	return 0
}

// ActivityHeatmap pivots tokens into a Monday-first weekday x hour matrix.
// Missing cells are 0 and there are always seven rows for a non-empty row set.
func ActivityHeatmap(rows []Row) ActivityMatrix {
	if len(rows) == 0 {
		return ActivityMatrix{}
	}

	var cells [7][24]int
	var present [24]bool
	for _, r := range rows {
		d := weekdayIndex(r.CreatedAt.Weekday())
		cells[d][r.Hour] += r.Tokens
		present[r.Hour] = true
	}

	var hours []int
	for h, ok := range present {
		if ok {
			hours = append(hours, h)
		}
	}
	sort.Ints(hours)

	m := ActivityMatrix{
		Days:   append([]string(nil), Weekdays...),
		Hours:  hours,
		Tokens: make([][]int, len(Weekdays)),
	}
	for d := range Weekdays {
		row := make([]int, len(hours))
		for i, h := range hours {
			row[i] = cells[d][h]
		}
		m.Tokens[d] = row
	}
	return m
}

// weekdayIndex maps time.Weekday (Sunday = 0) to a Monday-first index.
func weekdayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}
