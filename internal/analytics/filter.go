package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// AllTime is the year option meaning "no year filter".
const AllTime = "All time"

// Filter narrows the row set before aggregation.
type Filter struct {
	Year  int    // 0 means all years
	Start string // inclusive YYYY-MM-DD, empty means unbounded
	End   string // inclusive YYYY-MM-DD, empty means unbounded
}

// FilterError reports an unparseable filter value.
type FilterError struct {
	Field string
	Value string
	Err   error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid %s filter %q: %v", e.Field, e.Value, e.Err)
}

func (e *FilterError) Unwrap() error { return e.Err }

// ParseFilter builds a Filter from user-facing strings. An empty year or
// "All time" means no year filter.
func ParseFilter(year, start, end string) (Filter, error) {
	f := Filter{Start: start, End: end}
	if year != "" && year != AllTime {
		y, err := strconv.Atoi(year)
		if err != nil {
			return Filter{}, &FilterError{Field: "year", Value: year, Err: err}
		}
		f.Year = y
	}
	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// Validate checks the date bounds.
func (f Filter) Validate() error {
	for _, b := range []struct{ field, value string }{{"start", f.Start}, {"end", f.End}} {
		if b.value == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, b.value); err != nil {
			return &FilterError{Field: b.field, Value: b.value, Err: err}
		}
	}
	return nil
}

// IsZero reports whether the filter keeps every row.
func (f Filter) IsZero() bool {
	return f.Year == 0 && f.Start == "" && f.End == ""
}

// YearLabel is the label used in reports and download file names.
func (f Filter) YearLabel() string {
	if f.Year == 0 {
		return AllTime
	}
	return strconv.Itoa(f.Year)
}

// Apply returns the rows that pass the filter. The input is not modified.
func (f Filter) Apply(rows []Row) []Row {
	if f.IsZero() {
		out := make([]Row, len(rows))
		copy(out, rows)
		return out
	}
	var out []Row
	for _, r := range rows {
		if f.Year != 0 && r.Year != f.Year {
			continue
		}
		// Dates share one layout, so string order is calendar order.
		if f.Start != "" && r.Date < f.Start {
			continue
		}
		if f.End != "" && r.Date > f.End {
			continue
		}
		out = append(out, r)
	}
	return out
}

// YearOptions returns AllTime followed by the distinct years present, ascending.
func YearOptions(rows []Row) []string {
	seen := make(map[int]bool)
	var years []int
	for _, r := range rows {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)

	out := []string{AllTime}
	for _, y := range years {
		out = append(out, strconv.Itoa(y))
	}
	return out
}
