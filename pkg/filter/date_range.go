package filter

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const DateLayout = time.DateOnly

var ErrInvalidDate = errors.New("invalid date")

// DateRange is an inclusive range of calendar days. A zero Start or End leaves
// that side unbounded. A range whose Start is after its End matches nothing.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange truncates both bounds to midnight in their own location.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: startOfDay(start), End: startOfDay(end)}
}

// ParseDateRange parses two YYYY-MM-DD values in loc; an empty value is unbounded.
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	var r DateRange
	var err error
	if r.Start, err = parseDate(start, loc); err != nil {
		return DateRange{}, err
	}
	if r.End, err = parseDate(end, loc); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, value)
	}
	return t, nil
}

func (r DateRange) Empty() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End)
}

// Bounds returns the half-open time interval [from, to) covered by the range.
// Unbounded sides are returned as zero times.
func (r DateRange) Bounds() (from time.Time, to time.Time) {
	if !r.Start.IsZero() {
		from = startOfDay(r.Start)
	}
	if !r.End.IsZero() {
		to = startOfDay(r.End).AddDate(0, 0, 1)
	}
	return from, to
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.Empty() {
		return false
	}
	from, to := r.Bounds()
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// Query encodes the range as start/end query parameters, omitting open sides.
func (r DateRange) Query() url.Values {
	q := url.Values{}
	if !r.Start.IsZero() {
		q.Set("start", r.Start.Format(DateLayout))
	}
	if !r.End.IsZero() {
		q.Set("end", r.End.Format(DateLayout))
	}
	return q
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s]", formatBound(r.Start), formatBound(r.End))
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.Format(DateLayout)
}

func startOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
