package school

import "time"

// DayType classifies a calendar date for series breakdowns and filters.
type DayType string

const (
	DayTypeSchoolDay DayType = "School Day"
	DayTypeWeekend   DayType = "Weekend"
	DayTypeHoliday   DayType = "Holiday"
)

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains tells if a date falls within the range.
func (r DateRange) Contains(date time.Time) bool {
	date = day(date)
	return !date.Before(day(r.Start)) && !date.After(day(r.End))
}

// Days returns the number of dates in the range.
func (r DateRange) Days() int {
	return int(day(r.End).Sub(day(r.Start)).Hours()/24) + 1
}

// Calendar holds a school's holiday ranges and heating season. Weekends
// are implicit; any non-weekend date outside a holiday is a school day.
type Calendar struct {
	holidays []DateRange

	// heating season months, October..April by default
	heatingStartMonth time.Month
	heatingEndMonth   time.Month
}

// CalendarOption configures a calendar.
type CalendarOption func(*Calendar)

// WithHeatingSeason overrides the default October..April heating season.
func WithHeatingSeason(start, end time.Month) CalendarOption {
	return func(c *Calendar) {
		c.heatingStartMonth = start
		c.heatingEndMonth = end
	}
}

// NewCalendar constructs a calendar from holiday ranges.
func NewCalendar(holidays []DateRange, opts ...CalendarOption) *Calendar {
	c := &Calendar{
		holidays:          holidays,
		heatingStartMonth: time.October,
		heatingEndMonth:   time.April,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Holiday tells if a date falls in a holiday range.
func (c *Calendar) Holiday(date time.Time) bool {
	for _, r := range c.holidays {
		if r.Contains(date) {
			return true
		}
	}
	return false
}

// Weekend tells if a date is a Saturday or Sunday.
func (c *Calendar) Weekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DayType classifies a date. Holidays win over weekends so a Saturday in
// the summer break counts as holiday, matching how occupancy is reported.
func (c *Calendar) DayType(date time.Time) DayType {
	switch {
	case c.Holiday(date):
		return DayTypeHoliday
	case c.Weekend(date):
		return DayTypeWeekend
	default:
		return DayTypeSchoolDay
	}
}

// Occupied tells if a date is a school day.
func (c *Calendar) Occupied(date time.Time) bool {
	return c.DayType(date) == DayTypeSchoolDay
}

// InHeatingSeason tells if the date's month falls in the heating season,
// which wraps across the new year by default.
func (c *Calendar) InHeatingSeason(date time.Time) bool {
	m := date.Month()
	if c.heatingStartMonth <= c.heatingEndMonth {
		return m >= c.heatingStartMonth && m <= c.heatingEndMonth
	}
	return m >= c.heatingStartMonth || m <= c.heatingEndMonth
}

// AcademicYearStart returns the 1st of September at or before the date.
func AcademicYearStart(date time.Time) time.Time {
	year := date.Year()
	if date.Month() < time.September {
		year--
	}
	return time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
