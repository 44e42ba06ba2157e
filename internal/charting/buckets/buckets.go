// Package buckets maps chart periods onto labelled x-axis buckets for
// every supported bucketing granularity.
package buckets

import (
	"fmt"
	"sort"
	"time"

	charting "energy-dashboard/internal/charting/domain"
	ledger "energy-dashboard/internal/ledger/domain"
	school "energy-dashboard/internal/school/domain"
)

// Bucketor describes the x axis of one aggregation slice: ordered bucket
// labels, the date range each bucket covers, and the mapping from a
// reading's position to its bucket.
type Bucketor interface {
	Labels() []string
	Ranges() []school.DateRange

	// DayIndex locates a whole day. The second return is false for dates
	// outside every bucket.
	DayIndex(date time.Time) (int, bool)

	// HalfHourIndex locates one half-hour sample. Day-granular bucketors
	// route it to the owning day's bucket.
	HalfHourIndex(date time.Time, halfHour int) (int, bool)

	// HalfHourly tells if values must be fed in per half hour rather than
	// as day totals.
	HalfHourly() bool
}

// New builds the bucketor for an x-axis granularity over a period.
func New(axis charting.XAxis, period school.DateRange, calendar *school.Calendar) (Bucketor, error) {
	switch axis {
	case charting.XAxisYear:
		return newYearBuckets(period), nil
	case charting.XAxisAcademicYear:
		return newAcademicYearBuckets(period), nil
	case charting.XAxisMonth:
		return newMonthBuckets(period), nil
	case charting.XAxisWeek:
		return newWeekBuckets(period), nil
	case charting.XAxisDay:
		return newDayBuckets(period), nil
	case charting.XAxisDayOfWeek:
		return newDayOfWeekBuckets(period), nil
	case charting.XAxisIntraday:
		return newIntradayBuckets(period), nil
	case charting.XAxisDatetime:
		return newDatetimeBuckets(period), nil
	case charting.XAxisNoDateBuckets:
		return newSingleBucket(period), nil
	default:
		return nil, fmt.Errorf("%w: unknown x axis %q", charting.ErrBadChartSpecification, axis)
	}
}

// rangeBuckets is the shared day-granular implementation: contiguous,
// ordered, non-overlapping date ranges located by binary search.
type rangeBuckets struct {
	labels []string
	ranges []school.DateRange
}

func (b *rangeBuckets) Labels() []string           { return b.labels }
func (b *rangeBuckets) Ranges() []school.DateRange { return b.ranges }
func (b *rangeBuckets) HalfHourly() bool           { return false }

func (b *rangeBuckets) DayIndex(date time.Time) (int, bool) {
	day := ledger.Day(date)
	i := sort.Search(len(b.ranges), func(i int) bool {
		return !b.ranges[i].End.Before(day)
	})
	if i < len(b.ranges) && b.ranges[i].Contains(day) {
		return i, true
	}
	return 0, false
}

func (b *rangeBuckets) HalfHourIndex(date time.Time, _ int) (int, bool) {
	return b.DayIndex(date)
}

// newYearBuckets cuts the period into twelve-month windows counting back
// from its end, so the most recent year is always whole. A leading
// partial window is kept so no data is dropped.
func newYearBuckets(period school.DateRange) *rangeBuckets {
	b := &rangeBuckets{}
	end := ledger.Day(period.End)
	start := ledger.Day(period.Start)
	for end.Compare(start) >= 0 {
		windowStart := end.AddDate(-1, 0, 1)
		if windowStart.Before(start) {
			windowStart = start
		}
		r := school.DateRange{Start: windowStart, End: end}
		b.ranges = append([]school.DateRange{r}, b.ranges...)
		b.labels = append([]string{yearLabel(r)}, b.labels...)
		end = windowStart.AddDate(0, 0, -1)
	}
	return b
}

func yearLabel(r school.DateRange) string {
	return r.Start.Format("Jan 06") + " - " + r.End.Format("Jan 06")
}

// newAcademicYearBuckets cuts the period at each 1 September boundary.
func newAcademicYearBuckets(period school.DateRange) *rangeBuckets {
	b := &rangeBuckets{}
	start := ledger.Day(period.Start)
	periodEnd := ledger.Day(period.End)
	for start.Compare(periodEnd) <= 0 {
		yearStart := school.AcademicYearStart(start)
		yearEnd := yearStart.AddDate(1, 0, -1)
		r := school.DateRange{Start: maxDate(yearStart, start), End: minDate(yearEnd, periodEnd)}
		b.ranges = append(b.ranges, r)
		b.labels = append(b.labels, fmt.Sprintf("%d/%d", yearStart.Year(), yearStart.Year()+1))
		start = yearEnd.AddDate(0, 0, 1)
	}
	return b
}

// newMonthBuckets cuts the period at calendar month boundaries.
func newMonthBuckets(period school.DateRange) *rangeBuckets {
	b := &rangeBuckets{}
	start := ledger.Day(period.Start)
	periodEnd := ledger.Day(period.End)
	for start.Compare(periodEnd) <= 0 {
		monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		monthEnd := monthStart.AddDate(0, 1, -1)
		r := school.DateRange{Start: start, End: minDate(monthEnd, periodEnd)}
		b.ranges = append(b.ranges, r)
		b.labels = append(b.labels, monthStart.Format("Jan 2006"))
		start = monthEnd.AddDate(0, 0, 1)
	}
	return b
}

// newWeekBuckets cuts the period into seven-day windows counting back
// from its end; a leading window shorter than seven days is dropped so
// every bucket compares like for like.
func newWeekBuckets(period school.DateRange) *rangeBuckets {
	b := &rangeBuckets{}
	end := ledger.Day(period.End)
	start := ledger.Day(period.Start)
	for {
		windowStart := end.AddDate(0, 0, -6)
		if windowStart.Before(start) {
			break
		}
		r := school.DateRange{Start: windowStart, End: end}
		b.ranges = append([]school.DateRange{r}, b.ranges...)
		b.labels = append([]string{windowStart.Format("2 Jan 06")}, b.labels...)
		end = windowStart.AddDate(0, 0, -1)
	}
	return b
}

// newDayBuckets gives every date its own bucket.
func newDayBuckets(period school.DateRange) *rangeBuckets {
	b := &rangeBuckets{}
	for d := ledger.Day(period.Start); d.Compare(ledger.Day(period.End)) <= 0; d = d.AddDate(0, 0, 1) {
		b.ranges = append(b.ranges, school.DateRange{Start: d, End: d})
		b.labels = append(b.labels, d.Format("Mon 2 Jan 06"))
	}
	return b
}

// dayOfWeekBuckets folds every date in the period onto seven weekday
// buckets, Sunday first.
type dayOfWeekBuckets struct {
	period school.DateRange
	labels []string
	ranges []school.DateRange
}

func newDayOfWeekBuckets(period school.DateRange) *dayOfWeekBuckets {
	b := &dayOfWeekBuckets{period: period}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		b.labels = append(b.labels, wd.String())
		b.ranges = append(b.ranges, school.DateRange{Start: ledger.Day(period.Start), End: ledger.Day(period.End)})
	}
	return b
}

func (b *dayOfWeekBuckets) Labels() []string           { return b.labels }
func (b *dayOfWeekBuckets) Ranges() []school.DateRange { return b.ranges }
func (b *dayOfWeekBuckets) HalfHourly() bool           { return false }

func (b *dayOfWeekBuckets) DayIndex(date time.Time) (int, bool) {
	day := ledger.Day(date)
	if !b.period.Contains(day) {
		return 0, false
	}
	return int(day.Weekday()), true
}

func (b *dayOfWeekBuckets) HalfHourIndex(date time.Time, _ int) (int, bool) {
	return b.DayIndex(date)
}

// intradayBuckets folds every reading onto 48 time-of-day buckets.
type intradayBuckets struct {
	period school.DateRange
	labels []string
	ranges []school.DateRange
}

func newIntradayBuckets(period school.DateRange) *intradayBuckets {
	b := &intradayBuckets{period: period}
	for hh := 0; hh < ledger.HalfHoursPerDay; hh++ {
		b.labels = append(b.labels, halfHourLabel(hh))
		b.ranges = append(b.ranges, school.DateRange{Start: ledger.Day(period.Start), End: ledger.Day(period.End)})
	}
	return b
}

func halfHourLabel(halfHour int) string {
	return fmt.Sprintf("%02d:%02d", halfHour/2, (halfHour%2)*30)
}

func (b *intradayBuckets) Labels() []string           { return b.labels }
func (b *intradayBuckets) Ranges() []school.DateRange { return b.ranges }
func (b *intradayBuckets) HalfHourly() bool           { return true }

func (b *intradayBuckets) DayIndex(time.Time) (int, bool) { return 0, false }

func (b *intradayBuckets) HalfHourIndex(date time.Time, halfHour int) (int, bool) {
	if halfHour < 0 || halfHour >= ledger.HalfHoursPerDay {
		return 0, false
	}
	if !b.period.Contains(ledger.Day(date)) {
		return 0, false
	}
	return halfHour, true
}

// datetimeBuckets gives every half hour of the period its own bucket, in
// chronological order.
type datetimeBuckets struct {
	start  time.Time
	count  int
	labels []string
	ranges []school.DateRange
}

func newDatetimeBuckets(period school.DateRange) *datetimeBuckets {
	start := ledger.Day(period.Start)
	days := period.Days()
	b := &datetimeBuckets{start: start, count: days * ledger.HalfHoursPerDay}
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		for hh := 0; hh < ledger.HalfHoursPerDay; hh++ {
			b.labels = append(b.labels, day.Format("2 Jan 06")+" "+halfHourLabel(hh))
			b.ranges = append(b.ranges, school.DateRange{Start: day, End: day})
		}
	}
	return b
}

func (b *datetimeBuckets) Labels() []string           { return b.labels }
func (b *datetimeBuckets) Ranges() []school.DateRange { return b.ranges }
func (b *datetimeBuckets) HalfHourly() bool           { return true }

func (b *datetimeBuckets) DayIndex(time.Time) (int, bool) { return 0, false }

func (b *datetimeBuckets) HalfHourIndex(date time.Time, halfHour int) (int, bool) {
	if halfHour < 0 || halfHour >= ledger.HalfHoursPerDay {
		return 0, false
	}
	days := int(ledger.Day(date).Sub(b.start).Hours() / 24)
	index := days*ledger.HalfHoursPerDay + halfHour
	if index < 0 || index >= b.count {
		return 0, false
	}
	return index, true
}

// newSingleBucket folds the whole period onto one bucket, for pie charts
// and totals.
func newSingleBucket(period school.DateRange) *rangeBuckets {
	r := school.DateRange{Start: ledger.Day(period.Start), End: ledger.Day(period.End)}
	return &rangeBuckets{
		labels: []string{r.Start.Format("2 Jan 06") + " - " + r.End.Format("2 Jan 06")},
		ranges: []school.DateRange{r},
	}
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
