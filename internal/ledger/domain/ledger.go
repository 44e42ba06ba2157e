package ledger

import (
	"fmt"
	"sort"
	"time"
)

// Metric selects which per-half-hour quantity a read accessor returns.
type Metric string

const (
	MetricKWH            Metric = "kwh"
	MetricEconomicCost   Metric = "economic_cost"
	MetricAccountingCost Metric = "accounting_cost"
	MetricCO2            Metric = "co2"
)

// IsValid checks the metric is one of the supported values.
func (m Metric) IsValid() bool {
	switch m {
	case MetricKWH, MetricEconomicCost, MetricAccountingCost, MetricCO2:
		return true
	default:
		return false
	}
}

// Schedule yields derived per-half-hour values (cost, CO2) computed on top
// of the raw kWh data. Implementations are expected to compute lazily and
// cache once built.
type Schedule interface {
	DayValuesX48(date time.Time) ([HalfHoursPerDay]float64, error)
	DayTotal(date time.Time) (float64, error)
}

// Ledger stores one energy reading per half-hour slot per date over a
// continuous date range. It is mutated only by Add until the carbon
// schedule is attached, after which it is locked and effectively immutable.
// No internal synchronisation is provided; callers sequence appends.
type Ledger struct {
	meterID string

	days      map[time.Time]*DayRecord
	startDate time.Time
	endDate   time.Time

	// boundary overrides from ResolveLongGapBoundary; stored readings are
	// never mutated, only the logical range exposed to consumers.
	overrideStart time.Time
	overrideEnd   time.Time

	dayTotalCache map[time.Time]float64

	economicTariff   Schedule
	accountingTariff Schedule
	carbon           Schedule

	locked bool
}

// NewLedger constructs an empty ledger for one meter.
func NewLedger(meterID string) *Ledger {
	return &Ledger{
		meterID:       meterID,
		days:          make(map[time.Time]*DayRecord),
		dayTotalCache: make(map[time.Time]float64),
	}
}

// NewConstantLedger builds a ledger holding the same 48 values for every
// date in [startDate, endDate]. Useful for synthetic data and tests.
func NewConstantLedger(meterID string, startDate, endDate time.Time, kwhX48 []float64) (*Ledger, error) {
	l := NewLedger(meterID)
	for date := Day(startDate); !date.After(Day(endDate)); date = date.AddDate(0, 0, 1) {
		rec, err := NewDayRecord(date, KindOriginal, kwhX48)
		if err != nil {
			return nil, err
		}
		if err := l.Add(date, rec); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// MeterID returns the owning meter's identifier.
func (l *Ledger) MeterID() string { return l.meterID }

// Locked tells if the ledger has been frozen by carbon finalisation.
func (l *Ledger) Locked() bool { return l.locked }

// Add appends one day of readings, extending the tracked date range.
func (l *Ledger) Add(date time.Time, record *DayRecord) error {
	if l.locked {
		return ErrLedgerLocked
	}
	if record == nil {
		return ErrNilRecord
	}
	date = Day(date)
	if !date.Equal(record.Date()) {
		return fmt.Errorf("%w: %s v. %s", ErrDateMismatch,
			date.Format("2006-01-02"), record.Date().Format("2006-01-02"))
	}

	if l.startDate.IsZero() || date.Before(l.startDate) {
		l.startDate = date
	}
	if l.endDate.IsZero() || date.After(l.endDate) {
		l.endDate = date
	}

	l.days[date] = record
	delete(l.dayTotalCache, date)
	return nil
}

// Delete removes one day of readings. The tracked range is left unchanged.
func (l *Ledger) Delete(date time.Time) error {
	if l.locked {
		return ErrLedgerLocked
	}
	date = Day(date)
	delete(l.days, date)
	delete(l.dayTotalCache, date)
	return nil
}

// HasDate tells whether the ledger holds readings for a date.
func (l *Ledger) HasDate(date time.Time) bool {
	_, ok := l.days[Day(date)]
	return ok
}

// Day returns the stored record for a date.
func (l *Ledger) Day(date time.Time) (*DayRecord, error) {
	rec, ok := l.days[Day(date)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingDate, Day(date).Format("2006-01-02"))
	}
	return rec, nil
}

// StartDate returns the logical start of the ledger, honouring any
// long-gap boundary override.
func (l *Ledger) StartDate() time.Time {
	if !l.overrideStart.IsZero() {
		return l.overrideStart
	}
	return l.startDate
}

// EndDate returns the logical end of the ledger, honouring any long-gap
// boundary override.
func (l *Ledger) EndDate() time.Time {
	if !l.overrideEnd.IsZero() {
		return l.overrideEnd
	}
	return l.endDate
}

// Len returns the number of stored days.
func (l *Ledger) Len() int { return len(l.days) }

// SetEconomicTariff attaches the economic cost schedule.
func (l *Ledger) SetEconomicTariff(schedule Schedule) { l.economicTariff = schedule }

// SetAccountingTariff attaches the accounting cost schedule.
func (l *Ledger) SetAccountingTariff(schedule Schedule) { l.accountingTariff = schedule }

// SetCarbonSchedule attaches the carbon schedule and locks the ledger
// against further appends.
func (l *Ledger) SetCarbonSchedule(schedule Schedule) {
	l.carbon = schedule
	l.locked = true
}

func (l *Ledger) schedule(metric Metric) (Schedule, error) {
	var s Schedule
	switch metric {
	case MetricEconomicCost:
		s = l.economicTariff
	case MetricAccountingCost:
		s = l.accountingTariff
	case MetricCO2:
		s = l.carbon
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMetric, metric)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSchedule, metric)
	}
	return s, nil
}

// Value returns one half-hour of data in the requested metric.
func (l *Ledger) Value(date time.Time, halfHour int, metric Metric) (float64, error) {
	if halfHour < 0 || halfHour >= HalfHoursPerDay {
		return 0, ErrBadHalfHourIndex
	}
	if metric == MetricKWH {
		rec, err := l.Day(date)
		if err != nil {
			return 0, err
		}
		return rec.KWH(halfHour)
	}
	values, err := l.DayValuesX48(date, metric)
	if err != nil {
		return 0, err
	}
	return values[halfHour], nil
}

// DayValuesX48 returns one whole day in the requested metric.
func (l *Ledger) DayValuesX48(date time.Time, metric Metric) ([HalfHoursPerDay]float64, error) {
	if metric == MetricKWH {
		rec, err := l.Day(date)
		if err != nil {
			return [HalfHoursPerDay]float64{}, err
		}
		return rec.KWHX48(), nil
	}
	s, err := l.schedule(metric)
	if err != nil {
		return [HalfHoursPerDay]float64{}, err
	}
	return s.DayValuesX48(Day(date))
}

// DayTotal returns the day's total in the requested metric. kWh totals are
// cached; the cache is invalidated by Add and Delete.
func (l *Ledger) DayTotal(date time.Time, metric Metric) (float64, error) {
	date = Day(date)
	if metric == MetricKWH {
		if total, ok := l.dayTotalCache[date]; ok {
			return total, nil
		}
		rec, err := l.Day(date)
		if err != nil {
			return 0, err
		}
		total := rec.Total()
		l.dayTotalCache[date] = total
		return total, nil
	}
	s, err := l.schedule(metric)
	if err != nil {
		return 0, err
	}
	return s.DayTotal(date)
}

// RangeTotal sums day totals over [date1, date2]. Every date is assumed to
// exist; a missing date is the caller's responsibility and fails.
func (l *Ledger) RangeTotal(date1, date2 time.Time, metric Metric) (float64, error) {
	total := 0.0
	for date := Day(date1); !date.After(Day(date2)); date = date.AddDate(0, 0, 1) {
		dayTotal, err := l.DayTotal(date, metric)
		if err != nil {
			return 0, err
		}
		total += dayTotal
	}
	return total, nil
}

// Total sums day totals over the whole logical range.
func (l *Ledger) Total(metric Metric) (float64, error) {
	return l.RangeTotal(l.StartDate(), l.EndDate(), metric)
}

// AverageInRange averages day totals over [date1, date2], assuming every
// date exists.
func (l *Ledger) AverageInRange(date1, date2 time.Time, metric Metric) (float64, error) {
	total, err := l.RangeTotal(date1, date2, metric)
	if err != nil {
		return 0, err
	}
	days := Day(date2).Sub(Day(date1)).Hours()/24 + 1
	return total / days, nil
}

// AverageIgnoringMissing averages day totals over [date1, date2], skipping
// dates absent from the ledger rather than failing. Returns 0 when no date
// in the range is present.
func (l *Ledger) AverageIgnoringMissing(date1, date2 time.Time, metric Metric) (float64, error) {
	total := 0.0
	count := 0
	for date := Day(date1); !date.After(Day(date2)); date = date.AddDate(0, 0, 1) {
		if !l.HasDate(date) {
			continue
		}
		dayTotal, err := l.DayTotal(date, metric)
		if err != nil {
			return 0, err
		}
		total += dayTotal
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return total / float64(count), nil
}

// OvernightBaseloadKW estimates baseload power from the last 3.5 hours of
// the day (half-hour indices 41..47).
func (l *Ledger) OvernightBaseloadKW(date time.Time) (float64, error) {
	return l.BaseloadKWBetween(date, 41, 47)
}

// BaseloadKWBetween averages power between two half-hour indices. A window
// with hh2 < hh1 wraps across midnight within the same day's data.
func (l *Ledger) BaseloadKWBetween(date time.Time, hh1, hh2 int) (float64, error) {
	if hh1 < 0 || hh1 >= HalfHoursPerDay || hh2 < 0 || hh2 >= HalfHoursPerDay {
		return 0, ErrBadHalfHourIndex
	}
	rec, err := l.Day(date)
	if err != nil {
		return 0, err
	}

	totalKWH := 0.0
	count := 0
	accumulate := func(from, to int) {
		for hh := from; hh <= to; hh++ {
			kwh, _ := rec.KWH(hh)
			totalKWH += kwh
			count++
		}
	}
	if hh2 >= hh1 {
		accumulate(hh1, hh2)
	} else {
		accumulate(hh1, HalfHoursPerDay-1) // before midnight
		accumulate(0, hh2)                 // after midnight
	}
	return totalKWH * 2.0 / float64(count), nil
}

// StatisticalBaseloadKW estimates baseload as the mean of the lowest 8 of
// the day's 48 values, converted from half-hour energy to power. A useful
// alternative heuristic for storage-heater meters.
func (l *Ledger) StatisticalBaseloadKW(date time.Time) (float64, error) {
	return l.meanOfSortedSlotsKW(date, 0, 8)
}

// StatisticalPeakKW estimates peak power as the mean of the highest 3 of
// the day's 48 values, converted to power.
func (l *Ledger) StatisticalPeakKW(date time.Time) (float64, error) {
	return l.meanOfSortedSlotsKW(date, HalfHoursPerDay-3, 3)
}

func (l *Ledger) meanOfSortedSlotsKW(date time.Time, offset, n int) (float64, error) {
	rec, err := l.Day(date)
	if err != nil {
		return 0, err
	}
	values := rec.KWHX48()
	sorted := values[:]
	sort.Float64s(sorted)

	total := 0.0
	for _, kwh := range sorted[offset : offset+n] {
		total += kwh
	}
	return total / float64(n) * 2.0, nil // convert 30-minute energy to power
}

// ResolveLongGapBoundary scans stored readings for sentinel boundary
// markers and overrides the logical start/end date exposed to consumers.
// Long gaps are demarked by a single gap reading on the last day of the
// gap; fixed ranges carry explicit start and end markers. Stored readings
// are not mutated.
func (l *Ledger) ResolveLongGapBoundary() {
	for date := l.startDate; !date.After(l.endDate); date = date.AddDate(0, 0, 1) {
		rec, ok := l.days[date]
		if !ok {
			continue
		}
		switch rec.Kind() {
		case KindGapStart, KindFixedStart:
			l.overrideStart = date
		case KindFixedEnd:
			l.overrideEnd = date
		}
	}
}

// SubstitutedSummary builds a histogram of provenance kind to the dates of
// that kind, for reporting the share of gap-filled data.
func (l *Ledger) SubstitutedSummary() map[ReadingKind][]time.Time {
	summary := make(map[ReadingKind][]time.Time)
	for date := l.startDate; !date.After(l.endDate); date = date.AddDate(0, 0, 1) {
		rec, ok := l.days[date]
		if !ok {
			continue
		}
		kind := rec.Kind()
		summary[kind] = append(summary[kind], date)
	}
	return summary
}

// MinusLedger subtracts another ledger's readings from this one over the
// overlapping date range, in place. When minValue is non-nil, results are
// clamped to it. The caller is expected to ensure both ranges are sane.
func (l *Ledger) MinusLedger(other *Ledger, minValue *float64) error {
	if l.locked {
		return ErrLedgerLocked
	}
	start := l.StartDate()
	if other.StartDate().After(start) {
		start = other.StartDate()
	}
	end := l.EndDate()
	if other.EndDate().Before(end) {
		end = other.EndDate()
	}

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		rec, err := l.Day(date)
		if err != nil {
			return err
		}
		otherRec, err := other.Day(date)
		if err != nil {
			return err
		}
		for hh := 0; hh < HalfHoursPerDay; hh++ {
			kwh, _ := rec.KWH(hh)
			otherKWH, _ := otherRec.KWH(hh)
			updated := kwh - otherKWH
			if minValue != nil && updated < *minValue {
				updated = *minValue
			}
			if err := rec.SetKWH(hh, updated); err != nil {
				return err
			}
		}
		delete(l.dayTotalCache, date)
	}
	return nil
}
