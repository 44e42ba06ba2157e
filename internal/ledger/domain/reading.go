package ledger

import "time"

// HalfHoursPerDay is the number of metered slots in one calendar day.
const HalfHoursPerDay = 48

// ReadingKind tags the provenance of a reading: metered as-is, gap-filled
// by substitution, or one of the sentinel boundary markers used to trim
// long gaps out of the logical date range.
type ReadingKind string

const (
	KindOriginal    ReadingKind = "ORIG"
	KindSubstituted ReadingKind = "SUBST"
	KindGapStart    ReadingKind = "LGAP"
	KindFixedStart  ReadingKind = "FIXS"
	KindFixedEnd    ReadingKind = "FIXE"
)

// IsValid checks the kind is one of the supported values.
func (k ReadingKind) IsValid() bool {
	switch k {
	case KindOriginal, KindSubstituted, KindGapStart, KindFixedStart, KindFixedEnd:
		return true
	default:
		return false
	}
}

// IsBoundaryMarker tells if the kind demarks a long-gap or fixed-range
// boundary rather than describing data quality.
func (k ReadingKind) IsBoundaryMarker() bool {
	return k == KindGapStart || k == KindFixedStart || k == KindFixedEnd
}

// Reading is one half-hour of energy data.
type Reading struct {
	KWH  float64
	Kind ReadingKind
}

// DayRecord holds the 48 ordered half-hourly readings of one calendar date.
// Invariant: the sum of the 48 values equals the day's total energy.
type DayRecord struct {
	date     time.Time
	readings [HalfHoursPerDay]Reading
}

// NewDayRecord builds a record from 48 kWh values sharing one provenance
// kind, the common case for rows loaded from meter storage.
func NewDayRecord(date time.Time, kind ReadingKind, kwhX48 []float64) (*DayRecord, error) {
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	if !kind.IsValid() {
		return nil, ErrInvalidReadingKind
	}
	if len(kwhX48) != HalfHoursPerDay {
		return nil, ErrBadReadingCount
	}

	rec := &DayRecord{date: Day(date)}
	for i, kwh := range kwhX48 {
		rec.readings[i] = Reading{KWH: kwh, Kind: kind}
	}
	return rec, nil
}

// NewDayRecordFromReadings builds a record from 48 individually tagged
// readings.
func NewDayRecordFromReadings(date time.Time, readings []Reading) (*DayRecord, error) {
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	if len(readings) != HalfHoursPerDay {
		return nil, ErrBadReadingCount
	}
	rec := &DayRecord{date: Day(date)}
	for i, r := range readings {
		if !r.Kind.IsValid() {
			return nil, ErrInvalidReadingKind
		}
		rec.readings[i] = r
	}
	return rec, nil
}

// Date returns the record's calendar date (UTC midnight).
func (d *DayRecord) Date() time.Time { return d.date }

// KWH returns the energy for one half-hour slot.
func (d *DayRecord) KWH(halfHour int) (float64, error) {
	if halfHour < 0 || halfHour >= HalfHoursPerDay {
		return 0, ErrBadHalfHourIndex
	}
	return d.readings[halfHour].KWH, nil
}

// SetKWH overwrites the energy for one half-hour slot, marking it
// substituted.
func (d *DayRecord) SetKWH(halfHour int, kwh float64) error {
	if halfHour < 0 || halfHour >= HalfHoursPerDay {
		return ErrBadHalfHourIndex
	}
	d.readings[halfHour] = Reading{KWH: kwh, Kind: KindSubstituted}
	return nil
}

// KWHX48 returns the day's 48 values as a vector.
func (d *DayRecord) KWHX48() [HalfHoursPerDay]float64 {
	var out [HalfHoursPerDay]float64
	for i, r := range d.readings {
		out[i] = r.KWH
	}
	return out
}

// Total returns the day's total energy.
func (d *DayRecord) Total() float64 {
	total := 0.0
	for _, r := range d.readings {
		total += r.KWH
	}
	return total
}

// Kind summarises the record's provenance. Boundary markers take
// precedence, then substitution; a day is original only if every slot is.
func (d *DayRecord) Kind() ReadingKind {
	kind := KindOriginal
	for _, r := range d.readings {
		if r.Kind.IsBoundaryMarker() {
			return r.Kind
		}
		if r.Kind == KindSubstituted {
			kind = KindSubstituted
		}
	}
	return kind
}

// Clone returns a deep copy.
func (d *DayRecord) Clone() *DayRecord {
	copied := *d
	return &copied
}

// Day normalises a timestamp to its calendar date at UTC midnight. All
// ledger keys are stored in this form.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
