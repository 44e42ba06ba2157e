package ledger

import "errors"

var (
	// ErrLedgerLocked is returned when a mutation is attempted after the
	// carbon schedule has been finalised.
	ErrLedgerLocked = errors.New("ledger: updates locked - no updates allowed")

	// ErrNilRecord is returned when a nil day record is appended.
	ErrNilRecord = errors.New("ledger: day record must not be nil")

	// ErrDateMismatch is returned when the append date does not match the
	// record's own date.
	ErrDateMismatch = errors.New("ledger: date mismatch between key and record")

	// ErrMissingDate is returned by read accessors for dates the ledger
	// does not hold. Callers expecting gaps should use
	// AverageIgnoringMissing instead.
	ErrMissingDate = errors.New("ledger: no data for date")

	// ErrNoSchedule is returned when a derived metric is requested before
	// its schedule has been attached.
	ErrNoSchedule = errors.New("ledger: no schedule for metric")

	ErrInvalidMetric      = errors.New("ledger: invalid metric")
	ErrBadReadingCount    = errors.New("ledger: day record requires exactly 48 half-hourly readings")
	ErrInvalidReadingKind = errors.New("ledger: invalid reading kind")
	ErrInvalidDate        = errors.New("ledger: invalid date")
	ErrBadHalfHourIndex   = errors.New("ledger: half-hour index out of range")
)
