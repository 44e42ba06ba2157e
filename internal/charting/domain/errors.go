package charting

import "errors"

var (
	// ErrBadChartSpecification marks a malformed chart configuration:
	// excess grouping depth, unrecognised sort dimension, bad axis
	// reformat. Fatal; raised to the caller immediately.
	ErrBadChartSpecification = errors.New("charting: bad chart specification")

	// ErrNotEnoughData marks a (school, period) slice whose requested
	// comparison period has no backing data. Recoverable; the slice is
	// dropped with a warning and aggregation continues.
	ErrNotEnoughData = errors.New("charting: not enough data for requested period")

	// ErrUnknownChart is returned when a catalog lookup misses.
	ErrUnknownChart = errors.New("charting: unknown chart name")

	// ErrInheritanceCycle is returned when catalog inheritance chains loop.
	ErrInheritanceCycle = errors.New("charting: chart inheritance cycle")
)
