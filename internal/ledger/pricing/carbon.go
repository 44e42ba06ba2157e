package pricing

import (
	"errors"
	"time"

	ledger "energy-dashboard/internal/ledger/domain"
)

var ErrNilIntensitySource = errors.New("pricing: nil grid intensity source")

// GridIntensitySource supplies the grid carbon intensity (kg CO2 per kWh)
// for each half-hour slot of a date.
type GridIntensitySource interface {
	IntensityX48(date time.Time) ([ledger.HalfHoursPerDay]float64, error)
}

// FlatIntensity is a constant-rate intensity source, used for gas meters
// and as a fallback when no half-hourly grid data is available.
type FlatIntensity float64

// IntensityX48 returns the flat rate for every slot.
func (f FlatIntensity) IntensityX48(time.Time) ([ledger.HalfHoursPerDay]float64, error) {
	var out [ledger.HalfHoursPerDay]float64
	for i := range out {
		out[i] = float64(f)
	}
	return out, nil
}

// CarbonSchedule implements ledger.Schedule for CO2 emissions:
// co2[hh] = kwh[hh] * intensity[hh].
type CarbonSchedule struct {
	source    *ledger.Ledger
	intensity GridIntensitySource
	cache     map[time.Time][ledger.HalfHoursPerDay]float64
}

// NewCarbonSchedule constructs a carbon schedule over a ledger.
func NewCarbonSchedule(source *ledger.Ledger, intensity GridIntensitySource) (*CarbonSchedule, error) {
	if source == nil {
		return nil, ErrNilLedger
	}
	if intensity == nil {
		return nil, ErrNilIntensitySource
	}
	return &CarbonSchedule{
		source:    source,
		intensity: intensity,
		cache:     make(map[time.Time][ledger.HalfHoursPerDay]float64),
	}, nil
}

// AttachCarbonSchedule builds a carbon schedule and finalises it onto the
// ledger, locking the ledger against further appends.
func AttachCarbonSchedule(source *ledger.Ledger, intensity GridIntensitySource) (*CarbonSchedule, error) {
	schedule, err := NewCarbonSchedule(source, intensity)
	if err != nil {
		return nil, err
	}
	source.SetCarbonSchedule(schedule)
	return schedule, nil
}

// DayValuesX48 returns the day's 48 CO2 values.
func (s *CarbonSchedule) DayValuesX48(date time.Time) ([ledger.HalfHoursPerDay]float64, error) {
	date = ledger.Day(date)
	if co2, ok := s.cache[date]; ok {
		return co2, nil
	}

	kwh, err := s.source.DayValuesX48(date, ledger.MetricKWH)
	if err != nil {
		return [ledger.HalfHoursPerDay]float64{}, err
	}
	intensity, err := s.intensity.IntensityX48(date)
	if err != nil {
		return [ledger.HalfHoursPerDay]float64{}, err
	}

	co2 := ledger.MultiplyX48(kwh, intensity)
	s.cache[date] = co2
	return co2, nil
}

// DayTotal returns the day's total emissions.
func (s *CarbonSchedule) DayTotal(date time.Time) (float64, error) {
	co2, err := s.DayValuesX48(date)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, v := range co2 {
		total += v
	}
	return total, nil
}
