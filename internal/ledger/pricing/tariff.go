// Package pricing derives per-half-hour cost and carbon schedules on top
// of a raw kWh ledger. Schedules are computed lazily per day and cached
// once built.
package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	ledger "energy-dashboard/internal/ledger/domain"
)

const (
	TariffModeFlat      = "flat"
	TariffModeTimeOfUse = "tou"
)

var (
	ErrNilLedger         = errors.New("pricing: nil ledger")
	ErrUnknownTariffMode = errors.New("pricing: unknown tariff mode")
	ErrBadTimeOfUseSplit = errors.New("pricing: time-of-use boundaries out of range")
)

// TariffDefinition describes how a meter is charged. Rates are held as
// decimals so catalog definitions stay exact; they are converted to floats
// once when a day's schedule is built.
type TariffDefinition struct {
	Mode string

	// flat mode
	RatePerKWH decimal.Decimal

	// time-of-use mode: [NightStart, DayStart) half-hour indices charged
	// at the night rate, the rest at the day rate.
	DayRatePerKWH   decimal.Decimal
	NightRatePerKWH decimal.Decimal
	NightStartIndex int
	DayStartIndex   int

	// fixed charge spread evenly over the day's 48 slots.
	StandingChargePerDay decimal.Decimal
}

// FlatTariff builds a single-rate definition.
func FlatTariff(ratePerKWH decimal.Decimal) TariffDefinition {
	return TariffDefinition{Mode: TariffModeFlat, RatePerKWH: ratePerKWH}
}

// TimeOfUseTariff builds a day/night definition. Night runs from
// nightStart (inclusive) to dayStart (exclusive), wrapping across midnight
// when nightStart > dayStart.
func TimeOfUseTariff(dayRate, nightRate decimal.Decimal, nightStart, dayStart int) TariffDefinition {
	return TariffDefinition{
		Mode:            TariffModeTimeOfUse,
		DayRatePerKWH:   dayRate,
		NightRatePerKWH: nightRate,
		NightStartIndex: nightStart,
		DayStartIndex:   dayStart,
	}
}

// Validate checks the definition is usable.
func (d TariffDefinition) Validate() error {
	switch d.Mode {
	case TariffModeFlat:
		return nil
	case TariffModeTimeOfUse:
		if d.NightStartIndex < 0 || d.NightStartIndex >= ledger.HalfHoursPerDay ||
			d.DayStartIndex < 0 || d.DayStartIndex >= ledger.HalfHoursPerDay {
			return ErrBadTimeOfUseSplit
		}
		return nil
	default:
		return ErrUnknownTariffMode
	}
}

// ratesX48 expands the definition into one rate per half-hour slot.
func (d TariffDefinition) ratesX48() [ledger.HalfHoursPerDay]float64 {
	var rates [ledger.HalfHoursPerDay]float64

	switch d.Mode {
	case TariffModeFlat:
		rate, _ := d.RatePerKWH.Float64()
		for i := range rates {
			rates[i] = rate
		}
	case TariffModeTimeOfUse:
		dayRate, _ := d.DayRatePerKWH.Float64()
		nightRate, _ := d.NightRatePerKWH.Float64()
		for i := range rates {
			if d.isNight(i) {
				rates[i] = nightRate
			} else {
				rates[i] = dayRate
			}
		}
	}
	return rates
}

func (d TariffDefinition) isNight(halfHour int) bool {
	if d.NightStartIndex <= d.DayStartIndex {
		return halfHour >= d.NightStartIndex && halfHour < d.DayStartIndex
	}
	// wraps across midnight
	return halfHour >= d.NightStartIndex || halfHour < d.DayStartIndex
}

// TariffSchedule implements ledger.Schedule for economic or accounting
// costs: cost[hh] = kwh[hh] * rate[hh] (+ standing charge share).
type TariffSchedule struct {
	source     *ledger.Ledger
	definition TariffDefinition
	cache      map[time.Time][ledger.HalfHoursPerDay]float64
}

// NewTariffSchedule constructs a schedule over a ledger.
func NewTariffSchedule(source *ledger.Ledger, definition TariffDefinition) (*TariffSchedule, error) {
	if source == nil {
		return nil, ErrNilLedger
	}
	if err := definition.Validate(); err != nil {
		return nil, err
	}
	return &TariffSchedule{
		source:     source,
		definition: definition,
		cache:      make(map[time.Time][ledger.HalfHoursPerDay]float64),
	}, nil
}

// DayValuesX48 returns the day's 48 cost values.
func (s *TariffSchedule) DayValuesX48(date time.Time) ([ledger.HalfHoursPerDay]float64, error) {
	date = ledger.Day(date)
	if costs, ok := s.cache[date]; ok {
		return costs, nil
	}

	kwh, err := s.source.DayValuesX48(date, ledger.MetricKWH)
	if err != nil {
		return [ledger.HalfHoursPerDay]float64{}, err
	}

	costs := ledger.MultiplyX48(kwh, s.definition.ratesX48())
	if !s.definition.StandingChargePerDay.IsZero() {
		share, _ := s.definition.StandingChargePerDay.
			Div(decimal.NewFromInt(ledger.HalfHoursPerDay)).Float64()
		var standing [ledger.HalfHoursPerDay]float64
		for i := range standing {
			standing[i] = share
		}
		costs = ledger.AddX48(costs, standing)
	}

	s.cache[date] = costs
	return costs, nil
}

// DayTotal returns the day's total cost.
func (s *TariffSchedule) DayTotal(date time.Time) (float64, error) {
	costs, err := s.DayValuesX48(date)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, c := range costs {
		total += c
	}
	return total, nil
}
