// Package school models the consumers of the aggregation engine: a school
// with its meters, occupancy calendar and sizing used for benchmark
// scaling.
package school

import (
	"errors"
	"time"

	ledger "energy-dashboard/internal/ledger/domain"
)

// FuelType identifies what a meter measures.
type FuelType string

const (
	FuelElectricity   FuelType = "electricity"
	FuelGas           FuelType = "gas"
	FuelStorageHeater FuelType = "storage heaters"
	FuelSolarPV       FuelType = "solar pv"
)

var (
	ErrNoMeters      = errors.New("school: no meters")
	ErrUnknownMeter  = errors.New("school: unknown meter")
	ErrUnknownFuel   = errors.New("school: unknown fuel type")
	ErrUnknownSchool = errors.New("school: unknown school")
	ErrEmptyName     = errors.New("school: empty name")
)

// IsValid reports whether the fuel type is one the engine understands.
func (f FuelType) IsValid() bool {
	switch f {
	case FuelElectricity, FuelGas, FuelStorageHeater, FuelSolarPV:
		return true
	}
	return false
}

// Meter couples a fuel type to its half-hourly ledger.
type Meter struct {
	MeterID string
	Fuel    FuelType
	Data    *ledger.Ledger
}

// School is one aggregation target.
type School struct {
	Name        string
	Pupils      int
	FloorAreaM2 float64
	Calendar    *Calendar
	Meters      []Meter
}

// New validates and constructs a school.
func New(name string, pupils int, floorAreaM2 float64, calendar *Calendar, meters []Meter) (*School, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(meters) == 0 {
		return nil, ErrNoMeters
	}
	if calendar == nil {
		calendar = NewCalendar(nil)
	}
	return &School{
		Name:        name,
		Pupils:      pupils,
		FloorAreaM2: floorAreaM2,
		Calendar:    calendar,
		Meters:      meters,
	}, nil
}

// Meter returns the meter for a fuel type.
func (s *School) Meter(fuel FuelType) (Meter, bool) {
	for _, m := range s.Meters {
		if m.Fuel == fuel {
			return m, true
		}
	}
	return Meter{}, false
}

// FirstMeterDate is the latest start across all meters: the first date for
// which every fuel has data.
func (s *School) FirstMeterDate() time.Time {
	var first time.Time
	for _, m := range s.Meters {
		start := m.Data.StartDate()
		if first.IsZero() || start.After(first) {
			first = start
		}
	}
	return first
}

// LastMeterDate is the earliest end across all meters.
func (s *School) LastMeterDate() time.Time {
	var last time.Time
	for _, m := range s.Meters {
		end := m.Data.EndDate()
		if last.IsZero() || end.Before(last) {
			last = end
		}
	}
	return last
}
