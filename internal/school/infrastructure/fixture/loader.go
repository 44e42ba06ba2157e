// Package fixture loads school definitions from a YAML file and hydrates
// their meters from a reading store.
package fixture

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	ledger "energy-dashboard/internal/ledger/domain"
	"energy-dashboard/internal/ledger/pricing"
	school "energy-dashboard/internal/school/domain"
)

// Default flat grid intensities used when a school does not override
// them, kg CO2 per kWh.
const (
	defaultElectricityIntensity = 0.23
	defaultGasIntensity         = 0.21
)

// TariffSpec is one meter's charging definition. Rates are decimal
// strings so the YAML stays exact.
type TariffSpec struct {
	Mode                 string `yaml:"mode"`
	RatePerKWH           string `yaml:"rate_per_kwh"`
	DayRatePerKWH        string `yaml:"day_rate_per_kwh"`
	NightRatePerKWH      string `yaml:"night_rate_per_kwh"`
	NightStartIndex      int    `yaml:"night_start_index"`
	DayStartIndex        int    `yaml:"day_start_index"`
	StandingChargePerDay string `yaml:"standing_charge_per_day"`
}

// MeterSpec names one meter and its tariff.
type MeterSpec struct {
	MeterID string      `yaml:"meter_id"`
	Fuel    string      `yaml:"fuel"`
	Tariff  *TariffSpec `yaml:"tariff"`
}

// HolidaySpec is one holiday date range, ISO dates.
type HolidaySpec struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// SchoolSpec is one school entry in the fixture file.
type SchoolSpec struct {
	Name                    string        `yaml:"name"`
	Pupils                  int           `yaml:"pupils"`
	FloorAreaM2             float64       `yaml:"floor_area_m2"`
	CarbonIntensityKgPerKWH float64       `yaml:"carbon_intensity_kg_per_kwh"`
	Holidays                []HolidaySpec `yaml:"holidays"`
	Meters                  []MeterSpec   `yaml:"meters"`
}

// File is the parsed fixture document.
type File struct {
	Schools []SchoolSpec `yaml:"schools"`
}

// Load parses a fixture file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixture: parse %s: %w", path, err)
	}
	return &f, nil
}

// LedgerLoader supplies a meter's readings, usually the postgres reading
// repository.
type LedgerLoader interface {
	LoadLedger(ctx context.Context, meterID string) (*ledger.Ledger, error)
}

// BuildSchools hydrates every school in the file: readings per meter,
// tariff schedules, and a carbon schedule (which locks each ledger).
func (f *File) BuildSchools(ctx context.Context, loader LedgerLoader) ([]*school.School, error) {
	schools := make([]*school.School, 0, len(f.Schools))
	for _, spec := range f.Schools {
		sch, err := buildSchool(ctx, loader, spec)
		if err != nil {
			return nil, fmt.Errorf("fixture: school %q: %w", spec.Name, err)
		}
		schools = append(schools, sch)
	}
	return schools, nil
}

func buildSchool(ctx context.Context, loader LedgerLoader, spec SchoolSpec) (*school.School, error) {
	holidays, err := parseHolidays(spec.Holidays)
	if err != nil {
		return nil, err
	}
	calendar := school.NewCalendar(holidays)

	meters := make([]school.Meter, 0, len(spec.Meters))
	for _, meterSpec := range spec.Meters {
		fuel := school.FuelType(meterSpec.Fuel)
		if !fuel.IsValid() {
			return nil, fmt.Errorf("meter %s: %w: %q", meterSpec.MeterID, school.ErrUnknownFuel, meterSpec.Fuel)
		}

		led, err := loader.LoadLedger(ctx, meterSpec.MeterID)
		if err != nil {
			return nil, fmt.Errorf("meter %s: %w", meterSpec.MeterID, err)
		}

		if meterSpec.Tariff != nil {
			definition, err := meterSpec.Tariff.toDefinition()
			if err != nil {
				return nil, fmt.Errorf("meter %s: %w", meterSpec.MeterID, err)
			}
			schedule, err := pricing.NewTariffSchedule(led, definition)
			if err != nil {
				return nil, fmt.Errorf("meter %s: %w", meterSpec.MeterID, err)
			}
			led.SetEconomicTariff(schedule)
			led.SetAccountingTariff(schedule)
		}

		intensity := spec.CarbonIntensityKgPerKWH
		if intensity == 0 {
			intensity = defaultElectricityIntensity
			if fuel != school.FuelElectricity {
				intensity = defaultGasIntensity
			}
		}
		if _, err := pricing.AttachCarbonSchedule(led, pricing.FlatIntensity(intensity)); err != nil {
			return nil, fmt.Errorf("meter %s: %w", meterSpec.MeterID, err)
		}

		meters = append(meters, school.Meter{MeterID: meterSpec.MeterID, Fuel: fuel, Data: led})
	}

	return school.New(spec.Name, spec.Pupils, spec.FloorAreaM2, calendar, meters)
}

func (t *TariffSpec) toDefinition() (pricing.TariffDefinition, error) {
	var definition pricing.TariffDefinition
	switch t.Mode {
	case pricing.TariffModeFlat:
		rate, err := decimal.NewFromString(t.RatePerKWH)
		if err != nil {
			return definition, fmt.Errorf("bad rate %q: %w", t.RatePerKWH, err)
		}
		definition = pricing.FlatTariff(rate)
	case pricing.TariffModeTimeOfUse:
		dayRate, err := decimal.NewFromString(t.DayRatePerKWH)
		if err != nil {
			return definition, fmt.Errorf("bad day rate %q: %w", t.DayRatePerKWH, err)
		}
		nightRate, err := decimal.NewFromString(t.NightRatePerKWH)
		if err != nil {
			return definition, fmt.Errorf("bad night rate %q: %w", t.NightRatePerKWH, err)
		}
		definition = pricing.TimeOfUseTariff(dayRate, nightRate, t.NightStartIndex, t.DayStartIndex)
	default:
		return definition, pricing.ErrUnknownTariffMode
	}

	if t.StandingChargePerDay != "" {
		standing, err := decimal.NewFromString(t.StandingChargePerDay)
		if err != nil {
			return definition, fmt.Errorf("bad standing charge %q: %w", t.StandingChargePerDay, err)
		}
		definition.StandingChargePerDay = standing
	}
	return definition, definition.Validate()
}

func parseHolidays(specs []HolidaySpec) ([]school.DateRange, error) {
	holidays := make([]school.DateRange, 0, len(specs))
	for _, h := range specs {
		start, err := time.Parse("2006-01-02", h.Start)
		if err != nil {
			return nil, fmt.Errorf("bad holiday start %q: %w", h.Start, err)
		}
		end, err := time.Parse("2006-01-02", h.End)
		if err != nil {
			return nil, fmt.Errorf("bad holiday end %q: %w", h.End, err)
		}
		holidays = append(holidays, school.DateRange{Start: start, End: end})
	}
	return holidays, nil
}

// Directory indexes hydrated schools by name for chart school lists.
type Directory map[string]*school.School

// NewDirectory builds the lookup.
func NewDirectory(schools []*school.School) Directory {
	d := make(Directory, len(schools))
	for _, sch := range schools {
		d[sch.Name] = sch
	}
	return d
}

// SchoolByName resolves one school.
func (d Directory) SchoolByName(name string) (*school.School, error) {
	if sch, ok := d[name]; ok {
		return sch, nil
	}
	return nil, fmt.Errorf("%w: %q", school.ErrUnknownSchool, name)
}
