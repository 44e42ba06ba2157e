package application

import (
	"errors"
	"math"
	"testing"
	"time"

	ledger "energy-dashboard/internal/ledger/domain"
	school "energy-dashboard/internal/school/domain"
)

func constantSchool(t *testing.T, name string, kwh float64, start, end time.Time) *school.School {
	t.Helper()
	values := make([]float64, ledger.HalfHoursPerDay)
	for i := range values {
		values[i] = kwh
	}
	data, err := ledger.NewConstantLedger(name+"-elec", start, end, values)
	if err != nil {
		t.Fatalf("constant ledger: %v", err)
	}
	s, err := school.New(name, 200, 1200, school.NewCalendar(nil), []school.Meter{
		{MeterID: name + "-elec", Fuel: school.FuelElectricity, Data: data},
	})
	if err != nil {
		t.Fatalf("new school: %v", err)
	}
	return s
}

func TestBuildAverageSchool(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 13)

	a := constantSchool(t, "Castle Primary", 1, start, end)
	// second school starts later; the synthetic school uses the overlap
	b := constantSchool(t, "Paulton Junior", 3, start.AddDate(0, 0, 7), end)

	avg, err := BuildAverageSchool([]*school.School{a, b})
	if err != nil {
		t.Fatalf("build average school: %v", err)
	}
	if avg.Name != AverageSchoolName {
		t.Fatalf("expected %q, got %q", AverageSchoolName, avg.Name)
	}

	meter, ok := avg.Meter(school.FuelElectricity)
	if !ok {
		t.Fatal("expected an electricity meter")
	}
	if !meter.Data.StartDate().Equal(start.AddDate(0, 0, 7)) {
		t.Fatalf("expected overlap start, got %s", meter.Data.StartDate())
	}

	got, err := meter.Data.Value(end, 10, ledger.MetricKWH)
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if math.Abs(got-2) > 1e-9 {
		t.Fatalf("expected mean 2 kWh, got %f", got)
	}
}

func TestBuildAverageSchoolEmptyCohort(t *testing.T) {
	if _, err := BuildAverageSchool(nil); err == nil {
		t.Fatal("expected error for empty cohort")
	}
}

// flatSchedule derives a constant per-slot value, standing in for a
// tariff or carbon schedule.
type flatSchedule struct{ perSlot float64 }

func (f flatSchedule) DayValuesX48(time.Time) ([ledger.HalfHoursPerDay]float64, error) {
	var out [ledger.HalfHoursPerDay]float64
	for i := range out {
		out[i] = f.perSlot
	}
	return out, nil
}

func (f flatSchedule) DayTotal(time.Time) (float64, error) {
	return f.perSlot * ledger.HalfHoursPerDay, nil
}

func TestAverageSchoolDerivedMetricsAreCohortMeans(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	a := constantSchool(t, "Castle Primary", 1, start, end)
	b := constantSchool(t, "Paulton Junior", 3, start, end)
	aMeter, _ := a.Meter(school.FuelElectricity)
	bMeter, _ := b.Meter(school.FuelElectricity)
	aMeter.Data.SetEconomicTariff(flatSchedule{perSlot: 0.1}) // 4.8 per day
	bMeter.Data.SetEconomicTariff(flatSchedule{perSlot: 0.9}) // 43.2 per day
	aMeter.Data.SetCarbonSchedule(flatSchedule{perSlot: 0.2})
	bMeter.Data.SetCarbonSchedule(flatSchedule{perSlot: 0.6})

	avg, err := BuildAverageSchool([]*school.School{a, b})
	if err != nil {
		t.Fatalf("build average school: %v", err)
	}
	meter, ok := avg.Meter(school.FuelElectricity)
	if !ok {
		t.Fatal("expected an electricity meter")
	}

	cost, err := meter.Data.DayTotal(start, ledger.MetricEconomicCost)
	if err != nil {
		t.Fatalf("economic cost: %v", err)
	}
	if math.Abs(cost-24) > 1e-9 {
		t.Fatalf("expected mean 24 cost, got %f", cost)
	}
	co2, err := meter.Data.DayTotal(start, ledger.MetricCO2)
	if err != nil {
		t.Fatalf("carbon: %v", err)
	}
	if math.Abs(co2-19.2) > 1e-9 {
		t.Fatalf("expected mean 19.2 co2, got %f", co2)
	}
}

func TestAverageSchoolWithoutCohortSchedules(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)
	a := constantSchool(t, "Castle Primary", 1, start, end)

	avg, err := BuildAverageSchool([]*school.School{a})
	if err != nil {
		t.Fatalf("build average school: %v", err)
	}
	meter, _ := avg.Meter(school.FuelElectricity)
	if _, err := meter.Data.DayTotal(start, ledger.MetricEconomicCost); !errors.Is(err, ledger.ErrNoSchedule) {
		t.Fatalf("expected ErrNoSchedule, got %v", err)
	}
}
