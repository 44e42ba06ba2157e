package ledgersource

import (
	"errors"
	"math"
	"testing"
	"time"

	charting "energy-dashboard/internal/charting/domain"
	ledger "energy-dashboard/internal/ledger/domain"
	school "energy-dashboard/internal/school/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func flatX48(v float64) []float64 {
	out := make([]float64, ledger.HalfHoursPerDay)
	for i := range out {
		out[i] = v
	}
	return out
}

// seasonTemps is a WeatherSource with cold heating-season days and warm
// summer days.
type seasonTemps struct{}

func (seasonTemps) AverageTemperature(d time.Time) (float64, error) {
	if d.Month() >= time.October || d.Month() <= time.April {
		return 5.5, nil
	}
	return 18.0, nil
}

func (seasonTemps) Irradiance(time.Time) (float64, error) { return 120, nil }

func testSchool(t *testing.T) *school.School {
	t.Helper()
	elec, err := ledger.NewConstantLedger("elec-1", date(2024, time.January, 1), date(2024, time.December, 31), flatX48(0.5))
	if err != nil {
		t.Fatalf("electricity ledger: %v", err)
	}
	gas, err := ledger.NewConstantLedger("gas-1", date(2024, time.January, 1), date(2024, time.December, 31), flatX48(1.0))
	if err != nil {
		t.Fatalf("gas ledger: %v", err)
	}
	calendar := school.NewCalendar([]school.DateRange{
		{Start: date(2024, time.July, 20), End: date(2024, time.August, 31)},
	})
	target, err := school.New("Oak Lane Primary", 300, 1500, calendar, []school.Meter{
		{MeterID: "elec-1", Fuel: school.FuelElectricity, Data: elec},
		{MeterID: "gas-1", Fuel: school.FuelGas, Data: gas},
	})
	if err != nil {
		t.Fatalf("school: %v", err)
	}
	return target
}

func TestFuelBreakdownSplitsPerMeter(t *testing.T) {
	target := testSchool(t)
	src, err := New(target, charting.ChartConfig{
		XAxis:           charting.XAxisMonth,
		SeriesBreakdown: charting.BreakdownFuel,
		YAxisUnits:      charting.UnitKWH,
	})
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	values, err := src.DayValues(date(2024, time.March, 5))
	if err != nil {
		t.Fatalf("day values: %v", err)
	}
	if got := values["electricity"]; math.Abs(got-24) > 1e-9 {
		t.Fatalf("expected 24 kWh electricity, got %v", got)
	}
	if got := values["gas"]; math.Abs(got-48) > 1e-9 {
		t.Fatalf("expected 48 kWh gas, got %v", got)
	}
}

func TestDayTypeBreakdownUsesCalendar(t *testing.T) {
	target := testSchool(t)
	src, err := New(target, charting.ChartConfig{
		XAxis:           charting.XAxisWeek,
		SeriesBreakdown: charting.BreakdownDayType,
		YAxisUnits:      charting.UnitKWH,
	})
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	// electricity meter only, 24 kWh per day
	holiday, err := src.DayValues(date(2024, time.August, 5))
	if err != nil {
		t.Fatalf("holiday values: %v", err)
	}
	if holiday[string(school.DayTypeHoliday)] != 24 {
		t.Fatalf("expected holiday series, got %v", holiday)
	}

	weekend, _ := src.DayValues(date(2024, time.March, 2))
	if weekend[string(school.DayTypeWeekend)] != 24 {
		t.Fatalf("expected weekend series, got %v", weekend)
	}
}

func TestDayValuesOutsideLedgerAreSkipped(t *testing.T) {
	target := testSchool(t)
	src, err := New(target, charting.ChartConfig{
		XAxis:      charting.XAxisDay,
		YAxisUnits: charting.UnitKWH,
	})
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	values, err := src.DayValues(date(2023, time.June, 1))
	if err != nil {
		t.Fatalf("day values: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected no values before the meter starts, got %v", values)
	}
}

func TestDegreeDayOverlay(t *testing.T) {
	target := testSchool(t)
	src, err := New(target, charting.ChartConfig{
		XAxis:      charting.XAxisWeek,
		YAxisUnits: charting.UnitKWH,
		Y2Axis:     charting.SeriesDegreeDays,
	}, WithWeather(seasonTemps{}))
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	values, err := src.DayValues(date(2024, time.January, 10))
	if err != nil {
		t.Fatalf("day values: %v", err)
	}
	if got := values[charting.SeriesDegreeDays]; math.Abs(got-10) > 1e-9 {
		t.Fatalf("expected 10 degree days at 5.5C, got %v", got)
	}

	summer, _ := src.DayValues(date(2024, time.June, 10))
	if got := summer[charting.SeriesDegreeDays]; got != 0 {
		t.Fatalf("expected 0 degree days at 18C, got %v", got)
	}
}

// flatCarbon is a carbon schedule with a constant per-slot value.
type flatCarbon struct{ perSlot float64 }

func (f flatCarbon) DayValuesX48(time.Time) ([ledger.HalfHoursPerDay]float64, error) {
	var out [ledger.HalfHoursPerDay]float64
	for i := range out {
		out[i] = f.perSlot
	}
	return out, nil
}

func (f flatCarbon) DayTotal(time.Time) (float64, error) {
	return f.perSlot * ledger.HalfHoursPerDay, nil
}

func TestHalfHourOverlays(t *testing.T) {
	target := testSchool(t)
	elec, _ := target.Meter(school.FuelElectricity)
	elec.Data.SetCarbonSchedule(flatCarbon{perSlot: 0.1})

	carbonSrc, err := New(target, charting.ChartConfig{
		XAxis:      charting.XAxisIntraday,
		YAxisUnits: charting.UnitKWH,
		Y2Axis:     charting.SeriesGridCarbon,
	})
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	values, err := carbonSrc.HalfHourValues(date(2024, time.March, 5), 7)
	if err != nil {
		t.Fatalf("half hour values: %v", err)
	}
	if got := values[charting.SeriesGridCarbon]; math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("expected 0.1 co2 per slot, got %v", got)
	}

	ddSrc, err := New(target, charting.ChartConfig{
		XAxis:      charting.XAxisIntraday,
		YAxisUnits: charting.UnitKWH,
		Y2Axis:     charting.SeriesDegreeDays,
	}, WithWeather(seasonTemps{}))
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	values, err = ddSrc.HalfHourValues(date(2024, time.January, 10), 7)
	if err != nil {
		t.Fatalf("half hour values: %v", err)
	}
	// 10 degree days spread evenly so the day's slots sum back to 10
	if got := values[charting.SeriesDegreeDays]; math.Abs(got-10.0/48) > 1e-9 {
		t.Fatalf("expected 10/48 degree days per slot, got %v", got)
	}

	irradianceSrc, err := New(target, charting.ChartConfig{
		XAxis:      charting.XAxisDatetime,
		YAxisUnits: charting.UnitKWH,
		Y2Axis:     charting.SeriesIrradiance,
	}, WithWeather(seasonTemps{}))
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	values, err = irradianceSrc.HalfHourValues(date(2024, time.June, 10), 20)
	if err != nil {
		t.Fatalf("half hour values: %v", err)
	}
	if got := values[charting.SeriesIrradiance]; math.Abs(got-120) > 1e-9 {
		t.Fatalf("expected the daily irradiance repeated per slot, got %v", got)
	}
}

func TestDayWantedComposesFilterPredicates(t *testing.T) {
	target := testSchool(t)
	src, err := New(target, charting.ChartConfig{
		XAxis:      charting.XAxisDay,
		YAxisUnits: charting.UnitKWH,
	}, WithWeather(seasonTemps{}))
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	heating := true
	filter := &charting.Filter{
		DayType: []string{string(school.DayTypeSchoolDay)},
		Heating: &heating,
	}

	// heating-season school day
	if !src.DayWanted(date(2024, time.February, 6), filter) {
		t.Fatal("expected heating-season school day to pass the filter")
	}
	// school day outside the heating season
	if src.DayWanted(date(2024, time.June, 5), filter) {
		t.Fatal("expected summer school day to fail the heating predicate")
	}
	// heating-season weekend
	if src.DayWanted(date(2024, time.February, 10), filter) {
		t.Fatal("expected weekend to fail the day-type predicate")
	}
}

func TestFitDegreeDayModel(t *testing.T) {
	target := testSchool(t)
	gas, _ := target.Meter(school.FuelGas)

	model, err := FitDegreeDayModel(gas.Data, seasonTemps{}, target.Calendar)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	if !model.HeatingOn(date(2024, time.January, 15)) {
		t.Fatal("cold January day should be a heating day")
	}
	if model.HeatingOn(date(2024, time.June, 15)) {
		t.Fatal("June day should not be a heating day")
	}
	if model.ModelTypeFor(date(2024, time.January, 15)) != charting.SeriesHeatingDayModel {
		t.Fatal("wrong model type for a heating day")
	}

	params, ok := model.RegressionParamsFor(charting.SeriesNonHeatingModel)
	if !ok {
		t.Fatal("expected baseline parameters")
	}
	// constant 48 kWh/day ledger: the baseline mean is exact
	if math.Abs(params.Intercept-48) > 1e-9 {
		t.Fatalf("expected 48 kWh baseline, got %v", params.Intercept)
	}

	predicted, err := model.PredictedDailyKWH(date(2024, time.January, 15))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	// constant consumption regardless of weather: slope 0, intercept 48
	if math.Abs(predicted-48) > 1e-9 {
		t.Fatalf("expected 48 kWh prediction, got %v", predicted)
	}
}

func TestFitDegreeDayModelNeedsWeather(t *testing.T) {
	target := testSchool(t)
	gas, _ := target.Meter(school.FuelGas)
	if _, err := FitDegreeDayModel(gas.Data, nil, target.Calendar); !errors.Is(err, ErrNoWeather) {
		t.Fatalf("expected ErrNoWeather, got %v", err)
	}
}
