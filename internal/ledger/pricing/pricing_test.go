package pricing

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	ledger "energy-dashboard/internal/ledger/domain"
)

func testLedger(t *testing.T, kwh float64) (*ledger.Ledger, time.Time) {
	t.Helper()
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	values := make([]float64, ledger.HalfHoursPerDay)
	for i := range values {
		values[i] = kwh
	}
	l, err := ledger.NewConstantLedger("meter-1", day, day.AddDate(0, 0, 6), values)
	if err != nil {
		t.Fatalf("constant ledger: %v", err)
	}
	return l, day
}

func TestFlatTariffSchedule(t *testing.T) {
	l, day := testLedger(t, 2)

	schedule, err := NewTariffSchedule(l, FlatTariff(decimal.NewFromFloat(0.15)))
	if err != nil {
		t.Fatalf("new tariff schedule: %v", err)
	}
	l.SetEconomicTariff(schedule)

	total, err := l.DayTotal(day, ledger.MetricEconomicCost)
	if err != nil {
		t.Fatalf("day total: %v", err)
	}
	want := 2.0 * 0.15 * ledger.HalfHoursPerDay
	if math.Abs(total-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, total)
	}
}

func TestTimeOfUseTariffWrapsMidnight(t *testing.T) {
	l, day := testLedger(t, 1)

	// night 23:00 (index 46) to 07:00 (index 14)
	def := TimeOfUseTariff(decimal.NewFromFloat(0.30), decimal.NewFromFloat(0.10), 46, 14)
	schedule, err := NewTariffSchedule(l, def)
	if err != nil {
		t.Fatalf("new tariff schedule: %v", err)
	}

	costs, err := schedule.DayValuesX48(day)
	if err != nil {
		t.Fatalf("day values: %v", err)
	}
	if costs[0] != 0.10 || costs[47] != 0.10 {
		t.Fatalf("expected night rate around midnight, got %f / %f", costs[0], costs[47])
	}
	if costs[20] != 0.30 {
		t.Fatalf("expected day rate mid-day, got %f", costs[20])
	}

	nightSlots := 0
	for hh := 0; hh < ledger.HalfHoursPerDay; hh++ {
		if costs[hh] == 0.10 {
			nightSlots++
		}
	}
	if nightSlots != 16 {
		t.Fatalf("expected 16 night slots, got %d", nightSlots)
	}
}

func TestStandingChargeSpreadsOverDay(t *testing.T) {
	l, day := testLedger(t, 0)

	def := FlatTariff(decimal.NewFromFloat(0.15))
	def.StandingChargePerDay = decimal.NewFromFloat(0.48)
	schedule, err := NewTariffSchedule(l, def)
	if err != nil {
		t.Fatalf("new tariff schedule: %v", err)
	}

	total, err := schedule.DayTotal(day)
	if err != nil {
		t.Fatalf("day total: %v", err)
	}
	if math.Abs(total-0.48) > 1e-9 {
		t.Fatalf("expected standing charge only, got %f", total)
	}
}

func TestBadTariffDefinitions(t *testing.T) {
	l, _ := testLedger(t, 1)

	if _, err := NewTariffSchedule(nil, FlatTariff(decimal.NewFromInt(1))); !errors.Is(err, ErrNilLedger) {
		t.Fatalf("expected ErrNilLedger, got %v", err)
	}
	if _, err := NewTariffSchedule(l, TariffDefinition{Mode: "metered"}); !errors.Is(err, ErrUnknownTariffMode) {
		t.Fatalf("expected ErrUnknownTariffMode, got %v", err)
	}
	if _, err := NewTariffSchedule(l, TimeOfUseTariff(decimal.NewFromInt(1), decimal.NewFromInt(1), 50, 2)); !errors.Is(err, ErrBadTimeOfUseSplit) {
		t.Fatalf("expected ErrBadTimeOfUseSplit, got %v", err)
	}
}

func TestCarbonScheduleLocksLedger(t *testing.T) {
	l, day := testLedger(t, 2)

	schedule, err := AttachCarbonSchedule(l, FlatIntensity(0.2))
	if err != nil {
		t.Fatalf("attach carbon schedule: %v", err)
	}
	if !l.Locked() {
		t.Fatal("expected ledger locked after carbon schedule finalised")
	}

	total, err := schedule.DayTotal(day)
	if err != nil {
		t.Fatalf("day total: %v", err)
	}
	want := 2.0 * 0.2 * ledger.HalfHoursPerDay
	if math.Abs(total-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, total)
	}

	viaLedger, err := l.DayTotal(day, ledger.MetricCO2)
	if err != nil {
		t.Fatalf("ledger co2 total: %v", err)
	}
	if math.Abs(viaLedger-want) > 1e-9 {
		t.Fatalf("expected %f via ledger, got %f", want, viaLedger)
	}
}
