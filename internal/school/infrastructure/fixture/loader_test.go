package fixture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	ledger "energy-dashboard/internal/ledger/domain"
	"energy-dashboard/internal/ledger/pricing"
	school "energy-dashboard/internal/school/domain"
)

const fixtureYAML = `
schools:
  - name: Oak Lane Primary
    pupils: 320
    floor_area_m2: 1850.5
    holidays:
      - start: 2024-07-20
        end: 2024-08-31
    meters:
      - meter_id: elec-1
        fuel: electricity
        tariff:
          mode: flat
          rate_per_kwh: "0.15"
          standing_charge_per_day: "0.45"
      - meter_id: gas-1
        fuel: gas
        tariff:
          mode: tou
          day_rate_per_kwh: "0.08"
          night_rate_per_kwh: "0.05"
          night_start_index: 0
          day_start_index: 14
`

type stubLoader struct {
	failFor string
}

func (s *stubLoader) LoadLedger(_ context.Context, meterID string) (*ledger.Ledger, error) {
	if meterID == s.failFor {
		return nil, fmt.Errorf("stub: no readings for %s", meterID)
	}
	profile := make([]float64, 48)
	for i := range profile {
		profile[i] = 0.5
	}
	return ledger.NewConstantLedger(meterID,
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		profile)
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schools.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadAndBuildSchools(t *testing.T) {
	f, err := Load(writeFixture(t, fixtureYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	schools, err := f.BuildSchools(context.Background(), &stubLoader{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(schools) != 1 {
		t.Fatalf("expected 1 school, got %d", len(schools))
	}

	sch := schools[0]
	if sch.Name != "Oak Lane Primary" || sch.Pupils != 320 {
		t.Fatalf("unexpected school %q pupils=%d", sch.Name, sch.Pupils)
	}
	if len(sch.Meters) != 2 {
		t.Fatalf("expected 2 meters, got %d", len(sch.Meters))
	}
	holiday := time.Date(2024, time.August, 5, 0, 0, 0, 0, time.UTC)
	if sch.Calendar.DayType(holiday) != school.DayTypeHoliday {
		t.Fatalf("expected %s to be a holiday", holiday.Format("2006-01-02"))
	}

	elec, ok := sch.Meter(school.FuelElectricity)
	if !ok {
		t.Fatal("expected an electricity meter")
	}
	// 24 kWh/day at 0.15/kWh plus 0.45 standing charge
	day := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	cost, err := elec.Data.DayTotal(day, ledger.MetricEconomicCost)
	if err != nil {
		t.Fatalf("day cost: %v", err)
	}
	if diff := cost - 4.05; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected 4.05 economic cost, got %v", cost)
	}
	if _, err := elec.Data.DayTotal(day, ledger.MetricCO2); err != nil {
		t.Fatalf("expected carbon schedule to be attached: %v", err)
	}
}

func TestBuildSchoolsPropagatesLoaderFailure(t *testing.T) {
	f, err := Load(writeFixture(t, fixtureYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := f.BuildSchools(context.Background(), &stubLoader{failFor: "gas-1"}); err == nil {
		t.Fatal("expected loader failure to propagate")
	}
}

func TestBuildSchoolsRejectsUnknownFuel(t *testing.T) {
	bad := `
schools:
  - name: Oak Lane Primary
    pupils: 320
    meters:
      - meter_id: m-1
        fuel: diesel
`
	f, err := Load(writeFixture(t, bad))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := f.BuildSchools(context.Background(), &stubLoader{}); !errors.Is(err, school.ErrUnknownFuel) {
		t.Fatalf("expected ErrUnknownFuel, got %v", err)
	}
}

func TestBuildSchoolsRejectsBadTariffMode(t *testing.T) {
	bad := `
schools:
  - name: Oak Lane Primary
    pupils: 320
    meters:
      - meter_id: m-1
        fuel: electricity
        tariff:
          mode: metered
`
	f, err := Load(writeFixture(t, bad))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := f.BuildSchools(context.Background(), &stubLoader{}); !errors.Is(err, pricing.ErrUnknownTariffMode) {
		t.Fatalf("expected ErrUnknownTariffMode, got %v", err)
	}
}

func TestDirectoryLookup(t *testing.T) {
	f, err := Load(writeFixture(t, fixtureYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	schools, err := f.BuildSchools(context.Background(), &stubLoader{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	dir := NewDirectory(schools)
	if _, err := dir.SchoolByName("Oak Lane Primary"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, err := dir.SchoolByName("Elm Road"); !errors.Is(err, school.ErrUnknownSchool) {
		t.Fatalf("expected ErrUnknownSchool, got %v", err)
	}
}
