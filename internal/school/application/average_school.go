package application

import (
	"errors"
	"fmt"
	"time"

	ledger "energy-dashboard/internal/ledger/domain"
	school "energy-dashboard/internal/school/domain"
)

// AverageSchoolName labels the synthetic school built from a cohort.
const AverageSchoolName = "Average School"

var ErrEmptyCohort = errors.New("school: empty cohort for average school")

// BuildAverageSchool combines a cohort into one synthetic school whose
// meters hold the per-date mean of the cohort's readings over the
// overlapping date range. Dates a cohort member is missing are simply
// excluded from that date's mean. Derived metrics follow the same rule:
// the synthetic ledgers carry cost and carbon schedules that average the
// cohort members holding a schedule for the date. Pupil count and floor
// area are cohort means, so per-pupil and per-area scaling stay
// comparable.
func BuildAverageSchool(cohort []*school.School) (*school.School, error) {
	if len(cohort) == 0 {
		return nil, ErrEmptyCohort
	}

	var start, end time.Time
	pupils := 0
	floorArea := 0.0
	fuels := map[school.FuelType]bool{}
	for _, s := range cohort {
		first, last := s.FirstMeterDate(), s.LastMeterDate()
		if start.IsZero() || first.After(start) {
			start = first
		}
		if end.IsZero() || last.Before(end) {
			end = last
		}
		pupils += s.Pupils
		floorArea += s.FloorAreaM2
		for _, m := range s.Meters {
			fuels[m.Fuel] = true
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("school: cohort date ranges do not overlap")
	}

	var meters []school.Meter
	for fuel := range fuels {
		combined, err := averageLedger(cohort, fuel, start, end)
		if err != nil {
			return nil, err
		}
		meters = append(meters, school.Meter{
			MeterID: fmt.Sprintf("average-%s", fuel),
			Fuel:    fuel,
			Data:    combined,
		})
	}

	return school.New(
		AverageSchoolName,
		pupils/len(cohort),
		floorArea/float64(len(cohort)),
		cohort[0].Calendar,
		meters,
	)
}

func averageLedger(cohort []*school.School, fuel school.FuelType, start, end time.Time) (*ledger.Ledger, error) {
	combined := ledger.NewLedger(fmt.Sprintf("average-%s", fuel))

	for date := ledger.Day(start); !date.After(ledger.Day(end)); date = date.AddDate(0, 0, 1) {
		var sum [ledger.HalfHoursPerDay]float64
		count := 0
		for _, s := range cohort {
			meter, ok := s.Meter(fuel)
			if !ok || !meter.Data.HasDate(date) {
				continue
			}
			values, err := meter.Data.DayValuesX48(date, ledger.MetricKWH)
			if err != nil {
				return nil, err
			}
			sum = ledger.AddX48(sum, values)
			count++
		}
		if count == 0 {
			continue
		}
		mean := ledger.ScaleX48(sum, 1/float64(count))
		record, err := ledger.NewDayRecord(date, ledger.KindSubstituted, mean[:])
		if err != nil {
			return nil, err
		}
		if err := combined.Add(date, record); err != nil {
			return nil, err
		}
	}

	combined.SetEconomicTariff(&meanSchedule{cohort: cohort, fuel: fuel, metric: ledger.MetricEconomicCost})
	combined.SetAccountingTariff(&meanSchedule{cohort: cohort, fuel: fuel, metric: ledger.MetricAccountingCost})
	// attached last: the carbon schedule locks the ledger
	combined.SetCarbonSchedule(&meanSchedule{cohort: cohort, fuel: fuel, metric: ledger.MetricCO2})
	return combined, nil
}

// meanSchedule derives a metric for the synthetic ledger as the per-date
// mean over the cohort. Members without data or without the metric's
// schedule are excluded from that date's mean.
type meanSchedule struct {
	cohort []*school.School
	fuel   school.FuelType
	metric ledger.Metric
}

func (m *meanSchedule) DayValuesX48(date time.Time) ([ledger.HalfHoursPerDay]float64, error) {
	var sum [ledger.HalfHoursPerDay]float64
	count := 0
	var lastErr error
	for _, s := range m.cohort {
		meter, ok := s.Meter(m.fuel)
		if !ok || !meter.Data.HasDate(date) {
			continue
		}
		values, err := meter.Data.DayValuesX48(date, m.metric)
		if err != nil {
			lastErr = err
			continue
		}
		sum = ledger.AddX48(sum, values)
		count++
	}
	if count == 0 {
		if lastErr != nil {
			return sum, lastErr
		}
		return sum, fmt.Errorf("%w: %s", ledger.ErrMissingDate, ledger.Day(date).Format("2006-01-02"))
	}
	return ledger.ScaleX48(sum, 1/float64(count)), nil
}

func (m *meanSchedule) DayTotal(date time.Time) (float64, error) {
	values, err := m.DayValuesX48(date)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total, nil
}
