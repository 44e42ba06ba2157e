// Package ledgersource feeds chart aggregation from a school's meter
// ledgers, decomposing day and half-hour values into named series and
// answering the heating-model queries used by model breakdowns.
package ledgersource

import (
	"errors"
	"fmt"
	"math"
	"time"

	charting "energy-dashboard/internal/charting/domain"
	ledger "energy-dashboard/internal/ledger/domain"
	school "energy-dashboard/internal/school/domain"
)

// BaseTemperatureC is the degree-day base used for weather overlays and
// the heating model.
const BaseTemperatureC = 15.5

// WeatherSource supplies daily weather observations for overlay series
// and model fitting.
type WeatherSource interface {
	AverageTemperature(date time.Time) (float64, error)
	Irradiance(date time.Time) (float64, error)
}

// HeatingModel answers the narrow model queries the aggregation needs.
type HeatingModel interface {
	HeatingOn(date time.Time) bool
	ModelTypeFor(date time.Time) string
	RegressionParamsFor(modelType string) (charting.RegressionParams, bool)
	PredictedDailyKWH(date time.Time) (float64, error)
}

// Source decomposes one school's consumption into the series demanded by
// a chart configuration.
type Source struct {
	target    *school.School
	meters    []school.Meter
	calendar  *school.Calendar
	breakdown charting.Breakdown
	metric    ledger.Metric
	y2        string

	weather WeatherSource
	model   HeatingModel
}

// Option customises a Source.
type Option func(*Source)

// WithWeather injects the weather observations backing temperature,
// degree-day and irradiance overlays.
func WithWeather(w WeatherSource) Option {
	return func(s *Source) { s.weather = w }
}

// WithHeatingModel injects the model backing heating breakdowns and
// trendlines.
func WithHeatingModel(m HeatingModel) Option {
	return func(s *Source) { s.model = m }
}

// New builds a Source for one school and one resolved chart
// configuration.
func New(target *school.School, cfg charting.ChartConfig, opts ...Option) (*Source, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: no school", charting.ErrNotEnoughData)
	}
	s := &Source{
		target:    target,
		calendar:  target.Calendar,
		breakdown: cfg.SeriesBreakdown,
		metric:    cfg.Metric(),
		y2:        cfg.Y2Axis,
	}
	for _, opt := range opts {
		opt(s)
	}

	meters, err := selectMeters(target, cfg)
	if err != nil {
		return nil, err
	}
	s.meters = meters
	return s, nil
}

// selectMeters picks the meters the chart reads. A fuel breakdown reads
// every meter; otherwise the filter's fuel allow-list narrows the choice
// and electricity is the default.
func selectMeters(target *school.School, cfg charting.ChartConfig) ([]school.Meter, error) {
	if len(target.Meters) == 0 {
		return nil, fmt.Errorf("%w: school %q has no meters", charting.ErrNotEnoughData, target.Name)
	}
	if cfg.SeriesBreakdown == charting.BreakdownFuel {
		return target.Meters, nil
	}
	if cfg.Filter != nil && len(cfg.Filter.Fuel) > 0 {
		var picked []school.Meter
		for _, m := range target.Meters {
			for _, fuel := range cfg.Filter.Fuel {
				if string(m.Fuel) == fuel {
					picked = append(picked, m)
				}
			}
		}
		if len(picked) == 0 {
			return nil, fmt.Errorf("%w: school %q has no meter for fuels %v",
				charting.ErrNotEnoughData, target.Name, cfg.Filter.Fuel)
		}
		return picked, nil
	}
	if m, ok := target.Meter(school.FuelElectricity); ok {
		return []school.Meter{m}, nil
	}
	return target.Meters[:1], nil
}

// School returns the school the source reads.
func (s *Source) School() *school.School { return s.target }

// Fuel is the dominant fuel of the selected meters, used for benchmark
// and unit conversions.
func (s *Source) Fuel() school.FuelType { return s.meters[0].Fuel }

// AvailableRange is the date range covered by every selected meter.
func (s *Source) AvailableRange() (school.DateRange, error) {
	var r school.DateRange
	for i, m := range s.meters {
		start := m.Data.StartDate()
		end := m.Data.EndDate()
		if start.IsZero() {
			return school.DateRange{}, fmt.Errorf("%w: meter %s is empty", charting.ErrNotEnoughData, m.MeterID)
		}
		if i == 0 || start.After(r.Start) {
			r.Start = start
		}
		if i == 0 || end.Before(r.End) {
			r.End = end
		}
	}
	if r.End.Before(r.Start) {
		return school.DateRange{}, fmt.Errorf("%w: selected meters never overlap", charting.ErrNotEnoughData)
	}
	return r, nil
}

// SeriesNames lists the series the active breakdown declares up front.
// Model breakdowns discover their series per day instead.
func (s *Source) SeriesNames() []string {
	switch s.breakdown {
	case charting.BreakdownFuel:
		names := make([]string, 0, len(s.meters))
		for _, m := range s.meters {
			names = append(names, string(m.Fuel))
		}
		return names
	case charting.BreakdownDayType:
		return []string{
			string(school.DayTypeHoliday),
			string(school.DayTypeWeekend),
			string(school.DayTypeSchoolDay),
		}
	case charting.BreakdownHeating:
		return []string{charting.SeriesHeatingDay, charting.SeriesNonHeatingDay}
	case charting.BreakdownHeatingModel:
		return []string{charting.SeriesHeatingDayModel, charting.SeriesNonHeatingModel}
	default:
		return []string{charting.SeriesNone}
	}
}

// DayValues maps one date onto series values for day-granular buckets.
// Dates outside a meter's range contribute nothing; an empty map means
// the day is skipped.
func (s *Source) DayValues(date time.Time) (map[string]float64, error) {
	values := make(map[string]float64)
	total := 0.0
	present := false
	for _, m := range s.meters {
		if !m.Data.HasDate(date) {
			continue
		}
		present = true
		kwh, err := m.Data.DayTotal(date, s.metric)
		if err != nil {
			return nil, err
		}
		if s.breakdown == charting.BreakdownFuel {
			values[string(m.Fuel)] += kwh
		}
		total += kwh
	}
	if !present {
		return nil, nil
	}

	switch s.breakdown {
	case charting.BreakdownFuel:
	case charting.BreakdownDayType:
		values[string(s.calendar.DayType(date))] = total
	case charting.BreakdownHeating:
		values[heatingSeries(s.HeatingOn(date))] = total
	case charting.BreakdownHeatingModel:
		values[s.ModelTypeFor(date)] = total
	default:
		values[charting.SeriesNone] = total
	}

	if err := s.addDayOverlays(values, date); err != nil {
		return nil, err
	}
	return values, nil
}

// HalfHourValues maps one half-hour sample onto series values for
// intraday and datetime buckets.
func (s *Source) HalfHourValues(date time.Time, halfHour int) (map[string]float64, error) {
	values := make(map[string]float64)
	total := 0.0
	present := false
	for _, m := range s.meters {
		if !m.Data.HasDate(date) {
			continue
		}
		present = true
		kwh, err := m.Data.Value(date, halfHour, s.metric)
		if err != nil {
			return nil, err
		}
		if s.breakdown == charting.BreakdownFuel {
			values[string(m.Fuel)] += kwh
		}
		total += kwh
	}
	if !present {
		return nil, nil
	}

	switch s.breakdown {
	case charting.BreakdownFuel:
	case charting.BreakdownDayType:
		values[string(s.calendar.DayType(date))] = total
	case charting.BreakdownHeating:
		values[heatingSeries(s.HeatingOn(date))] = total
	case charting.BreakdownHeatingModel:
		values[s.ModelTypeFor(date)] = total
	default:
		values[charting.SeriesNone] = total
	}

	if err := s.addHalfHourOverlays(values, date, halfHour); err != nil {
		return nil, err
	}
	return values, nil
}

// addHalfHourOverlays adds the configured secondary-axis series for one
// half-hour sample. Daily weather observations repeat across the day's
// slots; degree days are spread evenly so the slots sum back to the
// day's total.
func (s *Source) addHalfHourOverlays(values map[string]float64, date time.Time, halfHour int) error {
	switch s.y2 {
	case "":
		return nil
	case charting.SeriesTemperature, charting.SeriesDegreeDays:
		if s.weather == nil {
			return fmt.Errorf("%w: %s overlay needs weather data", charting.ErrNotEnoughData, s.y2)
		}
		temp, err := s.weather.AverageTemperature(date)
		if err != nil {
			return err
		}
		if s.y2 == charting.SeriesTemperature {
			values[charting.SeriesTemperature] = temp
		} else {
			values[charting.SeriesDegreeDays] = math.Max(0, BaseTemperatureC-temp) / ledger.HalfHoursPerDay
		}
	case charting.SeriesIrradiance:
		if s.weather == nil {
			return fmt.Errorf("%w: irradiance overlay needs weather data", charting.ErrNotEnoughData)
		}
		irradiance, err := s.weather.Irradiance(date)
		if err != nil {
			return err
		}
		values[charting.SeriesIrradiance] = irradiance
	case charting.SeriesGridCarbon:
		for _, m := range s.meters {
			if !m.Data.HasDate(date) {
				continue
			}
			co2, err := m.Data.Value(date, halfHour, ledger.MetricCO2)
			if err != nil {
				return err
			}
			values[charting.SeriesGridCarbon] += co2
		}
	}
	return nil
}

// addDayOverlays adds the configured secondary-axis series for one day.
func (s *Source) addDayOverlays(values map[string]float64, date time.Time) error {
	switch s.y2 {
	case "":
		return nil
	case charting.SeriesTemperature, charting.SeriesDegreeDays:
		if s.weather == nil {
			return fmt.Errorf("%w: %s overlay needs weather data", charting.ErrNotEnoughData, s.y2)
		}
		temp, err := s.weather.AverageTemperature(date)
		if err != nil {
			return err
		}
		if s.y2 == charting.SeriesTemperature {
			values[charting.SeriesTemperature] = temp
		} else {
			values[charting.SeriesDegreeDays] = math.Max(0, BaseTemperatureC-temp)
		}
	case charting.SeriesIrradiance:
		if s.weather == nil {
			return fmt.Errorf("%w: irradiance overlay needs weather data", charting.ErrNotEnoughData)
		}
		irradiance, err := s.weather.Irradiance(date)
		if err != nil {
			return err
		}
		values[charting.SeriesIrradiance] = irradiance
	case charting.SeriesGridCarbon:
		for _, m := range s.meters {
			if !m.Data.HasDate(date) {
				continue
			}
			co2, err := m.Data.DayTotal(date, ledger.MetricCO2)
			if err != nil {
				return err
			}
			values[charting.SeriesGridCarbon] += co2
		}
	}
	return nil
}

// DayWanted applies the day-level part of a chart filter: day type,
// heating state and model type must all match for the day to count.
func (s *Source) DayWanted(date time.Time, filter *charting.Filter) bool {
	if filter.Empty() {
		return true
	}
	if len(filter.DayType) > 0 && !contains(filter.DayType, string(s.calendar.DayType(date))) {
		return false
	}
	if filter.Heating != nil && s.HeatingOn(date) != *filter.Heating {
		return false
	}
	if len(filter.ModelType) > 0 && !contains(filter.ModelType, s.ModelTypeFor(date)) {
		return false
	}
	return true
}

// HeatingOn reports the model's heating state, falling back to the
// calendar heating season when no model is wired.
func (s *Source) HeatingOn(date time.Time) bool {
	if s.model != nil {
		return s.model.HeatingOn(date)
	}
	return s.calendar.InHeatingSeason(date)
}

// ModelTypeFor classifies a date by model type.
func (s *Source) ModelTypeFor(date time.Time) string {
	if s.model != nil {
		return s.model.ModelTypeFor(date)
	}
	return heatingModelSeries(s.HeatingOn(date))
}

// RegressionParamsFor exposes fitted parameters for trendline labels.
func (s *Source) RegressionParamsFor(modelType string) (charting.RegressionParams, bool) {
	if s.model == nil {
		return charting.RegressionParams{}, false
	}
	return s.model.RegressionParamsFor(modelType)
}

func heatingSeries(on bool) string {
	if on {
		return charting.SeriesHeatingDay
	}
	return charting.SeriesNonHeatingDay
}

func heatingModelSeries(on bool) string {
	if on {
		return charting.SeriesHeatingDayModel
	}
	return charting.SeriesNonHeatingModel
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// ErrNoWeather reports a missing weather feed for a model fit.
var ErrNoWeather = errors.New("ledgersource: weather source required")
