package ledgersource

import (
	"fmt"
	"math"
	"time"

	charting "energy-dashboard/internal/charting/domain"
	ledger "energy-dashboard/internal/ledger/domain"
	school "energy-dashboard/internal/school/domain"
)

// minModelSamples is the smallest day count a regression can be fitted
// on.
const minModelSamples = 5

// DegreeDayModel is a two-regime heating model: daily kWh regressed
// against heating degree days for heating-season school days, and a flat
// baseline for everything else. It satisfies HeatingModel.
type DegreeDayModel struct {
	calendar *school.Calendar
	weather  WeatherSource

	heating    charting.RegressionParams
	nonHeating charting.RegressionParams
}

// FitDegreeDayModel fits the model over a ledger's whole range. Days
// without weather observations are skipped; too few usable days in
// either regime fails with a not-enough-data error.
func FitDegreeDayModel(led *ledger.Ledger, weather WeatherSource, calendar *school.Calendar) (*DegreeDayModel, error) {
	if weather == nil {
		return nil, ErrNoWeather
	}

	var heatingDD, heatingKWH []float64
	var baselineKWH []float64

	for date := led.StartDate(); !date.After(led.EndDate()); date = date.AddDate(0, 0, 1) {
		if !led.HasDate(date) || !calendar.Occupied(date) {
			continue
		}
		kwh, err := led.DayTotal(date, ledger.MetricKWH)
		if err != nil {
			return nil, err
		}
		temp, err := weather.AverageTemperature(date)
		if err != nil {
			continue
		}
		if calendar.InHeatingSeason(date) {
			heatingDD = append(heatingDD, math.Max(0, BaseTemperatureC-temp))
			heatingKWH = append(heatingKWH, kwh)
		} else {
			baselineKWH = append(baselineKWH, kwh)
		}
	}

	if len(heatingKWH) < minModelSamples || len(baselineKWH) < minModelSamples {
		return nil, fmt.Errorf("%w: %d heating / %d baseline days for model fit",
			charting.ErrNotEnoughData, len(heatingKWH), len(baselineKWH))
	}

	heating, err := fitLeastSquares(heatingDD, heatingKWH)
	if err != nil {
		return nil, err
	}

	baseline := 0.0
	for _, v := range baselineKWH {
		baseline += v
	}
	baseline /= float64(len(baselineKWH))

	return &DegreeDayModel{
		calendar: calendar,
		weather:  weather,
		heating:  heating,
		nonHeating: charting.RegressionParams{
			Intercept: baseline,
			Samples:   len(baselineKWH),
		},
	}, nil
}

// HeatingOn reports whether the heating regime applies: a heating-season
// date with a positive degree-day demand.
func (m *DegreeDayModel) HeatingOn(date time.Time) bool {
	if !m.calendar.InHeatingSeason(date) {
		return false
	}
	temp, err := m.weather.AverageTemperature(date)
	if err != nil {
		return true
	}
	return temp < BaseTemperatureC
}

// ModelTypeFor names the regime a date falls under.
func (m *DegreeDayModel) ModelTypeFor(date time.Time) string {
	if m.HeatingOn(date) {
		return charting.SeriesHeatingDayModel
	}
	return charting.SeriesNonHeatingModel
}

// RegressionParamsFor returns the fitted parameters for a regime name.
func (m *DegreeDayModel) RegressionParamsFor(modelType string) (charting.RegressionParams, bool) {
	switch modelType {
	case charting.SeriesHeatingDayModel:
		return m.heating, true
	case charting.SeriesNonHeatingModel:
		return m.nonHeating, true
	default:
		return charting.RegressionParams{}, false
	}
}

// PredictedDailyKWH predicts a day's consumption under the fitted model.
func (m *DegreeDayModel) PredictedDailyKWH(date time.Time) (float64, error) {
	if !m.HeatingOn(date) {
		return m.nonHeating.Intercept, nil
	}
	temp, err := m.weather.AverageTemperature(date)
	if err != nil {
		return 0, err
	}
	dd := math.Max(0, BaseTemperatureC-temp)
	return m.heating.Intercept + m.heating.Slope*dd, nil
}

// fitLeastSquares fits y = a + b*x with the coefficient of determination.
func fitLeastSquares(xs, ys []float64) (charting.RegressionParams, error) {
	n := float64(len(xs))
	if len(xs) != len(ys) || len(xs) < 2 {
		return charting.RegressionParams{}, fmt.Errorf("%w: %d regression samples", charting.ErrNotEnoughData, len(xs))
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy, syy float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return charting.RegressionParams{Intercept: meanY, Samples: len(xs)}, nil
	}

	slope := sxy / sxx
	r2 := 0.0
	if syy > 0 {
		r2 = (sxy * sxy) / (sxx * syy)
	}
	return charting.RegressionParams{
		Intercept: meanY - slope*meanX,
		Slope:     slope,
		R2:        r2,
		Samples:   len(xs),
	}, nil
}
