package charting

import (
	"fmt"
	"strings"
)

// Well-known series names. Composite keys join up to three of these (or a
// school / time-period suffix) with colons.
const (
	SeriesNone = "Energy"

	SeriesHoliday   = "Holiday"
	SeriesWeekend   = "Weekend"
	SeriesSchoolDay = "School Day"

	SeriesHeatingDay      = "Heating Day"
	SeriesNonHeatingDay   = "Non Heating Day"
	SeriesHeatingDayModel = "Heating Day Model"
	SeriesNonHeatingModel = "Non Heating Day Model"

	SeriesTemperature = "Temperature"
	SeriesDegreeDays  = "Degree Days"
	SeriesIrradiance  = "Irradiance"
	SeriesGridCarbon  = "Grid Carbon"

	TrendlinePrefix = "Trendline "
)

// MaxKeyDepth is the deepest composite series key grouping supports.
const MaxKeyDepth = 3

// Y2SeriesNames is the secondary-axis name set. A series whose name starts
// with one of these is moved to the y2 axis; prefix matching covers keys
// that picked up a school or time-period suffix during merging.
var Y2SeriesNames = []string{
	SeriesTemperature,
	SeriesDegreeDays,
	SeriesIrradiance,
	SeriesGridCarbon,
}

// IsY2Series tells if a (possibly suffixed) series key belongs on the
// secondary axis.
func IsY2Series(key string) bool {
	for _, name := range Y2SeriesNames {
		if strings.HasPrefix(key, name) {
			return true
		}
	}
	return false
}

// ComposeKey joins key segments with colons.
func ComposeKey(segments ...string) string {
	return strings.Join(segments, ":")
}

// SplitKey splits a composite key into its segments.
func SplitKey(key string) []string {
	return strings.Split(key, ":")
}

// TrendlineSeriesName returns the trendline series label for a model type.
func TrendlineSeriesName(modelType string) string {
	return TrendlinePrefix + modelType
}

// RegressionParams are the fitted parameters of one heating-model regime.
type RegressionParams struct {
	Intercept float64
	Slope     float64
	R2        float64
	Samples   int
}

// TrendlineNameWithParameters appends fitted regression parameters to a
// trendline label, mirroring how the model is displayed in a legend.
func TrendlineNameWithParameters(modelType string, a, b, r2 float64, samples int) string {
	return fmt.Sprintf("%s =%.0f + %.1fT r2 = %.2f x %d",
		TrendlineSeriesName(modelType), a, b, r2, samples)
}
