// Package application orchestrates chart aggregation: resolving schools
// and comparison periods, bucketing series values, and applying the
// ordered pipeline of merge, injection, filtering and presentation
// transforms that turns ledgers into a chart-ready result.
package application

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"energy-dashboard/internal/charting/buckets"
	charting "energy-dashboard/internal/charting/domain"
	ledger "energy-dashboard/internal/ledger/domain"
	"energy-dashboard/internal/observability/metrics"
	schoolapp "energy-dashboard/internal/school/application"
	school "energy-dashboard/internal/school/domain"
)

// SeriesSource supplies series values for one school under one chart
// configuration, plus the heating-model queries used by model
// breakdowns and trendlines.
type SeriesSource interface {
	SeriesNames() []string
	AvailableRange() (school.DateRange, error)
	DayValues(date time.Time) (map[string]float64, error)
	HalfHourValues(date time.Time, halfHour int) (map[string]float64, error)
	DayWanted(date time.Time, filter *charting.Filter) bool
	HeatingOn(date time.Time) bool
	ModelTypeFor(date time.Time) string
	RegressionParamsFor(modelType string) (charting.RegressionParams, bool)
	School() *school.School
	Fuel() school.FuelType
}

// SourceFactory builds the SeriesSource for one school.
type SourceFactory func(target *school.School, cfg charting.ChartConfig) (SeriesSource, error)

// SchoolDirectory resolves the schools an explicit school list names.
type SchoolDirectory interface {
	SchoolByName(name string) (*school.School, error)
}

// Aggregator runs chart aggregations.
type Aggregator struct {
	sources   SourceFactory
	directory SchoolDirectory
	log       zerolog.Logger
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithDirectory wires the school lookup used by explicit school lists.
func WithDirectory(d SchoolDirectory) Option {
	return func(a *Aggregator) { a.directory = d }
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Aggregator) { a.log = log }
}

// New builds an Aggregator over a source factory.
func New(sources SourceFactory, opts ...Option) *Aggregator {
	a := &Aggregator{
		sources: sources,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// slice is one (school, period) aggregation: populated buckets plus the
// ordering metadata merging needs.
type slice struct {
	source      SeriesSource
	period      charting.Period
	periodIndex int

	bucketor buckets.Bucketor
	set      *charting.SeriesSet
	names    []string
}

// Aggregate runs the full pipeline for one resolved configuration.
// Configuration and ledger-state errors are fatal; slices that cannot be
// aggregated are skipped with a warning, and a result with zero
// surviving slices is returned invalid rather than as an error.
func (a *Aggregator) Aggregate(target *school.School, cfg charting.ChartConfig) (*charting.Result, error) {
	started := time.Now()
	result, err := a.aggregate(target, cfg)
	if err != nil {
		metrics.ObserveAggregation(metrics.ResultError, time.Since(started))
		return nil, err
	}
	metrics.ObserveAggregation(metrics.ResultSuccess, time.Since(started))
	return result, nil
}

func (a *Aggregator) aggregate(target *school.School, cfg charting.ChartConfig) (*charting.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	schools, err := a.resolveSchools(target, cfg)
	if err != nil {
		return nil, err
	}

	sources := make([]SeriesSource, 0, len(schools))
	var shared school.DateRange
	for i, sch := range schools {
		source, err := a.sources(sch, cfg)
		if err != nil {
			return nil, err
		}
		avail, err := source.AvailableRange()
		if err != nil {
			return nil, err
		}
		if i == 0 {
			shared = avail
		} else {
			if avail.Start.After(shared.Start) {
				shared.Start = avail.Start
			}
			if avail.End.Before(shared.End) {
				shared.End = avail.End
			}
		}
		sources = append(sources, source)
	}
	if shared.End.Before(shared.Start) {
		return nil, fmt.Errorf("%w: selected schools share no dates", charting.ErrNotEnoughData)
	}

	periods := resolvePeriods(cfg, shared)

	// Periods run in reverse declared order so the first configured
	// period is aggregated last and supplies the merged x axis.
	var slices []*slice
	var warnings []string
	for pi := len(periods) - 1; pi >= 0; pi-- {
		for _, source := range sources {
			sl, err := a.aggregateSlice(source, cfg, periods[pi], pi)
			if err != nil {
				if isFatal(err) {
					return nil, err
				}
				reason := metrics.SkipSliceError
				if errors.Is(err, charting.ErrNotEnoughData) {
					reason = metrics.SkipNotEnoughData
				}
				metrics.IncSliceSkipped(reason)
				warning := fmt.Sprintf("skipped %s %s: %v", source.School().Name, periods[pi].Label, err)
				warnings = append(warnings, warning)
				a.log.Warn().
					Str("school", source.School().Name).
					Str("period", periods[pi].Label).
					Err(err).
					Msg("slice skipped")
				continue
			}
			metrics.IncSliceAggregated()
			slices = append(slices, sl)
		}
	}

	if len(slices) == 0 {
		return &charting.Result{XAxisLabel: axisLabel(cfg.XAxis), Warnings: warnings}, nil
	}

	if cfg.ChartType == charting.ChartScatter && cfg.SeriesBreakdown == charting.BreakdownHeatingModel {
		for _, sl := range slices {
			injectTrendlines(sl)
		}
	}

	// the axis owner is fixed before any sort reorders the slices
	axisOwner := slices[len(slices)-1]
	if err := sortSlices(slices, cfg.SortBy); err != nil {
		return nil, err
	}

	schoolSet := make(map[string]bool)
	periodSet := make(map[int]bool)
	for _, sl := range slices {
		schoolSet[sl.source.School().Name] = true
		periodSet[sl.periodIndex] = true
	}
	axis, ranges, order, data, counts := merge(slices, axisOwner, len(schoolSet), len(periodSet))

	// grouping depth is checked up front so a bad specification fails
	// before any later phase runs
	if cfg.GroupBy {
		if _, err := charting.Regroup(data); err != nil {
			return nil, err
		}
	}

	fuel := sources[0].Fuel()
	if cfg.Inject == charting.InjectBenchmark {
		axis, ranges, err = injectBenchmarks(axis, ranges, order, data, counts, cfg, schools[0], fuel)
		if err != nil {
			return nil, err
		}
	}

	order = filterSeries(order, data, counts, cfg.Filter)

	y2 := extractY2(order, data, counts)
	order = withoutY2(order)

	var dataLabels []string
	if cfg.ChartType == charting.ChartScatter {
		axis, dataLabels = reorganizeScatter(axis, data, y2, counts, &order)
	}

	if cfg.YAxisUnits == charting.UnitKW {
		convertToKW(data, counts, cfg.XAxis.Intraday())
	}

	if cfg.SeriesNameOrder == charting.SeriesOrderReverse {
		reverseStrings(order)
	}
	if cfg.ReverseXAxis {
		reverseStrings(axis)
		reverseRanges(ranges)
		reverseStrings(dataLabels)
		for _, values := range data {
			reverseFloats(values)
		}
		for _, values := range y2 {
			reverseFloats(values)
		}
		for _, c := range counts {
			reverseInts(c)
		}
	}
	if cfg.XAxisReformat != nil {
		reformatAxis(axis, ranges, cfg.XAxisReformat.Date)
	}

	totals := make(map[string]float64, len(data))
	grand := 0.0
	for name, values := range data {
		total := 0.0
		for _, v := range values {
			if !math.IsNaN(v) {
				total += v
			}
		}
		totals[name] = total
		grand += total
	}
	summary := charting.UnitDescription(cfg.YAxisUnits, cfg.YAxisScaling, grand)
	if math.IsNaN(grand) {
		summary = "NaN total"
	}

	result := &charting.Result{
		XAxis:             axis,
		XAxisBucketRanges: ranges,
		XAxisLabel:        axisLabel(cfg.XAxis),
		SeriesOrder:       order,
		Series:            make(map[string][]*float64, len(data)),
		SeriesCounts:      counts,
		Y2:                make(map[string][]*float64, len(y2)),
		DataLabels:        dataLabels,
		SeriesTotals:      totals,
		GrandTotal:        grand,
		TitleSummary:      summary,
		Warnings:          warnings,
	}
	for name, values := range data {
		result.Series[name] = charting.NormalizeMissing(values)
	}
	for name, values := range y2 {
		result.Y2[name] = charting.NormalizeMissing(values)
	}
	if cfg.GroupBy {
		grouped, err := charting.Regroup(data)
		if err != nil {
			return nil, err
		}
		result.Grouped = grouped
	}
	return result, nil
}

// resolveSchools expands the configured school list, optionally adding
// the synthetic average school built from the resolved cohort.
func (a *Aggregator) resolveSchools(target *school.School, cfg charting.ChartConfig) ([]*school.School, error) {
	var schools []*school.School
	if len(cfg.Schools) == 0 {
		if target == nil {
			return nil, fmt.Errorf("%w: no target school", charting.ErrNotEnoughData)
		}
		schools = []*school.School{target}
	} else {
		if a.directory == nil {
			return nil, fmt.Errorf("%w: school list configured without a school directory", charting.ErrBadChartSpecification)
		}
		for _, name := range cfg.Schools {
			sch, err := a.directory.SchoolByName(name)
			if err != nil {
				return nil, err
			}
			schools = append(schools, sch)
		}
	}
	if cfg.IncludeAverage {
		avg, err := schoolapp.BuildAverageSchool(schools)
		if err != nil {
			return nil, err
		}
		schools = append(schools, avg)
	}
	return schools, nil
}

// resolvePeriods turns the configured timescales into concrete date
// ranges anchored at the end of the shared available range. No
// timescale means one unbounded period covering everything available.
func resolvePeriods(cfg charting.ChartConfig, shared school.DateRange) []charting.Period {
	if len(cfg.Timescales) == 0 {
		return []charting.Period{{Label: rangeLabel(shared), Range: shared}}
	}
	periods := make([]charting.Period, 0, len(cfg.Timescales))
	for _, ts := range cfg.Timescales {
		r := resolveTimescale(ts, shared)
		periods = append(periods, charting.Period{Label: rangeLabel(r), Range: r})
	}
	return periods
}

func resolveTimescale(ts charting.Timescale, shared school.DateRange) school.DateRange {
	if ts.Explicit() {
		return school.DateRange{Start: ledger.Day(ts.Start), End: ledger.Day(ts.End)}
	}
	end := ledger.Day(shared.End)
	switch ts.Unit {
	case charting.PeriodYear:
		end = end.AddDate(ts.Offset, 0, 0)
		return school.DateRange{Start: end.AddDate(-1, 0, 1), End: end}
	case charting.PeriodAcademicYear:
		yearStart := school.AcademicYearStart(end).AddDate(ts.Offset, 0, 0)
		yearEnd := yearStart.AddDate(1, 0, -1)
		if yearEnd.After(end) {
			yearEnd = end
		}
		return school.DateRange{Start: yearStart, End: yearEnd}
	case charting.PeriodMonth:
		end = end.AddDate(0, ts.Offset, 0)
		return school.DateRange{Start: end.AddDate(0, -1, 1), End: end}
	case charting.PeriodWeek:
		end = end.AddDate(0, 0, 7*ts.Offset)
		return school.DateRange{Start: end.AddDate(0, 0, -6), End: end}
	default: // day
		end = end.AddDate(0, 0, ts.Offset)
		return school.DateRange{Start: end, End: end}
	}
}

func rangeLabel(r school.DateRange) string {
	return r.Start.Format("2 Jan 06") + " - " + r.End.Format("2 Jan 06")
}

// aggregateSlice fills one (school, period) bucket set. A period that
// reaches outside the school's data fails with a not-enough-data error.
func (a *Aggregator) aggregateSlice(source SeriesSource, cfg charting.ChartConfig, period charting.Period, periodIndex int) (*slice, error) {
	avail, err := source.AvailableRange()
	if err != nil {
		return nil, err
	}
	if period.Range.Start.Before(avail.Start) || period.Range.End.After(avail.End) {
		return nil, fmt.Errorf("%w: period %s outside available data %s",
			charting.ErrNotEnoughData, period.Label, rangeLabel(avail))
	}

	bucketor, err := buckets.New(cfg.XAxis, period.Range, source.School().Calendar)
	if err != nil {
		return nil, err
	}
	bucketCount := len(bucketor.Labels())

	declared := source.SeriesNames()
	set := charting.NewSeriesSet(declared, bucketCount)

	for date := period.Range.Start; !date.After(period.Range.End); date = date.AddDate(0, 0, 1) {
		if !source.DayWanted(date, cfg.Filter) {
			continue
		}
		if bucketor.HalfHourly() {
			for hh := 0; hh < ledger.HalfHoursPerDay; hh++ {
				index, ok := bucketor.HalfHourIndex(date, hh)
				if !ok {
					continue
				}
				values, err := source.HalfHourValues(date, hh)
				if err != nil {
					return nil, err
				}
				for name, v := range values {
					set.AddToBucket(name, index, v, bucketCount)
				}
			}
			continue
		}
		index, ok := bucketor.DayIndex(date)
		if !ok {
			continue
		}
		values, err := source.DayValues(date)
		if err != nil {
			return nil, err
		}
		for name, v := range values {
			set.AddToBucket(name, index, v, bucketCount)
		}
	}

	// temperature and irradiance overlays are bucket means, not sums;
	// an untouched bucket divides 0 by 0 and surfaces as missing
	for name, values := range set.Data {
		if !averagedOverlay(name) {
			continue
		}
		c := set.Count[name]
		for i := range values {
			values[i] = values[i] / float64(c[i])
		}
	}

	return &slice{
		source:      source,
		period:      period,
		periodIndex: periodIndex,
		bucketor:    bucketor,
		set:         set,
		names:       orderedNames(declared, set),
	}, nil
}

func averagedOverlay(name string) bool {
	return strings.HasPrefix(name, charting.SeriesTemperature) ||
		strings.HasPrefix(name, charting.SeriesIrradiance)
}

// orderedNames keeps the declared breakdown order first, then any series
// discovered during accumulation in deterministic order.
func orderedNames(declared []string, set *charting.SeriesSet) []string {
	seen := make(map[string]bool, len(declared))
	var names []string
	for _, name := range declared {
		if _, ok := set.Data[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	var extras []string
	for name := range set.Data {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(names, extras...)
}

// trendlineBaseTemperatureC converts a temperature x axis back to the
// degree days the model was fitted on.
const trendlineBaseTemperatureC = 15.5

// injectTrendlines adds fitted model lines alongside model-breakdown
// series on scatter charts, predicting from the slice's temperature or
// degree-day series.
func injectTrendlines(sl *slice) {
	xs, fromTemperature := trendlineX(sl.set)
	if xs == nil {
		return
	}
	for _, modelType := range []string{charting.SeriesHeatingDayModel, charting.SeriesNonHeatingModel} {
		if _, ok := sl.set.Data[modelType]; !ok {
			continue
		}
		params, ok := sl.source.RegressionParamsFor(modelType)
		if !ok {
			continue
		}
		name := charting.TrendlineNameWithParameters(modelType, params.Intercept, params.Slope, params.R2, params.Samples)
		values := make([]float64, len(xs))
		ones := make([]int, len(xs))
		for i, x := range xs {
			if fromTemperature {
				x = math.Max(0, trendlineBaseTemperatureC-x)
			}
			values[i] = params.Intercept + params.Slope*x
			ones[i] = 1
		}
		sl.set.Data[name] = values
		sl.set.Count[name] = ones
		sl.names = append(sl.names, name)
	}
}

func trendlineX(set *charting.SeriesSet) ([]float64, bool) {
	if xs, ok := set.Data[charting.SeriesDegreeDays]; ok {
		return xs, false
	}
	if xs, ok := set.Data[charting.SeriesTemperature]; ok {
		return xs, true
	}
	return nil, false
}

// sortSlices applies the two-level composite sort. Equal primary keys
// fall through to the secondary comparator.
func sortSlices(slices []*slice, keys []charting.SortKey) error {
	if len(keys) == 0 {
		return nil
	}
	for _, key := range keys {
		if key.Dimension != charting.SortBySchool && key.Dimension != charting.SortByTime {
			return fmt.Errorf("%w: bad sort specification %q", charting.ErrBadChartSpecification, key.Dimension)
		}
	}
	sort.SliceStable(slices, func(i, j int) bool {
		for _, key := range keys {
			c := compareSlices(slices[i], slices[j], key.Dimension)
			if c == 0 {
				continue
			}
			if key.Direction == charting.SortDesc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return nil
}

func compareSlices(a, b *slice, dimension charting.SortDimension) int {
	if dimension == charting.SortBySchool {
		return strings.Compare(a.source.School().Name, b.source.School().Name)
	}
	return a.periodIndex - b.periodIndex
}

// merge combines slices onto one x axis. The slice aggregated last, the
// first configured period, supplies the axis regardless of sort order;
// series names pick up a period and/or school suffix only when more than
// one of either is present.
func merge(slices []*slice, axisOwner *slice, schoolCount, periodCount int) ([]string, []school.DateRange, []string, map[string][]float64, map[string][]int) {
	axis := append([]string(nil), axisOwner.bucketor.Labels()...)
	ranges := append([]school.DateRange(nil), axisOwner.bucketor.Ranges()...)

	var order []string
	data := make(map[string][]float64)
	counts := make(map[string][]int)

	for _, sl := range slices {
		for _, base := range sl.names {
			name := base
			if periodCount > 1 {
				name = charting.ComposeKey(name, sl.period.Label)
			}
			if schoolCount > 1 {
				name = charting.ComposeKey(name, sl.source.School().Name)
			}
			data[name] = fitLength(sl.set.Data[base], len(axis))
			counts[name] = fitLengthInts(sl.set.Count[base], len(axis))
			order = append(order, name)
		}
	}
	return axis, ranges, order, data, counts
}

// fitLength pads a shorter series with missing markers so every merged
// series aligns to the shared axis.
func fitLength(values []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i < len(values) {
			out[i] = values[i]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func fitLengthInts(values []int, n int) []int {
	out := make([]int, n)
	copy(out, values)
	return out
}

// injectBenchmarks appends national, regional and exemplar comparison
// buckets with one value per pre-existing series. Regional gas and heat
// benchmarks are discounted relative to national.
func injectBenchmarks(axis []string, ranges []school.DateRange, order []string,
	data map[string][]float64, counts map[string][]int,
	cfg charting.ChartConfig, target *school.School, fuel school.FuelType) ([]string, []school.DateRange, error) {

	var nationalKWH, exemplarKWH float64
	if fuel == school.FuelElectricity {
		nationalKWH = charting.BenchmarkElectricityUsagePerPupilKWH * float64(target.Pupils)
		exemplarKWH = charting.ExemplarElectricityUsagePerPupilKWH * float64(target.Pupils)
	} else {
		nationalKWH = charting.BenchmarkGasUsagePerM2KWH * target.FloorAreaM2
		exemplarKWH = charting.ExemplarGasUsagePerM2KWH * target.FloorAreaM2
	}
	regionalKWH := nationalKWH
	if fuel != school.FuelElectricity {
		regionalKWH *= charting.RegionalBenchmarkDiscount
	}

	national, err := charting.ScaleKWHToUnit(nationalKWH, cfg.YAxisUnits, cfg.YAxisScaling, fuel, target)
	if err != nil {
		return nil, nil, err
	}
	regional, err := charting.ScaleKWHToUnit(regionalKWH, cfg.YAxisUnits, cfg.YAxisScaling, fuel, target)
	if err != nil {
		return nil, nil, err
	}
	exemplar, err := charting.ScaleKWHToUnit(exemplarKWH, cfg.YAxisUnits, cfg.YAxisScaling, fuel, target)
	if err != nil {
		return nil, nil, err
	}

	axis = append(axis, "National Average", "Regional Average", "Exemplar School")
	ranges = append(ranges, school.DateRange{}, school.DateRange{}, school.DateRange{})
	for _, name := range order {
		data[name] = append(data[name], national, regional, exemplar)
		counts[name] = append(counts[name], 1, 1, 1)
	}
	return axis, ranges, nil
}

// filterSeries retains series whose leading key segment appears in any
// configured allow-list. Secondary-axis and trendline series survive
// filtering; they are extracted or consumed by later phases.
func filterSeries(order []string, data map[string][]float64, counts map[string][]int, filter *charting.Filter) []string {
	if filter.Empty() {
		return order
	}

	allowed := make(map[string]bool)
	for _, list := range [][]string{filter.Submeter, filter.Meter, filter.Fuel, filter.DayType, filter.ModelType} {
		for _, name := range list {
			allowed[name] = true
		}
	}
	if filter.Heating != nil {
		if *filter.Heating {
			allowed[charting.SeriesHeatingDay] = true
		} else {
			allowed[charting.SeriesNonHeatingDay] = true
		}
	}
	if len(allowed) == 0 {
		return order
	}

	kept := order[:0]
	for _, name := range order {
		base := charting.SplitKey(name)[0]
		if allowed[base] || charting.IsY2Series(name) || strings.HasPrefix(name, charting.TrendlinePrefix) {
			kept = append(kept, name)
			continue
		}
		delete(data, name)
		delete(counts, name)
	}
	return kept
}

// extractY2 moves secondary-axis series out of the primary set. Their
// counts go too, so the counts map stays aligned with the series map.
func extractY2(order []string, data map[string][]float64, counts map[string][]int) map[string][]float64 {
	y2 := make(map[string][]float64)
	for _, name := range order {
		if charting.IsY2Series(name) {
			y2[name] = data[name]
			delete(data, name)
			delete(counts, name)
		}
	}
	return y2
}

func withoutY2(order []string) []string {
	kept := order[:0]
	for _, name := range order {
		if !charting.IsY2Series(name) {
			kept = append(kept, name)
		}
	}
	return kept
}

// reorganizeScatter swaps the date axis for the temperature or
// degree-day series; the displaced dates survive as point labels.
func reorganizeScatter(axis []string, data map[string][]float64, y2 map[string][]float64, counts map[string][]int, order *[]string) ([]string, []string) {
	xs, name := scatterX(data, y2)
	if xs == nil {
		return axis, nil
	}

	dataLabels := axis
	newAxis := make([]string, len(xs))
	for i, v := range xs {
		newAxis[i] = fmt.Sprintf("%.1f", v)
	}

	delete(data, name)
	delete(y2, name)
	delete(counts, name)
	kept := (*order)[:0]
	for _, n := range *order {
		if n != name {
			kept = append(kept, n)
		}
	}
	*order = kept
	return newAxis, dataLabels
}

func scatterX(data, y2 map[string][]float64) ([]float64, string) {
	for _, prefix := range []string{charting.SeriesTemperature, charting.SeriesDegreeDays} {
		for name, values := range y2 {
			if strings.HasPrefix(name, prefix) {
				return values, name
			}
		}
		for name, values := range data {
			if strings.HasPrefix(name, prefix) {
				return values, name
			}
		}
	}
	return nil, ""
}

// convertToKW turns accumulated energy into power. The intraday path
// guards an empty bucket to 0; the day-granular path divides by the
// sample count unguarded, so an empty bucket surfaces as missing.
func convertToKW(data map[string][]float64, counts map[string][]int, intraday bool) {
	for name, values := range data {
		c := counts[name]
		for i := range values {
			if intraday {
				if c[i] > 0 {
					values[i] = 2 * values[i] / float64(c[i])
				} else {
					values[i] = 0
				}
				continue
			}
			values[i] = values[i] / float64(c[i])
		}
	}
}

// reformatAxis rewrites date labels with a Go time layout; labels
// without a backing date range (appended benchmark buckets) keep their
// text.
func reformatAxis(axis []string, ranges []school.DateRange, layout string) {
	for i := range axis {
		if i >= len(ranges) || ranges[i].Start.IsZero() {
			continue
		}
		axis[i] = ranges[i].Start.Format(layout)
	}
}

func axisLabel(axis charting.XAxis) string {
	switch axis {
	case charting.XAxisYear:
		return "Year"
	case charting.XAxisAcademicYear:
		return "Academic Year"
	case charting.XAxisMonth:
		return "Month"
	case charting.XAxisWeek:
		return "Week"
	case charting.XAxisDay:
		return "Day"
	case charting.XAxisDayOfWeek:
		return "Day of Week"
	case charting.XAxisIntraday:
		return "Time of Day"
	case charting.XAxisDatetime:
		return "Time"
	default:
		return ""
	}
}

// isFatal distinguishes errors that abort the whole aggregation from
// per-slice failures that only skip a slice. Only configuration errors
// and corrupted ledger state qualify; a schedule missing from one
// school's ledger costs that slice alone.
func isFatal(err error) bool {
	return errors.Is(err, charting.ErrBadChartSpecification) ||
		errors.Is(err, ledger.ErrLedgerLocked) ||
		errors.Is(err, ledger.ErrNilRecord) ||
		errors.Is(err, ledger.ErrDateMismatch) ||
		errors.Is(err, ledger.ErrMissingDate) ||
		errors.Is(err, ledger.ErrInvalidMetric) ||
		errors.Is(err, ledger.ErrBadHalfHourIndex)
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseFloats(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseRanges(s []school.DateRange) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
