package charting

import (
	"fmt"
	"time"

	ledger "energy-dashboard/internal/ledger/domain"
)

// XAxis selects the time-bucketing granularity of the chart's x axis.
type XAxis string

const (
	XAxisYear          XAxis = "year"
	XAxisAcademicYear  XAxis = "academicyear"
	XAxisMonth         XAxis = "month"
	XAxisWeek          XAxis = "week"
	XAxisDay           XAxis = "day"
	XAxisDayOfWeek     XAxis = "dayofweek"
	XAxisIntraday      XAxis = "intraday"
	XAxisDatetime      XAxis = "datetime"
	XAxisNoDateBuckets XAxis = "nodatebuckets"
)

// IsValid checks the axis is one of the supported granularities.
func (x XAxis) IsValid() bool {
	switch x {
	case XAxisYear, XAxisAcademicYear, XAxisMonth, XAxisWeek, XAxisDay,
		XAxisDayOfWeek, XAxisIntraday, XAxisDatetime, XAxisNoDateBuckets:
		return true
	default:
		return false
	}
}

// Intraday tells if buckets are half-hours-of-day or absolute timestamps
// rather than whole dates.
func (x XAxis) Intraday() bool {
	return x == XAxisIntraday || x == XAxisDatetime
}

// Breakdown selects the series decomposition dimension.
type Breakdown string

const (
	BreakdownNone         Breakdown = "none"
	BreakdownFuel         Breakdown = "fuel"
	BreakdownDayType      Breakdown = "daytype"
	BreakdownHeating      Breakdown = "heating"
	BreakdownHeatingModel Breakdown = "heatingmodel"
)

// IsValid checks the breakdown is one of the supported dimensions.
func (b Breakdown) IsValid() bool {
	switch b {
	case BreakdownNone, BreakdownFuel, BreakdownDayType, BreakdownHeating, BreakdownHeatingModel:
		return true
	default:
		return false
	}
}

// Unit selects the y-axis quantity.
type Unit string

const (
	UnitKWH            Unit = "kwh"
	UnitEconomicCost   Unit = "economic_cost"
	UnitAccountingCost Unit = "accounting_cost"
	UnitCO2            Unit = "co2"
	UnitKW             Unit = "kw"
)

// IsValid checks the unit is one of the supported quantities.
func (u Unit) IsValid() bool {
	switch u {
	case UnitKWH, UnitEconomicCost, UnitAccountingCost, UnitCO2, UnitKW:
		return true
	default:
		return false
	}
}

// Scaling selects proportional y-axis scaling relative to school size.
type Scaling string

const (
	ScalingNone         Scaling = "none"
	ScalingPerPupil     Scaling = "per_pupil"
	ScalingPer200Pupils Scaling = "per_200_pupils"
	ScalingPerFloorArea Scaling = "per_floor_area"
)

// IsValid checks the scaling mode is supported.
func (s Scaling) IsValid() bool {
	switch s {
	case "", ScalingNone, ScalingPerPupil, ScalingPer200Pupils, ScalingPerFloorArea:
		return true
	default:
		return false
	}
}

// ChartType is passed through to the renderer; only scatter changes the
// aggregation pipeline (axis reorganisation).
type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartColumn  ChartType = "column"
	ChartLine    ChartType = "line"
	ChartPie     ChartType = "pie"
	ChartScatter ChartType = "scatter"
)

// Inject selects synthetic comparison data appended after merging.
type Inject string

// InjectBenchmark appends national/regional/exemplar benchmark buckets.
const InjectBenchmark Inject = "benchmark"

// PeriodUnit is the unit of a relative timescale.
type PeriodUnit string

const (
	PeriodYear         PeriodUnit = "year"
	PeriodAcademicYear PeriodUnit = "academicyear"
	PeriodMonth        PeriodUnit = "month"
	PeriodWeek         PeriodUnit = "week"
	PeriodDay          PeriodUnit = "day"
)

// Timescale selects one comparison period: an explicit date range, or a
// relative window (unit + offset, 0 = most recent, -1 = the one before).
type Timescale struct {
	Unit   PeriodUnit `yaml:"unit"`
	Offset int        `yaml:"offset"`

	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
}

// Explicit tells if the timescale names a literal date range.
func (t Timescale) Explicit() bool {
	return !t.Start.IsZero() && !t.End.IsZero()
}

// Validate checks the timescale is usable.
func (t Timescale) Validate() error {
	if t.Explicit() {
		if t.End.Before(t.Start) {
			return fmt.Errorf("%w: timescale range ends before it starts", ErrBadChartSpecification)
		}
		return nil
	}
	switch t.Unit {
	case PeriodYear, PeriodAcademicYear, PeriodMonth, PeriodWeek, PeriodDay:
	default:
		return fmt.Errorf("%w: unknown timescale unit %q", ErrBadChartSpecification, t.Unit)
	}
	if t.Offset > 0 {
		return fmt.Errorf("%w: timescale offset must be <= 0", ErrBadChartSpecification)
	}
	return nil
}

// SortDimension orders merged (school, period) slices.
type SortDimension string

const (
	SortBySchool SortDimension = "school"
	SortByTime   SortDimension = "time"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortKey is one level of a composite sort specification.
type SortKey struct {
	Dimension SortDimension `yaml:"dimension"`
	Direction SortDirection `yaml:"direction"`
}

// Filter retains only series matching per-dimension allow-lists. Matching
// is exact membership, not pattern matching. A nil list is a no-op for its
// dimension.
type Filter struct {
	Submeter  []string `yaml:"submeter"`
	Meter     []string `yaml:"meter"`
	Fuel      []string `yaml:"fuel"`
	DayType   []string `yaml:"daytype"`
	ModelType []string `yaml:"model_type"`
	Heating   *bool    `yaml:"heating"`
}

// Empty tells if no dimension is constrained.
func (f *Filter) Empty() bool {
	if f == nil {
		return true
	}
	return len(f.Submeter) == 0 && len(f.Meter) == 0 && len(f.Fuel) == 0 &&
		len(f.DayType) == 0 && len(f.ModelType) == 0 && f.Heating == nil
}

// XAxisReformat rewrites bucket date labels with a Go time layout.
type XAxisReformat struct {
	Date string `yaml:"date"`
}

// SeriesNameOrder optionally reverses the declared series order.
type SeriesNameOrder string

// SeriesOrderReverse reverses the series name order.
const SeriesOrderReverse SeriesNameOrder = "reverse"

// ChartConfig is the flat option record driving one aggregation. Any unset
// optional field is a no-op for its corresponding pipeline phase.
type ChartConfig struct {
	Name            string
	ChartType       ChartType
	XAxis           XAxis
	SeriesBreakdown Breakdown
	Timescales      []Timescale // empty = unbounded (whole available range)
	YAxisUnits      Unit
	YAxisScaling    Scaling
	Y2Axis          string // one of the Y2 series names, or empty
	Filter          *Filter
	GroupBy         bool
	SortBy          []SortKey
	Inject          Inject
	Schools         []string // explicit school list; empty = the single target
	IncludeAverage  bool     // add a synthetic averaged school to Schools
	SeriesNameOrder SeriesNameOrder
	ReverseXAxis    bool
	XAxisReformat   *XAxisReformat
	MinYValue       *float64
}

// Validate checks the whole configuration once, before any aggregation
// runs. Malformed specifications are fatal configuration errors.
func (c ChartConfig) Validate() error {
	if !c.XAxis.IsValid() {
		return fmt.Errorf("%w: unknown x axis %q", ErrBadChartSpecification, c.XAxis)
	}
	if !c.SeriesBreakdown.IsValid() {
		return fmt.Errorf("%w: unknown series breakdown %q", ErrBadChartSpecification, c.SeriesBreakdown)
	}
	if !c.YAxisUnits.IsValid() {
		return fmt.Errorf("%w: unknown y axis unit %q", ErrBadChartSpecification, c.YAxisUnits)
	}
	if !c.YAxisScaling.IsValid() {
		return fmt.Errorf("%w: unknown y axis scaling %q", ErrBadChartSpecification, c.YAxisScaling)
	}
	for _, ts := range c.Timescales {
		if err := ts.Validate(); err != nil {
			return err
		}
	}
	for _, key := range c.SortBy {
		if key.Dimension != SortBySchool && key.Dimension != SortByTime {
			return fmt.Errorf("%w: bad sort specification %q", ErrBadChartSpecification, key.Dimension)
		}
		if key.Direction != SortAsc && key.Direction != SortDesc {
			return fmt.Errorf("%w: bad sort direction %q", ErrBadChartSpecification, key.Direction)
		}
	}
	if c.Y2Axis != "" && !IsY2Series(c.Y2Axis) {
		return fmt.Errorf("%w: unknown y2 axis series %q", ErrBadChartSpecification, c.Y2Axis)
	}
	if c.XAxisReformat != nil && c.XAxisReformat.Date == "" {
		return fmt.Errorf("%w: x axis reformat requires a date layout", ErrBadChartSpecification)
	}
	if c.SeriesNameOrder != "" && c.SeriesNameOrder != SeriesOrderReverse {
		return fmt.Errorf("%w: unknown series name order %q", ErrBadChartSpecification, c.SeriesNameOrder)
	}
	if c.Inject != "" && c.Inject != InjectBenchmark {
		return fmt.Errorf("%w: unknown inject %q", ErrBadChartSpecification, c.Inject)
	}
	return nil
}

// Metric maps the configured unit to the underlying ledger metric. kW
// charts aggregate kWh and convert after bucketing.
func (c ChartConfig) Metric() ledger.Metric {
	switch c.YAxisUnits {
	case UnitEconomicCost:
		return ledger.MetricEconomicCost
	case UnitAccountingCost:
		return ledger.MetricAccountingCost
	case UnitCO2:
		return ledger.MetricCO2
	default:
		return ledger.MetricKWH
	}
}
