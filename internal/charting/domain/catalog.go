package charting

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// CatalogEntry is one named chart in a catalog. Entries may inherit from
// another entry; nil fields mean "inherit" and set fields override. The
// chain is flattened into one ChartConfig by ResolveChart before any
// aggregation runs - no runtime registry is involved.
type CatalogEntry struct {
	InheritsFrom string `yaml:"inherits_from"`

	Name            *string        `yaml:"name"`
	ChartType       *string        `yaml:"chart_type"`
	XAxis           *string        `yaml:"x_axis"`
	SeriesBreakdown *string        `yaml:"series_breakdown"`
	Timescale       []string       `yaml:"timescale"`
	YAxisUnits      *string        `yaml:"yaxis_units"`
	YAxisScaling    *string        `yaml:"yaxis_scaling"`
	Y2Axis          *string        `yaml:"y2_axis"`
	Filter          *Filter        `yaml:"filter"`
	GroupBy         *bool          `yaml:"group_by"`
	SortBy          []SortKey      `yaml:"sort_by"`
	Inject          *string        `yaml:"inject"`
	Schools         []string       `yaml:"schools"`
	IncludeAverage  *bool          `yaml:"include_average"`
	SeriesNameOrder *string        `yaml:"series_name_order"`
	ReverseXAxis    *bool          `yaml:"reverse_x_axis"`
	XAxisReformat   *XAxisReformat `yaml:"x_axis_reformat"`
}

// Catalog is the static lookup of named chart configurations.
type Catalog map[string]CatalogEntry

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("charting: read catalog: %w", err)
	}
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("charting: parse catalog: %w", err)
	}
	return catalog, nil
}

// ResolveChart flattens an entry's inheritance chain into one validated
// ChartConfig. Pure: the catalog is never mutated and resolution has no
// side effects.
func (c Catalog) ResolveChart(name string) (ChartConfig, error) {
	merged, err := c.flatten(name, map[string]bool{})
	if err != nil {
		return ChartConfig{}, err
	}
	cfg, err := merged.toConfig(name)
	if err != nil {
		return ChartConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return ChartConfig{}, fmt.Errorf("chart %q: %w", name, err)
	}
	return cfg, nil
}

func (c Catalog) flatten(name string, visiting map[string]bool) (CatalogEntry, error) {
	entry, ok := c[name]
	if !ok {
		return CatalogEntry{}, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	if entry.InheritsFrom == "" {
		return entry, nil
	}
	if visiting[name] {
		return CatalogEntry{}, fmt.Errorf("%w: via %q", ErrInheritanceCycle, name)
	}
	visiting[name] = true

	base, err := c.flatten(entry.InheritsFrom, visiting)
	if err != nil {
		return CatalogEntry{}, err
	}
	return mergeEntries(base, entry), nil
}

// mergeEntries overlays the child's set fields onto the base.
func mergeEntries(base, child CatalogEntry) CatalogEntry {
	merged := base
	merged.InheritsFrom = ""
	if child.Name != nil {
		merged.Name = child.Name
	}
	if child.ChartType != nil {
		merged.ChartType = child.ChartType
	}
	if child.XAxis != nil {
		merged.XAxis = child.XAxis
	}
	if child.SeriesBreakdown != nil {
		merged.SeriesBreakdown = child.SeriesBreakdown
	}
	if child.Timescale != nil {
		merged.Timescale = child.Timescale
	}
	if child.YAxisUnits != nil {
		merged.YAxisUnits = child.YAxisUnits
	}
	if child.YAxisScaling != nil {
		merged.YAxisScaling = child.YAxisScaling
	}
	if child.Y2Axis != nil {
		merged.Y2Axis = child.Y2Axis
	}
	if child.Filter != nil {
		merged.Filter = child.Filter
	}
	if child.GroupBy != nil {
		merged.GroupBy = child.GroupBy
	}
	if child.SortBy != nil {
		merged.SortBy = child.SortBy
	}
	if child.Inject != nil {
		merged.Inject = child.Inject
	}
	if child.Schools != nil {
		merged.Schools = child.Schools
	}
	if child.IncludeAverage != nil {
		merged.IncludeAverage = child.IncludeAverage
	}
	if child.SeriesNameOrder != nil {
		merged.SeriesNameOrder = child.SeriesNameOrder
	}
	if child.ReverseXAxis != nil {
		merged.ReverseXAxis = child.ReverseXAxis
	}
	if child.XAxisReformat != nil {
		merged.XAxisReformat = child.XAxisReformat
	}
	return merged
}

func (e CatalogEntry) toConfig(name string) (ChartConfig, error) {
	cfg := ChartConfig{
		Name:            stringOr(e.Name, name),
		ChartType:       ChartType(stringOr(e.ChartType, string(ChartColumn))),
		XAxis:           XAxis(stringOr(e.XAxis, "")),
		SeriesBreakdown: Breakdown(stringOr(e.SeriesBreakdown, string(BreakdownNone))),
		YAxisUnits:      Unit(stringOr(e.YAxisUnits, string(UnitKWH))),
		YAxisScaling:    Scaling(stringOr(e.YAxisScaling, string(ScalingNone))),
		Y2Axis:          stringOr(e.Y2Axis, ""),
		Filter:          e.Filter,
		GroupBy:         boolOr(e.GroupBy, false),
		SortBy:          e.SortBy,
		Inject:          Inject(stringOr(e.Inject, "")),
		Schools:         e.Schools,
		IncludeAverage:  boolOr(e.IncludeAverage, false),
		SeriesNameOrder: SeriesNameOrder(stringOr(e.SeriesNameOrder, "")),
		ReverseXAxis:    boolOr(e.ReverseXAxis, false),
		XAxisReformat:   e.XAxisReformat,
	}

	for _, spec := range e.Timescale {
		ts, err := ParseTimescale(spec)
		if err != nil {
			return ChartConfig{}, fmt.Errorf("chart %q: %w", name, err)
		}
		cfg.Timescales = append(cfg.Timescales, ts)
	}
	return cfg, nil
}

// ParseTimescale parses a catalog timescale spec: "year", "year:-1",
// "week:-3" or an explicit "2024-09-01..2025-08-31" range.
func ParseTimescale(spec string) (Timescale, error) {
	if spec == "" {
		return Timescale{}, fmt.Errorf("%w: empty timescale", ErrBadChartSpecification)
	}

	if startText, endText, found := strings.Cut(spec, ".."); found {
		start, err1 := time.Parse("2006-01-02", startText)
		end, err2 := time.Parse("2006-01-02", endText)
		if err1 != nil || err2 != nil {
			return Timescale{}, fmt.Errorf("%w: bad timescale range %q", ErrBadChartSpecification, spec)
		}
		return Timescale{Start: start, End: end}, nil
	}

	unit := spec
	offset := 0
	if unitText, offsetText, found := strings.Cut(spec, ":"); found {
		unit = unitText
		parsed, err := strconv.Atoi(offsetText)
		if err != nil {
			return Timescale{}, fmt.Errorf("%w: bad timescale offset %q", ErrBadChartSpecification, spec)
		}
		offset = parsed
	}
	ts := Timescale{Unit: PeriodUnit(unit), Offset: offset}
	if err := ts.Validate(); err != nil {
		return Timescale{}, err
	}
	return ts, nil
}

func stringOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}
