package charting

import (
	"fmt"
	"math"

	school "energy-dashboard/internal/school/domain"
)

// Period is one resolved comparison window on the x axis.
type Period struct {
	Label string
	Range school.DateRange
}

// SeriesSet is the working form of bucketed data during the pipeline:
// seriesKey -> accumulated values aligned to one shared x axis, plus the
// parallel sample counts needed for kW conversion. Missing or incalculable
// values are NaN until final normalisation.
type SeriesSet struct {
	Data  map[string][]float64
	Count map[string][]int
}

// NewSeriesSet creates empty zeroed buckets for each series name.
func NewSeriesSet(seriesNames []string, buckets int) *SeriesSet {
	set := &SeriesSet{
		Data:  make(map[string][]float64, len(seriesNames)),
		Count: make(map[string][]int, len(seriesNames)),
	}
	for _, name := range seriesNames {
		set.Data[name] = make([]float64, buckets)
		set.Count[name] = make([]int, buckets)
	}
	return set
}

// AddToBucket accumulates one value into a series bucket, creating the
// series on first touch.
func (s *SeriesSet) AddToBucket(seriesName string, index int, value float64, buckets int) {
	if _, ok := s.Data[seriesName]; !ok {
		s.Data[seriesName] = make([]float64, buckets)
		s.Count[seriesName] = make([]int, buckets)
	}
	s.Data[seriesName][index] += value
	s.Count[seriesName][index]++ // required to calculate kW later
}

// GroupedSeries is the hierarchical regrouping of flat colon-delimited
// keys, for consumers that want clustered/stacked structure.
type GroupedSeries map[string]*GroupNode

// GroupNode is either a leaf holding bucket values or an inner node.
type GroupNode struct {
	Values   []float64
	Children GroupedSeries
}

// Regroup reinterprets composite keys of 1..3 colon-delimited segments as
// a nested structure. Keys deeper than MaxKeyDepth are a configuration
// error; validation happens before any node is built so a failure leaves
// no partial state.
func Regroup(data map[string][]float64) (GroupedSeries, error) {
	for key := range data {
		if len(SplitKey(key)) > MaxKeyDepth {
			return nil, fmt.Errorf("%w: too much grouping depth in %q", ErrBadChartSpecification, key)
		}
	}

	grouped := make(GroupedSeries, len(data))
	for key, values := range data {
		segments := SplitKey(key)
		node := grouped
		for i, segment := range segments {
			if i == len(segments)-1 {
				node[segment] = &GroupNode{Values: values}
				break
			}
			child, ok := node[segment]
			if !ok || child.Children == nil {
				child = &GroupNode{Children: GroupedSeries{}}
				node[segment] = child
			}
			node = child.Children
		}
	}
	return grouped, nil
}

// Result is one finished aggregation, ready for a renderer. NaN leaves
// have been replaced by nil, the explicit missing-value marker, for
// consumers that cannot represent NaN.
type Result struct {
	XAxis             []string
	XAxisBucketRanges []school.DateRange
	XAxisLabel        string

	// SeriesOrder carries the presentation order the map cannot.
	SeriesOrder  []string
	Series       map[string][]*float64
	SeriesCounts map[string][]int
	Y2           map[string][]*float64
	Grouped      GroupedSeries

	// scatter charts displace dates off the x axis; they survive here as
	// point-label metadata.
	DataLabels []string

	SeriesTotals map[string]float64
	GrandTotal   float64
	TitleSummary string

	Warnings []string
}

// Valid distinguishes a populated result from one with zero successfully
// aggregated slices.
func (r *Result) Valid() bool {
	return r != nil && len(r.Series) > 0
}

// NormalizeMissing converts a raw series array to the presentable form,
// replacing every NaN leaf with nil. Non-NaN values pass through.
func NormalizeMissing(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		value := v
		out[i] = &value
	}
	return out
}
