package models

import "fmt"

// Metric identifies which demographic figure a question is about.
type Metric string

const (
	MetricPopulation Metric = "population"
	MetricHispanic   Metric = "hispanic"
	MetricProjected  Metric = "projected"
)

// ValidateMetric checks if the metric is one of the known values.
func ValidateMetric(m Metric) error {
	switch m {
	case MetricPopulation, MetricHispanic, MetricProjected:
		return nil
	default:
		return fmt.Errorf("invalid metric: %s", m)
	}
}

// Region is one of the three fixed geographic buckets a county may belong to.
// The empty string means no region was recognized in the source.
type Region string

const (
	RegionEast    Region = "east"
	RegionWest    Region = "west"
	RegionCentral Region = "central"
)

// Regions lists the three fixed region keys in a stable order.
func Regions() []Region {
	return []Region{RegionEast, RegionWest, RegionCentral}
}

// RowKind distinguishes the two measurement rows a county may contribute.
type RowKind string

const (
	KindPopulation RowKind = "population"
	KindHispanic   RowKind = "hispanic"
)

// Row is one measurement for one county. A county contributes at most two
// rows: one general-population row and one hispanic/projected row. Numeric
// fields that are not applicable to the row's kind stay nil; nil means
// "not present in source", zero is a real measured value.
type Row struct {
	County              string   `json:"county"`
	Kind                RowKind  `json:"kind"`
	Population          *float64 `json:"population,omitempty"`
	HispanicPopulation  *float64 `json:"hispanic_population,omitempty"`
	ProjectedPopulation *float64 `json:"projected_population,omitempty"`
	Region              Region   `json:"region,omitempty"`
}

// Totals holds running sums over all rows of the corresponding field.
type Totals struct {
	Population float64 `json:"population"`
	Hispanic   float64 `json:"hispanic"`
	Projected  float64 `json:"projected"`
}

// Get returns the total for a metric.
func (t Totals) Get(m Metric) float64 {
	switch m {
	case MetricPopulation:
		return t.Population
	case MetricHispanic:
		return t.Hispanic
	case MetricProjected:
		return t.Projected
	}
	return 0
}

// Snapshot is the complete state produced by one ingestion pass. It is
// immutable after construction and replaced wholesale on each refresh.
type Snapshot struct {
	Rows         []Row             `json:"rows"`
	Totals       Totals            `json:"totals"`
	RegionTotals map[Region]Totals `json:"region_totals"`
}

// Float returns a pointer to v. Convenience for building rows.
func Float(v float64) *float64 {
	return &v
}
