// Package engine answers natural-language questions about county demographic
// statistics against the current snapshot. It is purely computational: it
// never calls the network and never mutates shared state.
package engine

import (
	"fmt"
	"math"
	"strings"

	"countyq/internal/models"
	"countyq/internal/store"
	"countyq/internal/textutil"
)

// clarityThreshold gates whether a question is answerable at all. Below it
// the engine declines instead of guessing.
const clarityThreshold = 0.1

// Answer meta types.
const (
	TypeUnclear = "unclear"
	TypeCounty  = "county"
	TypePercent = "percent"
	TypeTotal   = "total"
	TypeError   = "error"
)

// Error reasons carried in Meta.Reason.
const (
	ReasonNoCounty  = "no_county"
	ReasonNoRow     = "no_row"
	ReasonBadMetric = "unsupported_metric"
	ReasonOffTopic  = "off_topic"
)

// Meta tags an answer so callers can tell a structured result from an error
// without parsing the prose.
type Meta struct {
	Type   string        `json:"type"`
	Metric string        `json:"metric,omitempty"`
	County string        `json:"county,omitempty"`
	Region models.Region `json:"region,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// Answer is the engine's only output shape. Every code path, including
// malformed input, terminates in one of these; the engine never errors.
type Answer struct {
	Text string `json:"answer"`
	Meta Meta   `json:"meta"`
}

// Engine resolves questions against the store's current snapshot.
type Engine struct {
	store *store.Store
}

// New creates an engine reading from the given store.
func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// rule is one guarded step of the resolution order. The order of the rule
// table is intentional priority logic: a county-scoped region question beats
// region-percent beats region-total beats grand-total beats per-county.
type rule struct {
	name    string
	applies func(Intent) bool
	build   func(*models.Snapshot, Intent) Answer
}

var rules = []rule{
	{
		name:    "county-region",
		applies: func(it Intent) bool { return it.County != "" && it.AsksRegion },
		build:   answerCountyRegion,
	},
	{
		name:    "region-percent",
		applies: func(it Intent) bool { return it.WantsPercent && it.Region != "" },
		build:   answerRegionPercent,
	},
	{
		name:    "region-total",
		applies: func(it Intent) bool { return it.WantsTotal && it.Region != "" },
		build:   answerRegionTotal,
	},
	{
		name:    "grand-total",
		applies: func(it Intent) bool { return it.WantsTotal },
		build:   answerGrandTotal,
	},
	{
		name:    "no-county",
		applies: func(it Intent) bool { return it.County == "" },
		build:   answerNoCounty,
	},
	{
		name:    "county-metric",
		applies: func(Intent) bool { return true },
		build:   answerCountyMetric,
	},
}

// Answer resolves a question. Total for any string input; an empty question
// scores zero clarity and returns the unclear answer.
func (e *Engine) Answer(question string) Answer {
	snap := e.store.Current()
	if snap == nil {
		snap = &models.Snapshot{RegionTotals: map[models.Region]models.Totals{}}
	}

	it := extractIntent(snap, question)

	if it.Clarity < clarityThreshold {
		return Answer{
			Text: "I'm not sure what you're asking. Try a question about a county's population, Hispanic population, or projected Hispanic population.",
			Meta: Meta{Type: TypeUnclear},
		}
	}

	for _, r := range rules {
		if r.applies(it) {
			return r.build(snap, it)
		}
	}

	// Unreachable: the last rule always applies.
	return answerNoCounty(snap, it)
}

func answerCountyRegion(snap *models.Snapshot, it Intent) Answer {
	for _, row := range snap.Rows {
		if row.Region != "" && sameCounty(row.County, it.County) {
			return Answer{
				Text: fmt.Sprintf("%s is in the %s region.", it.County, row.Region),
				Meta: Meta{Type: TypeCounty, Metric: "region", County: it.County, Region: row.Region},
			}
		}
	}
	return Answer{
		Text: fmt.Sprintf("I don't have region information for %s.", it.County),
		Meta: Meta{Type: TypeError, Reason: ReasonNoRow, County: it.County, Metric: "region"},
	}
}

func answerRegionPercent(snap *models.Snapshot, it Intent) Answer {
	regionTotal := snap.RegionTotals[it.Region].Get(it.Metric)
	grandTotal := snap.Totals.Get(it.Metric)

	// An empty or not-yet-loaded dataset has a zero grand total; report
	// unknown instead of a non-finite percentage.
	pct := "unknown"
	if grandTotal != 0 {
		pct = fmt.Sprintf("%.1f%%", regionTotal/grandTotal*100)
	}

	meta := Meta{Type: TypePercent, Metric: string(it.Metric), Region: it.Region}
	switch it.Metric {
	case models.MetricPopulation:
		return Answer{
			Text: fmt.Sprintf("The %s region holds %s of the total population.", it.Region, pct),
			Meta: meta,
		}
	case models.MetricHispanic:
		return Answer{
			Text: fmt.Sprintf("%s of the Hispanic population lives in the %s region.", pct, it.Region),
			Meta: meta,
		}
	case models.MetricProjected:
		return Answer{
			Text: fmt.Sprintf("%s of the projected Hispanic population is in the %s region.", pct, it.Region),
			Meta: meta,
		}
	}
	return Answer{
		Text: fmt.Sprintf("I can't compute a %s percentage for the %s region.", it.Metric, it.Region),
		Meta: Meta{Type: TypeError, Reason: ReasonBadMetric, Metric: string(it.Metric), Region: it.Region},
	}
}

func answerRegionTotal(snap *models.Snapshot, it Intent) Answer {
	value := snap.RegionTotals[it.Region].Get(it.Metric)
	meta := Meta{Type: TypeTotal, Metric: string(it.Metric), Region: it.Region}

	switch it.Metric {
	case models.MetricPopulation:
		return Answer{
			Text: fmt.Sprintf("The total population of the %s region is %s.", it.Region, textutil.FormatNumber(it.Metric, value)),
			Meta: meta,
		}
	case models.MetricHispanic:
		return Answer{
			Text: fmt.Sprintf("The total Hispanic population of the %s region is %s.", it.Region, textutil.FormatNumber(it.Metric, value)),
			Meta: meta,
		}
	case models.MetricProjected:
		return Answer{
			Text: fmt.Sprintf("The total projected Hispanic population of the %s region is %s.", it.Region, textutil.FormatNumber(it.Metric, value)),
			Meta: meta,
		}
	}
	return Answer{
		Text: fmt.Sprintf("I can't compute a %s total for the %s region.", it.Metric, it.Region),
		Meta: Meta{Type: TypeError, Reason: ReasonBadMetric, Metric: string(it.Metric), Region: it.Region},
	}
}

func answerGrandTotal(snap *models.Snapshot, it Intent) Answer {
	meta := Meta{Type: TypeTotal, Metric: string(it.Metric)}

	switch it.Metric {
	case models.MetricPopulation:
		return Answer{
			Text: fmt.Sprintf("The total population across all counties is %s.", textutil.FormatNumber(it.Metric, snap.Totals.Population)),
			Meta: meta,
		}
	case models.MetricHispanic:
		return Answer{
			Text: fmt.Sprintf("The total Hispanic population across all counties is %s.", textutil.FormatNumber(it.Metric, snap.Totals.Hispanic)),
			Meta: meta,
		}
	case models.MetricProjected:
		return Answer{
			Text: fmt.Sprintf("The total projected Hispanic population across all counties is %s.", textutil.FormatNumber(it.Metric, snap.Totals.Projected)),
			Meta: meta,
		}
	}
	// Unknown metric falls through to the remaining rules; a totals intent
	// implies no county was found.
	return answerNoCounty(snap, it)
}

func answerNoCounty(_ *models.Snapshot, _ Intent) Answer {
	return Answer{
		Text: "Which county are you asking about?",
		Meta: Meta{Type: TypeError, Reason: ReasonNoCounty},
	}
}

func answerCountyMetric(snap *models.Snapshot, it Intent) Answer {
	row := findRow(snap, it.County, it.Metric)
	if row == nil {
		return Answer{
			Text: fmt.Sprintf("I couldn't find %s data for %s.", metricLabel(it.Metric), it.County),
			Meta: Meta{Type: TypeError, Reason: ReasonNoRow, County: it.County, Metric: string(it.Metric)},
		}
	}

	meta := Meta{Type: TypeCounty, Metric: string(it.Metric), County: it.County}
	switch it.Metric {
	case models.MetricPopulation:
		return Answer{
			Text: fmt.Sprintf("The population of %s is %s.", it.County, textutil.FormatNumber(it.Metric, deref(row.Population))),
			Meta: meta,
		}
	case models.MetricHispanic:
		return Answer{
			Text: fmt.Sprintf("The Hispanic population of %s is %s.", it.County, textutil.FormatNumber(it.Metric, deref(row.HispanicPopulation))),
			Meta: meta,
		}
	case models.MetricProjected:
		return Answer{
			Text: fmt.Sprintf("The projected Hispanic population of %s is %s.", it.County, textutil.FormatNumber(it.Metric, deref(row.ProjectedPopulation))),
			Meta: meta,
		}
	}

	// Defensive fallback for a metric outside the known set; the cascade in
	// guessMetric never produces one, so this answer's formatting is not
	// load-bearing.
	return Answer{
		Text: fmt.Sprintf("%s: population=%s, hispanic=%s, projected=%s.",
			it.County,
			textutil.FormatNumber(models.MetricPopulation, deref(row.Population)),
			textutil.FormatNumber(models.MetricHispanic, deref(row.HispanicPopulation)),
			textutil.FormatNumber(models.MetricProjected, deref(row.ProjectedPopulation))),
		Meta: meta,
	}
}

// findRow looks up the row carrying the requested metric for a county. The
// projected metric falls back to the hispanic row because both figures live
// on the same row instance when a dedicated projected value is absent.
func findRow(snap *models.Snapshot, county string, metric models.Metric) *models.Row {
	switch metric {
	case models.MetricPopulation:
		for i, row := range snap.Rows {
			if row.Kind == models.KindPopulation && sameCounty(row.County, county) {
				return &snap.Rows[i]
			}
		}
	case models.MetricHispanic:
		for i, row := range snap.Rows {
			if row.Kind == models.KindHispanic && sameCounty(row.County, county) {
				return &snap.Rows[i]
			}
		}
	case models.MetricProjected:
		for i, row := range snap.Rows {
			if row.Kind == models.KindHispanic && row.ProjectedPopulation != nil && sameCounty(row.County, county) {
				return &snap.Rows[i]
			}
		}
		for i, row := range snap.Rows {
			if row.Kind == models.KindHispanic && sameCounty(row.County, county) {
				return &snap.Rows[i]
			}
		}
	default:
		for i, row := range snap.Rows {
			if sameCounty(row.County, county) {
				return &snap.Rows[i]
			}
		}
	}
	return nil
}

func sameCounty(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) ||
		textutil.Normalize(a) == textutil.Normalize(b)
}

func metricLabel(m models.Metric) string {
	switch m {
	case models.MetricHispanic:
		return "Hispanic population"
	case models.MetricProjected:
		return "projected Hispanic population"
	default:
		return "population"
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
