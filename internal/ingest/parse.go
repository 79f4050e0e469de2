package ingest

import (
	"fmt"
	"math"
	"strings"

	"countyq/internal/models"
	"countyq/internal/textutil"
)

// defaultHeaderIndex is used when no sentinel header row is found. Some
// exports omit the "County"/"Population" labels but keep a stable layout.
const defaultHeaderIndex = 2

// Column labels as they appear in the source sheet. The sheet places two
// sub-tables side by side in the same row, so the right-hand labels repeat
// the left-hand ones and pick up a "_2" suffix during disambiguation.
const (
	colCounty    = "County"
	colCounty2   = "County_2"
	colPop       = "Population"
	colHispanic  = "Population - H"
	colProjected = "Projected Population - H"
	colRegion    = "Region"
	colRegion2   = "Region_2"
)

// Parse turns raw tabular rows into a complete snapshot: per-county rows,
// grand totals and per-region totals, all rebuilt from scratch.
func Parse(table [][]string) (*models.Snapshot, error) {
	headerIdx, err := findHeaderRow(table)
	if err != nil {
		return nil, err
	}

	columns := columnNames(table[headerIdx])

	snap := &models.Snapshot{
		Rows:         []models.Row{},
		RegionTotals: make(map[models.Region]models.Totals, 3),
	}
	for _, r := range models.Regions() {
		snap.RegionTotals[r] = models.Totals{}
	}

	for _, raw := range table[headerIdx+1:] {
		if emptyRow(raw) {
			continue
		}

		fields := mapRow(columns, raw)

		county := strings.TrimSpace(fields[colCounty])
		if county == "" || strings.Contains(strings.ToLower(county), "total") {
			// Summary rows must never fold into per-county rows.
			continue
		}

		rightCounty := strings.TrimSpace(fields[colCounty2])
		if rightCounty == "" {
			rightCounty = county
		}

		pop := textutil.ParseNumber(fields[colPop])
		hispanic := textutil.ParseNumber(fields[colHispanic])
		projected := textutil.ParseNumber(fields[colProjected])

		region := normalizeRegion(fields[colRegion])
		rightRegion := normalizeRegion(fields[colRegion2])
		if rightRegion == "" {
			rightRegion = region
		}

		if !math.IsNaN(pop) {
			snap.Rows = append(snap.Rows, models.Row{
				County:     county,
				Kind:       models.KindPopulation,
				Population: models.Float(pop),
				Region:     region,
			})
			snap.Totals.Population += pop
			if region != "" {
				t := snap.RegionTotals[region]
				t.Population += pop
				snap.RegionTotals[region] = t
			}
		}

		// Either figure alone is enough for a hispanic row; they may
		// legitimately differ in availability.
		if !math.IsNaN(hispanic) || !math.IsNaN(projected) {
			row := models.Row{
				County: rightCounty,
				Kind:   models.KindHispanic,
				Region: rightRegion,
			}
			if !math.IsNaN(hispanic) {
				row.HispanicPopulation = models.Float(hispanic)
				snap.Totals.Hispanic += hispanic
				if rightRegion != "" {
					t := snap.RegionTotals[rightRegion]
					t.Hispanic += hispanic
					snap.RegionTotals[rightRegion] = t
				}
			}
			if !math.IsNaN(projected) {
				row.ProjectedPopulation = models.Float(projected)
				snap.Totals.Projected += projected
				if rightRegion != "" {
					t := snap.RegionTotals[rightRegion]
					t.Projected += projected
					snap.RegionTotals[rightRegion] = t
				}
			}
			snap.Rows = append(snap.Rows, row)
		}
	}

	return snap, nil
}

// findHeaderRow locates the first row whose first two cells equal "County"
// and "Population". Falls back to a fixed index for exports that drop the
// sentinel text but keep the layout.
func findHeaderRow(table [][]string) (int, error) {
	for i, row := range table {
		if len(row) >= 2 &&
			strings.TrimSpace(row[0]) == colCounty &&
			strings.TrimSpace(row[1]) == colPop {
			return i, nil
		}
	}
	if defaultHeaderIndex < len(table) {
		return defaultHeaderIndex, nil
	}
	return 0, fmt.Errorf("no header row found in %d rows", len(table))
}

// columnNames builds field names from the header row. Repeated labels get
// _2, _3, ... suffixes in order of appearance; empty cells get a synthetic
// name keyed by column index.
func columnNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("Column_%d", i)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		names[i] = name
	}

	return names
}

// mapRow maps raw cells to named fields, tolerating short rows.
func mapRow(columns []string, row []string) map[string]string {
	fields := make(map[string]string, len(columns))
	for i, name := range columns {
		if i < len(row) {
			fields[name] = row[i]
		} else {
			fields[name] = ""
		}
	}
	return fields
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// normalizeRegion maps free-form region text to one of the three fixed
// regions. Substring matches win; bare single-letter codes are accepted as
// a fallback. Anything else is no region at all.
func normalizeRegion(raw string) models.Region {
	s := textutil.Normalize(raw)
	if s == "" {
		return ""
	}

	switch {
	case strings.Contains(s, "central"):
		return models.RegionCentral
	case strings.Contains(s, "east"):
		return models.RegionEast
	case strings.Contains(s, "west"):
		return models.RegionWest
	}

	switch s {
	case "c":
		return models.RegionCentral
	case "e":
		return models.RegionEast
	case "w":
		return models.RegionWest
	}

	return ""
}
