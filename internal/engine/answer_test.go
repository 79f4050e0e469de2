package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countyq/internal/models"
	"countyq/internal/store"
)

func testEngine(snap *models.Snapshot) *Engine {
	st := store.New()
	if snap != nil {
		st.Swap(snap)
	}
	return New(st)
}

func TestAnswerUnclear(t *testing.T) {
	eng := testEngine(testSnapshot())

	for _, q := range []string{
		"asdf qwerty",
		"",
		"tell me a joke about weather",
	} {
		ans := eng.Answer(q)
		assert.Equal(t, TypeUnclear, ans.Meta.Type, "question %q", q)
	}
}

func TestAnswerCountyPopulation(t *testing.T) {
	eng := testEngine(testSnapshot())

	ans := eng.Answer("What is the population of Colbert County?")
	assert.Equal(t, TypeCounty, ans.Meta.Type)
	assert.Equal(t, "population", ans.Meta.Metric)
	assert.Equal(t, "Colbert", ans.Meta.County)
	assert.Contains(t, ans.Text, "54,000")
}

func TestAnswerCountyHispanic(t *testing.T) {
	eng := testEngine(testSnapshot())

	ans := eng.Answer("What is the hispanic population of Colbert County?")
	assert.Equal(t, TypeCounty, ans.Meta.Type)
	assert.Equal(t, "hispanic", ans.Meta.Metric)
	assert.Contains(t, ans.Text, "500")
}

func TestAnswerCountyProjected(t *testing.T) {
	eng := testEngine(testSnapshot())

	ans := eng.Answer("What is the projected hispanic population of Colbert County?")
	assert.Equal(t, "projected", ans.Meta.Metric)
	assert.Contains(t, ans.Text, "612.4")
}

func TestAnswerProjectedFallsBackToHispanicRow(t *testing.T) {
	eng := testEngine(testSnapshot())

	// Lauderdale's hispanic row carries no projected figure; the hispanic
	// row is still the right row, and the missing value renders unknown.
	ans := eng.Answer("What is the projected hispanic population of Lauderdale County?")
	assert.Equal(t, TypeCounty, ans.Meta.Type)
	assert.Equal(t, "projected", ans.Meta.Metric)
	assert.Contains(t, ans.Text, "unknown")
}

func TestAnswerCountyRegion(t *testing.T) {
	eng := testEngine(testSnapshot())

	ans := eng.Answer("Which region is Colbert County in?")
	assert.Equal(t, TypeCounty, ans.Meta.Type)
	assert.Equal(t, "region", ans.Meta.Metric)
	assert.Equal(t, models.RegionEast, ans.Meta.Region)
	assert.Contains(t, ans.Text, "east")
}

func TestAnswerCountyRegionBeatsRegionPercent(t *testing.T) {
	eng := testEngine(testSnapshot())

	// Mentions percent vocabulary and a region name, but the county-scoped
	// region question must win the tie-break.
	ans := eng.Answer("Which region is Colbert County in, east or west, percentage wise?")
	assert.Equal(t, TypeCounty, ans.Meta.Type)
	assert.Equal(t, "region", ans.Meta.Metric)
}

func TestAnswerCountyRegionMissing(t *testing.T) {
	eng := testEngine(testSnapshot())

	// Morgan has no region-bearing row.
	ans := eng.Answer("Which region is Morgan County in?")
	assert.Equal(t, TypeError, ans.Meta.Type)
	assert.Equal(t, ReasonNoRow, ans.Meta.Reason)
}

func TestAnswerRegionPercent(t *testing.T) {
	eng := testEngine(testSnapshot())

	ans := eng.Answer("What percent of the Hispanic population lives in the east region?")
	assert.Equal(t, TypePercent, ans.Meta.Type)
	assert.Equal(t, "hispanic", ans.Meta.Metric)
	assert.Equal(t, models.RegionEast, ans.Meta.Region)
	assert.Contains(t, ans.Text, "25.0%")
}

func TestAnswerRegionPercentZeroGrandTotal(t *testing.T) {
	snap := testSnapshot()
	snap.Totals.Projected = 0
	eng := testEngine(snap)

	ans := eng.Answer("What share of the projected hispanic population is in the west region?")
	assert.Equal(t, TypePercent, ans.Meta.Type)
	assert.Contains(t, ans.Text, "unknown")
	assert.NotContains(t, ans.Text, "Inf")
	assert.NotContains(t, ans.Text, "NaN")
}

func TestAnswerRegionTotal(t *testing.T) {
	eng := testEngine(testSnapshot())

	ans := eng.Answer("What is the total population of the west region?")
	assert.Equal(t, TypeTotal, ans.Meta.Type)
	assert.Equal(t, "population", ans.Meta.Metric)
	assert.Equal(t, models.RegionWest, ans.Meta.Region)
	assert.Contains(t, ans.Text, "92,000")
}

func TestAnswerGrandTotal(t *testing.T) {
	eng := testEngine(testSnapshot())

	ans := eng.Answer("total population")
	assert.Equal(t, TypeTotal, ans.Meta.Type)
	assert.Equal(t, "population", ans.Meta.Metric)
	assert.Contains(t, ans.Text, "265,000")

	ans = eng.Answer("overall hispanic population")
	assert.Equal(t, TypeTotal, ans.Meta.Type)
	assert.Equal(t, "hispanic", ans.Meta.Metric)
	assert.Contains(t, ans.Text, "2,000")
}

func TestAnswerNoCounty(t *testing.T) {
	eng := testEngine(testSnapshot())

	ans := eng.Answer("What is the population of Madison County?")
	assert.Equal(t, TypeError, ans.Meta.Type)
	assert.Equal(t, ReasonNoCounty, ans.Meta.Reason)
	require.Contains(t, ans.Text, "county")
}

func TestAnswerNoRow(t *testing.T) {
	snap := testSnapshot()
	// Morgan only has a population row.
	eng := testEngine(snap)

	ans := eng.Answer("What is the hispanic population of Morgan County?")
	assert.Equal(t, TypeError, ans.Meta.Type)
	assert.Equal(t, ReasonNoRow, ans.Meta.Reason)
	assert.Equal(t, "Morgan", ans.Meta.County)
}

func TestAnswerBeforeFirstIngest(t *testing.T) {
	eng := testEngine(nil)

	ans := eng.Answer("What is the population of Colbert County?")
	assert.Equal(t, TypeError, ans.Meta.Type)
	assert.Equal(t, ReasonNoCounty, ans.Meta.Reason)

	ans = eng.Answer("asdf qwerty")
	assert.Equal(t, TypeUnclear, ans.Meta.Type)
}
