package textutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"countyq/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Colbert County", "colbert county"},
		{"strips punctuation", "What is the population of Colbert County?", "what is the population of colbert county"},
		{"removes diacritics", "Málaga Peñasco", "malaga penasco"},
		{"collapses whitespace", "  east   \t region \n", "east region"},
		{"keeps digits", "top 5 counties", "top 5 counties"},
		{"empty", "", ""},
		{"only symbols", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"total", "population"}, Tokenize("  Total, population!  "))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("  ?!  "))
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 54000.0, ParseNumber("54,000"))
	assert.Equal(t, 1234.5, ParseNumber("1 234.5"))
	assert.Equal(t, 1234.0, ParseNumber("1 234"))
	assert.Equal(t, -42.0, ParseNumber("-42"))
	assert.Equal(t, 0.0, ParseNumber("0"))

	assert.True(t, math.IsNaN(ParseNumber("")))
	assert.True(t, math.IsNaN(ParseNumber("n/a")))
	assert.True(t, math.IsNaN(ParseNumber("--")))
	assert.True(t, math.IsNaN(ParseNumber("1.2.3")))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234.6", FormatNumber(models.MetricProjected, 1234.56))
	assert.Equal(t, "1,235", FormatNumber(models.MetricPopulation, 1234.56))
	assert.Equal(t, "1,235", FormatNumber(models.MetricHispanic, 1234.56))
	assert.Equal(t, "54,000", FormatNumber(models.MetricPopulation, 54000))
	assert.Equal(t, "0", FormatNumber(models.MetricPopulation, 0))

	assert.Equal(t, "unknown", FormatNumber(models.MetricPopulation, math.NaN()))
	assert.Equal(t, "unknown", FormatNumber(models.MetricProjected, math.NaN()))
	assert.Equal(t, "unknown", FormatNumber(models.MetricHispanic, math.Inf(1)))
}
