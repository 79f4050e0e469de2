// Package textutil canonicalizes raw strings and numeric-looking strings so
// the ingestor and the answer engine can compare and render them consistently.
package textutil

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/unicode/norm"

	"countyq/internal/models"
)

// Normalize lowercases, applies Unicode canonical decomposition, strips every
// rune that is not a letter, digit or whitespace, collapses whitespace runs
// and trims. Diacritics fall away as a side effect of decomposition.
func Normalize(s string) string {
	s = norm.NFD.String(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize normalizes and splits on whitespace, dropping empty tokens.
func Tokenize(s string) []string {
	return strings.Fields(Normalize(s))
}

// ParseNumber strips non-breaking spaces and every character except digits,
// '.' and '-', then parses. Returns NaN when nothing parseable remains; it
// never returns an error so ingestion can treat failures as "field absent".
func ParseNumber(s string) float64 {
	s = strings.ReplaceAll(s, " ", "")

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// FormatNumber renders a metric value for humans. NaN and infinities render
// as "unknown". Projected figures keep exactly one fractional digit because
// the source carries meaningful fractional precision for them; every other
// metric rounds to the nearest integer. Both use thousands separators.
func FormatNumber(metric models.Metric, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "unknown"
	}
	if metric == models.MetricProjected {
		return humanize.FormatFloat("#,###.#", v)
	}
	return humanize.Comma(int64(math.Round(v)))
}
