// Package recipe turns recognized recipe text into structured recipes.
//
// The parser is heuristic and tuned for German recipe cards: it picks a
// title, collects ingredient lines, extracts timings and portion counts and
// keeps everything else as description. It never fails; the worst case is a
// recipe with the first line as title and no ingredients.
package recipe

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"recipescan/pkg/models"
)

const (
	minTitleRunes = 3
	maxTitleRunes = 60
)

// Parser converts OCR text into models.Recipe values.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	countUnit string
}

// Option configures a Parser.
type Option func(*Parser)

// WithCountUnit sets the unit used for countable ingredients without a unit.
func WithCountUnit(unit string) Option {
	return func(p *Parser) {
		if unit != "" {
			p.countUnit = unit
		}
	}
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{countUnit: DefaultCountUnit}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts a recipe from text.
func (p *Parser) Parse(text string) models.Recipe {
	recipe := models.EmptyRecipe()

	lines := splitLines(text)
	if len(lines) == 0 {
		return recipe
	}

	titleIdx := 0
	for i, line := range lines {
		if isTitleCandidate(line) {
			titleIdx = i
			break
		}
	}
	recipe.Title = lines[titleIdx]

	var (
		description []string
		durations   int
	)
	for _, line := range lines[titleIdx+1:] {
		if IsIngredientLine(line) {
			recipe.Ingredients = append(recipe.Ingredients, p.ParseLine(line))
			continue
		}

		if minutes, ok := parseDuration(line); ok {
			switch durations {
			case 0:
				recipe.PrepTimeMinutes = &minutes
			case 1:
				recipe.CookTimeMinutes = &minutes
			}
			durations++
		}

		if m := rePortions.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				recipe.Portions = n
			}
		}

		if line != recipe.Title {
			description = append(description, line)
		}
	}
	recipe.Description = strings.Join(description, "\n\n")

	return recipe
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isTitleCandidate(line string) bool {
	n := utf8.RuneCountInString(line)
	if n < minTitleRunes || n > maxTitleRunes {
		return false
	}
	if reLeadingDigit.MatchString(line) {
		return false
	}
	return !IsIngredientLine(line)
}

// maxDurationMinutes bounds durations; longer digit runs are OCR noise.
const maxDurationMinutes = math.MaxInt32

// parseDuration reads the first "<n> min" or "<n> Std" mention of a line in
// minutes. Hours are converted; fractional values are truncated.
func parseDuration(line string) (int, bool) {
	m := reDuration.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	unit := strings.ToLower(m[2])
	if strings.HasPrefix(unit, "st") || strings.HasPrefix(unit, "h") {
		value *= 60
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value > maxDurationMinutes {
		return 0, false
	}
	return int(value), true
}
