package recipe

import (
	"regexp"
	"strings"

	"recipescan/pkg/models"
)

// DefaultCountUnit is the unit assigned to countable ingredients such as "2 Eier".
const DefaultCountUnit = "piece"

// IsIngredientLine reports whether a recognized line looks like an
// ingredient: a leading amount followed by a known unit or by a word.
// Lines starting with a duration ("30 min backen") or a portion count
// ("4 Portionen") are not ingredients.
func IsIngredientLine(line string) bool {
	if reMetadataLead.MatchString(line) {
		return false
	}
	return reNumberUnit.MatchString(line) || reNumberWord.MatchString(line)
}

// ParseLine turns an ingredient line into an Ingredient. It never fails:
// unreadable amounts become DefaultAmount and unparseable lines keep their
// full text as the name.
func (p *Parser) ParseLine(line string) models.Ingredient {
	line = strings.TrimSpace(line)

	if m := reLineWithUnit.FindStringSubmatch(line); m != nil {
		amount, _ := parseAmount(m[1])
		return models.Ingredient{
			Amount: amount,
			Unit:   m[2],
			Name:   strings.TrimSpace(m[3]),
		}
	}

	// "500 g" without a name keeps amount and unit; the unit doubles as name.
	if m := reLineUnitOnly.FindStringSubmatch(line); m != nil {
		amount, _ := parseAmount(m[1])
		return models.Ingredient{Amount: amount, Unit: m[2], Name: m[2]}
	}

	if m := reLineNoUnit.FindStringSubmatch(line); m != nil {
		amount, _ := parseAmount(m[1])
		rest := strings.TrimSpace(m[2])

		first, tail, _ := strings.Cut(rest, " ")
		tail = strings.TrimSpace(tail)
		if reUnitWord.MatchString(first) && tail != "" {
			return models.Ingredient{Amount: amount, Unit: first, Name: tail}
		}
		return models.Ingredient{Amount: amount, Unit: p.countUnit, Name: rest}
	}

	return models.Ingredient{Amount: DefaultAmount, Unit: p.countUnit, Name: line}
}

var (
	reStringWithUnit = regexp.MustCompile(`^([\d,./½¼¾⅓⅔⅛]+)\s*(\p{L}*)\s+(.+)$`)
	reStringAmount   = regexp.MustCompile(`^([\d,.]+)\s+(.+)$`)
)

// ParseIngredient parses a free-form ingredient string as published on
// recipe web pages, e.g. "200 g Mehl" or "½ TL Salz". The unit is the
// optional letters-only word right after the amount and may be empty.
func ParseIngredient(s string) models.Ingredient {
	s = strings.TrimSpace(s)

	if m := reStringWithUnit.FindStringSubmatch(s); m != nil {
		amount, _ := parseAmount(m[1])
		return models.Ingredient{
			Amount: amount,
			Unit:   m[2],
			Name:   strings.TrimSpace(m[3]),
		}
	}

	if m := reStringAmount.FindStringSubmatch(s); m != nil {
		amount, _ := parseAmount(m[1])
		return models.Ingredient{Amount: amount, Name: strings.TrimSpace(m[2])}
	}

	return models.Ingredient{Amount: DefaultAmount, Unit: DefaultCountUnit, Name: s}
}
