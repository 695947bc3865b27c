package recipe

import "regexp"

// Amount grammar shared by the OCR line parser: mixed vulgar fractions ("1½",
// "1 ½"), simple fractions ("1/2"), decimals with comma or point, and bare
// vulgar fractions.
const numberPattern = `(?:\d+(?:[.,]\d+)?\s?[½¼¾⅓⅔⅛]|\d{1,2}/\d{1,2}|\d+(?:[.,]\d+)?|[½¼¾⅓⅔⅛])`

// Longer alternatives come first so that e.g. "Dosen" is not cut to "Dose".
const unitPattern = `kg|mg|ml|cl|dl|lb|Liter|Gramm|l|g|EL|TL|Msp|Prisen|Prise|Stück|Stck|St\.|Bund|Bd|Scheiben|Scheibe|Tassen|Tasse|Dosen|Dose|Packung|Päckchen|Pck\.?|Pack|Becher|Zehen|Zehe|tbsp|tsp|cups|cup|oz`

const durationWords = `minuten|minutes|minute|min|stunden|stunde|std|hours|hour|hrs`

const portionWords = `portionen|portion|personen|person|pers\.?|servings|serving`

// notLetter terminates a unit, duration or portion token.
const notLetter = `(?:[^\p{L}]|$)`

var (
	// ingredient-line predicate, variant (a): number + unit token
	reNumberUnit = regexp.MustCompile(`(?i)^\s*` + numberPattern + `\s*(?:` + unitPattern + `)` + notLetter)
	// ingredient-line predicate, variant (b): number + whitespace + letter
	reNumberWord = regexp.MustCompile(`^\s*` + numberPattern + `\s+\p{L}`)
	// lines such as "30 min backen" or "4 Portionen" carry metadata, not ingredients
	reMetadataLead = regexp.MustCompile(`(?i)^\s*` + numberPattern + `\s*(?:(?:` + durationWords + `)` + notLetter + `|(?:` + portionWords + `)` + notLetter + `)`)

	reLineWithUnit = regexp.MustCompile(`(?i)^\s*(` + numberPattern + `)\s*(` + unitPattern + `)\s+(.+)$`)
	reLineNoUnit   = regexp.MustCompile(`^\s*(` + numberPattern + `)\s+(\p{L}.*)$`)
	reLineUnitOnly = regexp.MustCompile(`(?i)^\s*(` + numberPattern + `)\s*(` + unitPattern + `)\s*$`)
	reUnitWord     = regexp.MustCompile(`(?i)^(?:` + unitPattern + `)$`)

	reDuration = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(` + durationWords + `)` + notLetter)
	rePortions = regexp.MustCompile(`(?i)(\d+)\s*(?:` + portionWords + `)` + notLetter)

	reLeadingDigit = regexp.MustCompile(`^\s*\d`)
)

// vulgarFractions maps Unicode fractions to the fixed decimals used across
// the parsers.
var vulgarFractions = map[rune]float64{
	'½': 0.5,
	'¼': 0.25,
	'¾': 0.75,
	'⅓': 0.33,
	'⅔': 0.67,
	'⅛': 0.125,
}
