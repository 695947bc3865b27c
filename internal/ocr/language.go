package ocr

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "deu"

// bcp47 maps Tesseract language codes to the BCP-47 hints understood by the
// Google Cloud APIs.
var bcp47 = map[string]string{
	"deu": "de",
	"eng": "en",
	"fra": "fr",
	"ita": "it",
	"spa": "es",
	"nld": "nl",
	"por": "pt",
	"pol": "pl",
	"tur": "tr",
	"dan": "da",
	"swe": "sv",
	"nor": "no",
	"ces": "cs",
	"hun": "hu",
}

// languageHints converts "deu+eng" into ["de", "en"]. Unknown codes are
// passed through unchanged.
func languageHints(lang string) []string {
	var hints []string
	seen := map[string]bool{}
	for _, code := range splitLanguages(lang) {
		hint, ok := bcp47[code]
		if !ok {
			hint = code
		}
		if !seen[hint] {
			seen[hint] = true
			hints = append(hints, hint)
		}
	}
	return hints
}
