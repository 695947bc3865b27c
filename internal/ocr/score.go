package ocr

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reLetterRun = regexp.MustCompile(`\p{L}{3,}`)
	reDigits    = regexp.MustCompile(`\d+`)
	// a unit token may directly follow a number, as in "500g"
	reUnitToken = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:g|kg|ml|l|el|tl|stück|prise)(?:[^\p{L}]|$)`)
)

const noiseChars = "£€$@#%&*_+=<>{}\\|~`"

// ScoreText rates how much a text looks like a readable recipe. Scores are
// only meaningful relative to each other; they are never negative.
func ScoreText(text string) int {
	score := 0

	score += min(utf8.RuneCountInString(text)/10, 30)

	words := strings.Fields(text)
	score += min(len(words)*2, 40)

	lines := 0
	firstLine := ""
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			if lines == 0 {
				firstLine = line
			}
			lines++
		}
	}
	score += min(lines*3, 30)

	if reLetterRun.MatchString(text) {
		score += 20
	}
	if reDigits.MatchString(text) {
		score += 10
	}
	if reUnitToken.MatchString(text) {
		score += 15
	}
	if n := utf8.RuneCountInString(firstLine); n > 5 && n < 60 {
		score += 20
	}

	for _, r := range text {
		if strings.ContainsRune(noiseChars, r) {
			score -= 2
		}
	}
	for _, w := range words {
		if utf8.RuneCountInString(w) == 1 {
			score--
		}
	}

	return max(score, 0)
}
