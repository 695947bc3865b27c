package ocr

import "unicode"

// MinUsableChars is the number of non-whitespace characters below which a
// text counts as unreadable.
const MinUsableChars = 10

// SelectBest returns the highest scoring candidate. Ties go to the earliest
// candidate. ok is false only for an empty slice.
func SelectBest(candidates []Candidate) (best Candidate, ok bool) {
	for i, c := range candidates {
		if i == 0 || c.Score > best.Score {
			best = c
		}
	}
	return best, len(candidates) > 0
}

// HasUsableText reports whether text carries at least MinUsableChars
// non-whitespace characters.
func HasUsableText(text string) bool {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			if n++; n >= MinUsableChars {
				return true
			}
		}
	}
	return false
}
