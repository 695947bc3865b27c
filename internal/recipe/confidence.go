package recipe

import (
	"unicode/utf8"

	"recipescan/pkg/models"
)

const (
	highConfidenceScore   = 70
	mediumConfidenceScore = 35
)

// ConfidenceScore rates a parsed recipe on a 0..100 scale from the OCR score
// of the winning text and the completeness of the recipe.
func ConfidenceScore(r models.Recipe, ocrScore int) int {
	ocrScore = max(0, min(ocrScore, 100))

	score := min(ocrScore/2, 40)
	if utf8.RuneCountInString(r.Title) > 3 {
		score += 20
	}
	score += min(len(r.Ingredients)*10, 30)
	if utf8.RuneCountInString(r.Description) > 20 {
		score += 10
	}
	return score
}

// EstimateConfidence maps ConfidenceScore onto a confidence label.
func EstimateConfidence(r models.Recipe, ocrScore int) models.Confidence {
	switch score := ConfidenceScore(r, ocrScore); {
	case score >= highConfidenceScore:
		return models.ConfidenceHigh
	case score >= mediumConfidenceScore:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
