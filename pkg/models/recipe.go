package models

import (
	"strconv"
	"strings"
)

// DefaultPortions is used whenever a source does not state a portion count.
const DefaultPortions = 4

// Confidence is a coarse label describing how trustworthy a parsed recipe is.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// DocType marks whether usable text was recognized at all.
type DocType string

const (
	DocTypeAuto    DocType = "auto"    // text recognized and parsed
	DocTypeUnknown DocType = "unknown" // no usable text
)

type Ingredient struct {
	Amount float64 `json:"amount"` // 1.0 when the quantity is unreadable
	Unit   string  `json:"unit"`   // may be empty
	Name   string  `json:"name"`
}

// String renders the ingredient the way it is written on a recipe card,
// e.g. "1,5 kg Kartoffeln".
func (i Ingredient) String() string {
	amount := strings.Replace(strconv.FormatFloat(i.Amount, 'f', -1, 64), ".", ",", 1)
	parts := []string{amount}
	if i.Unit != "" {
		parts = append(parts, i.Unit)
	}
	if i.Name != "" {
		parts = append(parts, i.Name)
	}
	return strings.Join(parts, " ")
}

type Recipe struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Ingredients []Ingredient `json:"ingredients"`

	// Timings in minutes, nil when unknown
	PrepTimeMinutes *int `json:"prep_time_minutes"`
	CookTimeMinutes *int `json:"cook_time_minutes"`

	Portions int `json:"portions"`

	// Only set for recipes taken from structured web pages
	Source    string `json:"source,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// EmptyRecipe returns the structure used when nothing could be extracted.
func EmptyRecipe() Recipe {
	return Recipe{
		Ingredients: []Ingredient{},
		Portions:    DefaultPortions,
	}
}
