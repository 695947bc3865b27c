package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"recipescan/internal/ocr"
)

// Columns of the recipe sheet, A to K.
var headers = []interface{}{
	"Datei", "Titel", "Zutaten", "Vorbereitung", "Kochzeit", "Portionen",
	"Konfidenz", "Dokumenttyp", "Strategie", "Status", "Verarbeitet",
}

const lastColumn = "K"

// BatchResult is the outcome of scanning one file of a batch.
type BatchResult struct {
	Filename string
	Result   *ocr.Result
	Error    error
}

// Status summarizes the outcome for the Status column.
func (r BatchResult) Status() string {
	switch {
	case r.Error != nil:
		return "Fehler"
	case r.Result == nil:
		return "Übersprungen"
	case r.Result.Degraded != nil:
		return "Unvollständig"
	default:
		return "OK"
	}
}

// BatchRow represents a row to be written to the sheet
type BatchRow struct {
	Filename    string
	Title       string
	Ingredients string
	PrepTime    string
	CookTime    string
	Portions    string
	Confidence  string
	DocType     string
	Strategy    string
	Status      string
	ProcessedAt string
}

func convertResultsToRows(results []BatchResult, processedAt time.Time) []BatchRow {
	stamp := processedAt.Format("02.01.2006 15:04:05")

	rows := make([]BatchRow, 0, len(results))
	for _, result := range results {
		row := BatchRow{
			Filename:    result.Filename,
			Status:      result.Status(),
			ProcessedAt: stamp,
		}

		switch {
		case result.Error != nil:
			row.Status = fmt.Sprintf("Fehler: %s", result.Error.Error())
		case result.Result != nil:
			res := result.Result
			row.Title = res.Recipe.Title
			row.Ingredients = formatIngredients(res)
			row.PrepTime = formatMinutes(res.Recipe.PrepTimeMinutes)
			row.CookTime = formatMinutes(res.Recipe.CookTimeMinutes)
			row.Portions = strconv.Itoa(res.Recipe.Portions)
			row.Confidence = string(res.Confidence)
			row.DocType = string(res.DocType)
			row.Strategy = res.Strategy
			if res.Degraded != nil {
				row.Status = fmt.Sprintf("%s: %s", row.Status, res.Degraded.Error())
			}
		}

		rows = append(rows, row)
	}
	return rows
}

func rowToValues(row BatchRow) []interface{} {
	return []interface{}{
		row.Filename,    // A: Datei
		row.Title,       // B: Titel
		row.Ingredients, // C: Zutaten
		row.PrepTime,    // D: Vorbereitung
		row.CookTime,    // E: Kochzeit
		row.Portions,    // F: Portionen
		row.Confidence,  // G: Konfidenz
		row.DocType,     // H: Dokumenttyp
		row.Strategy,    // I: Strategie
		row.Status,      // J: Status
		row.ProcessedAt, // K: Verarbeitet
	}
}

func formatIngredients(res *ocr.Result) string {
	parts := make([]string, 0, len(res.Recipe.Ingredients))
	for _, ing := range res.Recipe.Ingredients {
		parts = append(parts, ing.String())
	}
	return strings.Join(parts, "; ")
}

func formatMinutes(m *int) string {
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%d min", *m)
}
