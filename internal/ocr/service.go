// Package ocr scans photographed or scanned recipe cards.
//
// A scan tries several preprocessing strategies on the same photo, scores
// every recognized text and parses the best one into a recipe:
//
//	decode -> orientation -> strategies (transform, recognize per mode)
//	       -> score -> select -> usable text check -> parse -> confidence
//
// Supported engines:
//   - tesseract: local libtesseract through gosseract (default). Needs the
//     tesseract binary on PATH for orientation detection.
//   - vision: Google Cloud Vision document text detection.
//   - documentai: a Google Document AI OCR processor.
//
// Google engines read credentials from GOOGLE_CREDENTIALS (inline JSON) or
// GOOGLE_APPLICATION_CREDENTIALS (file path).
//
// Failure handling:
//   - Undecodable input is the only error returned (ErrInvalidImage).
//   - A failing strategy yields an empty candidate and never stops the others.
//   - Unreadable text, total recognition failure and recovered panics yield
//     an empty recipe with low confidence and Result.Degraded set.
package ocr

import "context"

// Scanner is the caller-facing side of a Pipeline.
type Scanner interface {
	// ProcessFile scans the image at path.
	ProcessFile(ctx context.Context, path string) (*Result, error)

	// ProcessText parses already recognized text.
	ProcessText(text string) *Result
}

var _ Scanner = (*Pipeline)(nil)
