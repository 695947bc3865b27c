package ocr

import (
	"fmt"

	"recipescan/internal/imageproc"
)

// Strategy is one preprocessing transform together with the segmentation
// modes it is recognized with.
type Strategy struct {
	Name      string
	Transform imageproc.Transform
	Modes     []PageSegMode
}

// Label names the candidate produced by mode, e.g. "Otsu + PSM 4".
func (s Strategy) Label(mode PageSegMode) string {
	return fmt.Sprintf("%s + PSM %d", s.Name, mode)
}

// DefaultCatalog lists the strategies in priority order. On equal scores the
// earlier entry wins.
var DefaultCatalog = []Strategy{
	{Name: "Grayscale", Transform: imageproc.GrayscaleTransform, Modes: []PageSegMode{PSMSingleColumn, PSMSingleBlock}},
	{Name: "Otsu", Transform: imageproc.OtsuTransform, Modes: []PageSegMode{PSMSingleColumn, PSMSingleBlock}},
	{Name: "CLAHE+Otsu", Transform: imageproc.CLAHEOtsuTransform, Modes: []PageSegMode{PSMAuto, PSMSingleColumn}},
	{Name: "Sharpen+Otsu", Transform: imageproc.SharpenOtsuTransform, Modes: []PageSegMode{PSMAuto, PSMSingleColumn}},
	{Name: "Bilateral+Otsu", Transform: imageproc.BilateralOtsuTransform, Modes: []PageSegMode{PSMSingleColumn, PSMSingleBlock}},
}

// Candidate is the text one strategy produced.
type Candidate struct {
	Strategy string `json:"strategy"`
	Text     string `json:"text"`
	Score    int    `json:"score"`

	// Err is set when recognition failed; Text is empty and Score 0 then.
	Err error `json:"-"`
}
