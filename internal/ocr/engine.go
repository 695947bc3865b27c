package ocr

import (
	"context"
	"fmt"
	"strings"
)

// PageSegMode tells the engine how text is laid out on the page. Values
// follow Tesseract's numbering.
type PageSegMode int

const (
	PSMAuto            PageSegMode = 3 // fully automatic page segmentation
	PSMSingleColumn    PageSegMode = 4 // single column of variable sized text
	PSMSingleBlock     PageSegMode = 6 // single uniform block of text
	PSMOrientationOnly PageSegMode = 0 // orientation and script detection only
)

// Input is a single recognition request.
type Input struct {
	// ID identifies the request in errors and events, e.g. "Otsu + PSM 4".
	ID string

	// Image is a PNG encoded raster. It is shared read-only between the
	// requests of one strategy.
	Image []byte

	// Language is a Tesseract language code such as "deu" or "deu+eng".
	Language string

	Mode PageSegMode
}

// Engine is a text recognition backend. Implementations must be safe for
// concurrent use.
type Engine interface {
	// Name returns a short identifier such as "tesseract".
	Name() string

	// Recognize returns the raw text found in the image.
	Recognize(ctx context.Context, in Input) (string, error)

	// DetectOrientation returns how many degrees the image has to be turned
	// counter-clockwise to be upright. Engines without orientation support
	// return ErrOrientationUnsupported.
	DetectOrientation(ctx context.Context, in Input) (int, error)

	// Close releases the backend's resources.
	Close() error
}

// Engine names accepted by NewEngine.
const (
	EngineTesseract  = "tesseract"
	EngineVision     = "vision"
	EngineDocumentAI = "documentai"
)

// EngineConfig selects and configures a recognition backend.
type EngineConfig struct {
	Engine string

	// tesseract
	TesseractBin   string
	TessdataPrefix string

	// Google Cloud
	ProjectID        string
	Location         string
	ProcessorID      string
	ProcessorVersion string
}

// NewEngine creates the backend named by cfg.Engine.
func NewEngine(ctx context.Context, cfg EngineConfig) (Engine, error) {
	const op = "NewEngine"

	switch strings.ToLower(cfg.Engine) {
	case "", EngineTesseract:
		return NewTesseractEngine(TesseractConfig{
			Binary:         cfg.TesseractBin,
			TessdataPrefix: cfg.TessdataPrefix,
		}), nil
	case EngineVision:
		return NewGoogleVisionEngine(ctx)
	case EngineDocumentAI:
		return NewDocumentAIEngine(ctx, DocumentAIConfig{
			ProjectID:        cfg.ProjectID,
			Location:         cfg.Location,
			ProcessorID:      cfg.ProcessorID,
			ProcessorVersion: cfg.ProcessorVersion,
		})
	default:
		return nil, WrapOCRError(op, ErrInvalidConfiguration, fmt.Sprintf("unknown engine %q", cfg.Engine))
	}
}
