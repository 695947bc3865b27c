package ocr

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"recipescan/internal/logger"
)

// DefaultTesseractBinary is looked up on PATH for orientation detection.
const DefaultTesseractBinary = "tesseract"

var reOSDRotate = regexp.MustCompile(`Rotate:\s*(\d+)`)

// TesseractConfig configures the local Tesseract engine.
type TesseractConfig struct {
	// Binary is the tesseract executable used for orientation detection.
	Binary string

	// TessdataPrefix overrides the directory holding *.traineddata files.
	TessdataPrefix string
}

// TesseractEngine recognizes text through libtesseract and detects page
// orientation with the tesseract command line tool.
type TesseractEngine struct {
	cfg           TesseractConfig
	clientFactory func() *gosseract.Client
	runner        CommandRunner
}

// NewTesseractEngine constructs a Tesseract-backed engine.
func NewTesseractEngine(cfg TesseractConfig) *TesseractEngine {
	if cfg.Binary == "" {
		cfg.Binary = DefaultTesseractBinary
	}
	return &TesseractEngine{
		cfg:           cfg,
		clientFactory: gosseract.NewClient,
		runner:        execRunner{log: logger.WithComponent("tesseract")},
	}
}

// NewTesseractEngineWithRunner creates an engine with an explicit command runner (for testing).
func NewTesseractEngineWithRunner(cfg TesseractConfig, runner CommandRunner) *TesseractEngine {
	e := NewTesseractEngine(cfg)
	e.runner = runner
	return e
}

func (e *TesseractEngine) Name() string { return EngineTesseract }

// Recognize runs one recognition pass with a fresh client, so concurrent
// calls never share Tesseract state.
func (e *TesseractEngine) Recognize(ctx context.Context, in Input) (string, error) {
	const op = "Recognize"

	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if e.cfg.TessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.cfg.TessdataPrefix); err != nil {
			return "", recognitionError(op, err, "set tessdata prefix")
		}
	}
	if langs := splitLanguages(in.Language); len(langs) > 0 {
		if err := c.SetLanguage(langs...); err != nil {
			return "", recognitionError(op, err, "set languages")
		}
	}
	if in.Mode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(in.Mode)); err != nil {
			return "", recognitionError(op, err, fmt.Sprintf("set page segmentation mode %d", in.Mode))
		}
	}
	if err := c.SetImageFromBytes(in.Image); err != nil {
		return "", recognitionError(op, err, "set image")
	}

	text, err := c.Text()
	if err != nil {
		return "", recognitionError(op, err, in.ID)
	}
	return text, nil
}

// DetectOrientation runs tesseract's orientation and script detection.
func (e *TesseractEngine) DetectOrientation(ctx context.Context, in Input) (int, error) {
	const op = "DetectOrientation"

	f, err := os.CreateTemp("", "recipescan-osd-*.png")
	if err != nil {
		return 0, WrapOCRError(op, err, "create temp file")
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(in.Image); err != nil {
		f.Close()
		return 0, WrapOCRError(op, err, "write temp file")
	}
	if err := f.Close(); err != nil {
		return 0, WrapOCRError(op, err, "close temp file")
	}

	args := []string{f.Name(), "stdout", "--psm", strconv.Itoa(int(PSMOrientationOnly))}
	if e.cfg.TessdataPrefix != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataPrefix)
	}

	stdout, stderr, err := e.runner.Run(ctx, e.cfg.Binary, args...)
	if err != nil {
		return 0, WrapOCRError(op, err, truncate(strings.TrimSpace(string(stderr)), 200))
	}
	return parseOSDRotation(string(stdout))
}

func (e *TesseractEngine) Close() error { return nil }

// parseOSDRotation reads the "Rotate: N" line of tesseract's OSD report.
func parseOSDRotation(report string) (int, error) {
	m := reOSDRotate.FindStringSubmatch(report)
	if m == nil {
		return 0, WrapOCRError("parseOSDRotation", ErrOrientationUnsupported, "no rotation in OSD output")
	}
	degrees, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, WrapOCRError("parseOSDRotation", err, m[1])
	}
	return degrees, nil
}

func splitLanguages(lang string) []string {
	var langs []string
	for _, l := range strings.Split(lang, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}
