package ocr

import (
	"context"
	"fmt"
	"image"
	"os"
	"unicode/utf8"

	"recipescan/internal/imageproc"
	"recipescan/internal/recipe"
	"recipescan/pkg/models"
)

// DefaultWorkers bounds how many strategies run at the same time.
const DefaultWorkers = 4

// Result is the outcome of one scan.
type Result struct {
	Recipe     models.Recipe     `json:"recipe"`
	Confidence models.Confidence `json:"confidence"`
	DocType    models.DocType    `json:"doc_type"`

	// Strategy is the label of the winning candidate, empty for text input
	// and degraded results.
	Strategy string `json:"strategy,omitempty"`
	OCRScore int    `json:"ocr_score"`

	// Candidates holds every strategy's outcome in catalog order.
	Candidates []Candidate `json:"candidates,omitempty"`

	// Degraded is nil for a parsed recipe. Otherwise it tells why the empty
	// low-confidence fallback was returned: ErrNoUsableText,
	// ErrRecognition or ErrPipelinePanic.
	Degraded error `json:"-"`
}

// Status is "ok" or the reason the result was degraded.
func (r *Result) Status() string {
	if r.Degraded == nil {
		return "ok"
	}
	return r.Degraded.Error()
}

func degradedResult(reason error) *Result {
	return &Result{
		Recipe:     models.EmptyRecipe(),
		Confidence: models.ConfidenceLow,
		DocType:    models.DocTypeUnknown,
		Degraded:   reason,
	}
}

// Pipeline scans recipe photos: it corrects the orientation, runs every
// catalog strategy, keeps the best scoring text and parses it.
// A Pipeline is immutable after construction and safe for concurrent use.
type Pipeline struct {
	engine     Engine
	language   string
	workers    int
	autoRotate bool
	observer   Observer
	parser     *recipe.Parser
	catalog    []Strategy
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLanguage sets the Tesseract language code passed to the engine.
func WithLanguage(lang string) Option {
	return func(p *Pipeline) {
		if lang != "" {
			p.language = lang
		}
	}
}

// WithWorkers bounds the number of strategies running concurrently.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithAutoRotate enables or disables orientation correction.
func WithAutoRotate(enabled bool) Option {
	return func(p *Pipeline) {
		p.autoRotate = enabled
	}
}

// WithObserver receives the pipeline's events.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithParser replaces the default recipe parser.
func WithParser(parser *recipe.Parser) Option {
	return func(p *Pipeline) {
		if parser != nil {
			p.parser = parser
		}
	}
}

// WithCatalog replaces DefaultCatalog.
func WithCatalog(catalog []Strategy) Option {
	return func(p *Pipeline) {
		if len(catalog) > 0 {
			p.catalog = catalog
		}
	}
}

// NewPipeline creates a Pipeline recognizing text with engine.
func NewPipeline(engine Engine, opts ...Option) *Pipeline {
	p := &Pipeline{
		engine:     engine,
		language:   DefaultLanguage,
		workers:    DefaultWorkers,
		autoRotate: true,
		observer:   nopObserver{},
		parser:     recipe.NewParser(),
		catalog:    DefaultCatalog,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessFile scans the image stored at path.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	const op = "ProcessFile"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewOCRError(op, fmt.Errorf("%w: %w", ErrInvalidImage, err), path)
	}
	return p.ProcessBytes(ctx, data)
}

// ProcessBytes scans an encoded image. The only error it returns is
// ErrInvalidImage; recognition problems produce a degraded Result.
func (p *Pipeline) ProcessBytes(ctx context.Context, data []byte) (*Result, error) {
	const op = "ProcessBytes"

	img, err := imageproc.Decode(data)
	if err != nil {
		return nil, NewOCRError(op, fmt.Errorf("%w: %w", ErrInvalidImage, err), "")
	}

	return p.guard(func() *Result {
		if p.autoRotate {
			img = p.correctOrientation(ctx, img)
		}
		return p.selectAndParse(p.runStrategies(ctx, img))
	}), nil
}

// ProcessText parses already recognized text.
func (p *Pipeline) ProcessText(text string) *Result {
	return p.guard(func() *Result {
		text = NormalizeText(text)
		return p.parse(text, ScoreText(text))
	})
}

// guard turns a panic in fn into a degraded result.
func (p *Pipeline) guard(fn func() *Result) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			err := NewOCRError("guard", fmt.Errorf("%w: %v", ErrPipelinePanic, r), "")
			p.observer.Observe(Event{Kind: EventRecovered, Err: err})
			res = degradedResult(err)
		}
	}()
	return fn()
}

func (p *Pipeline) correctOrientation(ctx context.Context, img image.Image) image.Image {
	data, err := imageproc.EncodePNG(img)
	if err != nil {
		p.observer.Observe(Event{Kind: EventOrientationSkipped, Err: err})
		return img
	}

	degrees, err := p.engine.DetectOrientation(ctx, Input{
		ID:       "orientation",
		Image:    data,
		Language: p.language,
		Mode:     PSMOrientationOnly,
	})
	if err != nil {
		p.observer.Observe(Event{Kind: EventOrientationSkipped, Err: err})
		return img
	}
	if degrees%360 == 0 {
		return img
	}

	p.observer.Observe(Event{Kind: EventOrientationCorrected, Degrees: degrees})
	return imageproc.RotateCCW(img, degrees)
}

func (p *Pipeline) selectAndParse(candidates []Candidate) *Result {
	const op = "selectAndParse"

	var firstErr error
	failed := 0
	for _, c := range candidates {
		if c.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = c.Err
			}
		}
	}
	if failed == len(candidates) {
		reason := NewOCRError(op, ErrRecognition, "every strategy failed")
		if firstErr != nil {
			reason = NewOCRError(op, firstErr, "every strategy failed")
		}
		res := degradedResult(reason)
		res.Candidates = candidates
		return res
	}

	best, _ := SelectBest(candidates)
	p.observer.Observe(Event{
		Kind:     EventWinnerSelected,
		Strategy: best.Strategy,
		Score:    best.Score,
		Chars:    utf8.RuneCountInString(best.Text),
	})

	res := p.parse(best.Text, best.Score)
	if res.Degraded == nil {
		res.Strategy = best.Strategy
	}
	res.Candidates = candidates
	return res
}

func (p *Pipeline) parse(text string, score int) *Result {
	if !HasUsableText(text) {
		p.observer.Observe(Event{Kind: EventNoUsableText, Chars: utf8.RuneCountInString(text)})
		res := degradedResult(ErrNoUsableText)
		res.OCRScore = score
		return res
	}

	r := p.parser.Parse(text)
	return &Result{
		Recipe:     r,
		Confidence: recipe.EstimateConfidence(r, score),
		DocType:    models.DocTypeAuto,
		OCRScore:   score,
	}
}
