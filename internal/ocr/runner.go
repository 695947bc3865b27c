package ocr

import (
	"context"
	"fmt"
	"image"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"recipescan/internal/imageproc"
)

// runStrategies runs every catalog entry on its own copy of base. Candidates
// are stored at fixed positions so that their order follows the catalog no
// matter which strategy finishes first.
func (p *Pipeline) runStrategies(ctx context.Context, base image.Image) []Candidate {
	offsets := make([]int, len(p.catalog))
	total := 0
	for i, s := range p.catalog {
		offsets[i] = total
		total += len(s.Modes)
	}
	candidates := make([]Candidate, total)

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, s := range p.catalog {
		slots := candidates[offsets[i] : offsets[i]+len(s.Modes)]
		g.Go(func() error {
			p.runStrategy(ctx, s, imageproc.Clone(base), slots)
			return nil
		})
	}
	_ = g.Wait() // strategies record failures in their slots

	return candidates
}

// runStrategy transforms img once and recognizes the result with each of the
// strategy's modes.
func (p *Pipeline) runStrategy(ctx context.Context, s Strategy, img image.Image, slots []Candidate) {
	const op = "runStrategy"

	for j, mode := range s.Modes {
		slots[j] = Candidate{Strategy: s.Label(mode)}
	}

	next := 0
	fail := func(err error) {
		for j := next; j < len(slots); j++ {
			slots[j].Err = err
			p.observer.Observe(Event{Kind: EventStrategyFailed, Strategy: slots[j].Strategy, Err: err})
		}
	}
	defer func() {
		if r := recover(); r != nil {
			err := NewOCRError(op, fmt.Errorf("%w: %w: %v", ErrRecognition, ErrPipelinePanic, r), s.Name)
			p.observer.Observe(Event{Kind: EventRecovered, Strategy: s.Name, Err: err})
			fail(err)
		}
	}()

	prepared, err := imageproc.EncodePNG(s.Transform(img))
	if err != nil {
		fail(recognitionError(op, err, s.Name))
		return
	}

	for j, mode := range s.Modes {
		next = j
		slots[j] = p.recognize(ctx, Input{
			ID:       slots[j].Strategy,
			Image:    prepared,
			Language: p.language,
			Mode:     mode,
		})
	}
	next = len(slots)
}

func (p *Pipeline) recognize(ctx context.Context, in Input) Candidate {
	const op = "recognize"

	text, err := p.engine.Recognize(ctx, in)
	if err != nil {
		err = recognitionError(op, err, in.ID)
		p.observer.Observe(Event{Kind: EventStrategyFailed, Strategy: in.ID, Err: err})
		return Candidate{Strategy: in.ID, Err: err}
	}

	text = NormalizeText(text)
	c := Candidate{Strategy: in.ID, Text: text, Score: ScoreText(text)}
	p.observer.Observe(Event{
		Kind:     EventCandidateScored,
		Strategy: c.Strategy,
		Score:    c.Score,
		Chars:    utf8.RuneCountInString(text),
	})
	return c
}
