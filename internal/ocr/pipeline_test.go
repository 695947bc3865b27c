package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"sync"
	"testing"

	"recipescan/pkg/models"
)

// fakeEngine answers Recognize calls from a table keyed by candidate label.
type fakeEngine struct {
	mu       sync.Mutex
	texts    map[string]string
	fallback string
	fail     map[string]bool
	panics   map[string]bool
	rotation int
	rotErr   error
	calls    []string
	sizes    map[string]image.Point
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, in Input) (string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(in.Image))
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	f.calls = append(f.calls, in.ID)
	if f.sizes == nil {
		f.sizes = map[string]image.Point{}
	}
	f.sizes[in.ID] = image.Pt(cfg.Width, cfg.Height)
	f.mu.Unlock()

	if f.panics[in.ID] {
		panic("engine crashed")
	}
	if f.fail[in.ID] {
		return "", errors.New("engine unavailable")
	}
	if text, ok := f.texts[in.ID]; ok {
		return text, nil
	}
	return f.fallback, nil
}

func (f *fakeEngine) DetectOrientation(context.Context, Input) (int, error) {
	return f.rotation, f.rotErr
}

func (f *fakeEngine) Close() error { return nil }

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) Observe(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) find(kind EventKind) (Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 230})
			} else {
				img.SetGray(x, y, color.Gray{Y: 30})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func allLabels() []string {
	var labels []string
	for _, s := range DefaultCatalog {
		for _, m := range s.Modes {
			labels = append(labels, s.Label(m))
		}
	}
	return labels
}

func TestCatalogLabels(t *testing.T) {
	want := []string{
		"Grayscale + PSM 4", "Grayscale + PSM 6",
		"Otsu + PSM 4", "Otsu + PSM 6",
		"CLAHE+Otsu + PSM 3", "CLAHE+Otsu + PSM 4",
		"Sharpen+Otsu + PSM 3", "Sharpen+Otsu + PSM 4",
		"Bilateral+Otsu + PSM 4", "Bilateral+Otsu + PSM 6",
	}
	got := allLabels()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
}

func TestProcessBytesSelectsBestStrategy(t *testing.T) {
	engine := &fakeEngine{
		texts:    map[string]string{"Otsu + PSM 6": apfelkuchen},
		fallback: "x",
	}
	p := NewPipeline(engine)

	res, err := p.ProcessBytes(context.Background(), samplePNG(t, 40, 20))
	if err != nil {
		t.Fatalf("ProcessBytes: %v", err)
	}
	if res.Degraded != nil {
		t.Fatalf("unexpected degradation: %v", res.Degraded)
	}
	if res.Strategy != "Otsu + PSM 6" || res.OCRScore != 104 {
		t.Fatalf("winner = %q (%d), want Otsu + PSM 6 (104)", res.Strategy, res.OCRScore)
	}
	if res.Recipe.Title != "Apfelkuchen" || len(res.Recipe.Ingredients) != 2 {
		t.Fatalf("recipe = %+v", res.Recipe)
	}
	if res.DocType != models.DocTypeAuto || res.Confidence != models.ConfidenceHigh {
		t.Fatalf("doc type %s, confidence %s", res.DocType, res.Confidence)
	}

	labels := allLabels()
	if len(res.Candidates) != len(labels) {
		t.Fatalf("got %d candidates, want %d", len(res.Candidates), len(labels))
	}
	for i, c := range res.Candidates {
		if c.Strategy != labels[i] {
			t.Fatalf("candidate %d is %q, want %q", i, c.Strategy, labels[i])
		}
	}
}

func TestProcessBytesTieGoesToCatalogOrder(t *testing.T) {
	for _, workers := range []int{1, 3, 10} {
		engine := &fakeEngine{fallback: apfelkuchen}
		res, err := NewPipeline(engine, WithWorkers(workers)).ProcessBytes(context.Background(), samplePNG(t, 16, 16))
		if err != nil {
			t.Fatalf("ProcessBytes: %v", err)
		}
		if res.Strategy != "Grayscale + PSM 4" {
			t.Fatalf("workers=%d: winner = %q, want the first catalog entry", workers, res.Strategy)
		}
	}
}

func TestProcessBytesIsolatesFailures(t *testing.T) {
	engine := &fakeEngine{
		fail:     map[string]bool{"Grayscale + PSM 4": true, "Grayscale + PSM 6": true},
		panics:   map[string]bool{"CLAHE+Otsu + PSM 3": true},
		texts:    map[string]string{"Bilateral+Otsu + PSM 6": apfelkuchen},
		fallback: "x",
	}
	events := &eventLog{}
	res, err := NewPipeline(engine, WithObserver(events)).ProcessBytes(context.Background(), samplePNG(t, 24, 24))
	if err != nil {
		t.Fatalf("ProcessBytes: %v", err)
	}
	if res.Strategy != "Bilateral+Otsu + PSM 6" {
		t.Fatalf("winner = %q", res.Strategy)
	}

	failed := map[string]bool{}
	for _, c := range res.Candidates {
		if c.Err != nil {
			if !errors.Is(c.Err, ErrRecognition) {
				t.Fatalf("%s: error %v is not a recognition error", c.Strategy, c.Err)
			}
			if c.Text != "" || c.Score != 0 {
				t.Fatalf("%s: failed candidate carries text or score", c.Strategy)
			}
			failed[c.Strategy] = true
		}
	}
	for _, label := range []string{"Grayscale + PSM 4", "Grayscale + PSM 6", "CLAHE+Otsu + PSM 3", "CLAHE+Otsu + PSM 4"} {
		if !failed[label] {
			t.Fatalf("%s should have failed, failed set: %v", label, failed)
		}
	}
	if _, ok := events.find(EventRecovered); !ok {
		t.Fatalf("expected a recovered event")
	}
	if _, ok := events.find(EventStrategyFailed); !ok {
		t.Fatalf("expected a strategy failed event")
	}
}

func TestProcessBytesAllStrategiesFail(t *testing.T) {
	fail := map[string]bool{}
	for _, label := range allLabels() {
		fail[label] = true
	}
	res, err := NewPipeline(&fakeEngine{fail: fail}).ProcessBytes(context.Background(), samplePNG(t, 8, 8))
	if err != nil {
		t.Fatalf("ProcessBytes: %v", err)
	}
	if !errors.Is(res.Degraded, ErrRecognition) {
		t.Fatalf("Degraded = %v, want ErrRecognition", res.Degraded)
	}
	if res.DocType != models.DocTypeUnknown || res.Confidence != models.ConfidenceLow {
		t.Fatalf("doc type %s, confidence %s", res.DocType, res.Confidence)
	}
	if res.Recipe.Portions != models.DefaultPortions || len(res.Recipe.Ingredients) != 0 {
		t.Fatalf("recipe = %+v", res.Recipe)
	}
}

func TestProcessBytesNoUsableText(t *testing.T) {
	events := &eventLog{}
	res, err := NewPipeline(&fakeEngine{fallback: "x x x"}, WithObserver(events)).
		ProcessBytes(context.Background(), samplePNG(t, 8, 8))
	if err != nil {
		t.Fatalf("ProcessBytes: %v", err)
	}
	if !errors.Is(res.Degraded, ErrNoUsableText) {
		t.Fatalf("Degraded = %v, want ErrNoUsableText", res.Degraded)
	}
	if res.DocType != models.DocTypeUnknown || res.Confidence != models.ConfidenceLow {
		t.Fatalf("doc type %s, confidence %s", res.DocType, res.Confidence)
	}
	if res.Strategy != "" || len(res.Recipe.Ingredients) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, ok := events.find(EventNoUsableText); !ok {
		t.Fatalf("expected a no usable text event")
	}
}

func TestProcessBytesCorrectsOrientation(t *testing.T) {
	engine := &fakeEngine{fallback: apfelkuchen, rotation: 90}
	events := &eventLog{}
	if _, err := NewPipeline(engine, WithObserver(events)).ProcessBytes(context.Background(), samplePNG(t, 40, 20)); err != nil {
		t.Fatalf("ProcessBytes: %v", err)
	}

	e, ok := events.find(EventOrientationCorrected)
	if !ok || e.Degrees != 90 {
		t.Fatalf("orientation event = %+v, %v", e, ok)
	}
	if got := engine.sizes["Otsu + PSM 4"]; got != image.Pt(20, 40) {
		t.Fatalf("engine saw %v, want the rotated 20x40 raster", got)
	}
}

func TestProcessBytesOrientationFailureIsNotFatal(t *testing.T) {
	engine := &fakeEngine{fallback: apfelkuchen, rotErr: ErrOrientationUnsupported}
	events := &eventLog{}
	res, err := NewPipeline(engine, WithObserver(events)).ProcessBytes(context.Background(), samplePNG(t, 40, 20))
	if err != nil {
		t.Fatalf("ProcessBytes: %v", err)
	}
	if res.Degraded != nil {
		t.Fatalf("Degraded = %v", res.Degraded)
	}
	if _, ok := events.find(EventOrientationSkipped); !ok {
		t.Fatalf("expected an orientation skipped event")
	}
	if got := engine.sizes["Grayscale + PSM 4"]; got != image.Pt(40, 20) {
		t.Fatalf("engine saw %v, want the original 40x20 raster", got)
	}
}

func TestProcessInvalidInput(t *testing.T) {
	p := NewPipeline(&fakeEngine{})

	if _, err := p.ProcessBytes(context.Background(), []byte("definitely not an image")); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("ProcessBytes error = %v, want ErrInvalidImage", err)
	}
	if _, err := p.ProcessBytes(context.Background(), nil); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("ProcessBytes(nil) error = %v, want ErrInvalidImage", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.jpg")
	if _, err := p.ProcessFile(context.Background(), missing); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("ProcessFile error = %v, want ErrInvalidImage", err)
	}
}

func TestProcessText(t *testing.T) {
	p := NewPipeline(&fakeEngine{})

	res := p.ProcessText(apfelkuchen)
	if res.Degraded != nil || res.Confidence != models.ConfidenceHigh || res.Strategy != "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Recipe.PrepTimeMinutes == nil || *res.Recipe.PrepTimeMinutes != 30 || res.Recipe.Portions != 4 {
		t.Fatalf("recipe = %+v", res.Recipe)
	}

	garbage := p.ProcessText("x x x")
	if garbage.DocType != models.DocTypeUnknown || garbage.Confidence != models.ConfidenceLow {
		t.Fatalf("garbage: doc type %s, confidence %s", garbage.DocType, garbage.Confidence)
	}
	if len(garbage.Recipe.Ingredients) != 0 {
		t.Fatalf("garbage produced ingredients: %+v", garbage.Recipe.Ingredients)
	}
}

func TestGuardRecoversPanics(t *testing.T) {
	events := &eventLog{}
	p := NewPipeline(&fakeEngine{}, WithObserver(events))

	res := p.guard(func() *Result { panic("boom") })
	if !errors.Is(res.Degraded, ErrPipelinePanic) {
		t.Fatalf("Degraded = %v, want ErrPipelinePanic", res.Degraded)
	}
	if res.Confidence != models.ConfidenceLow || res.DocType != models.DocTypeUnknown {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, ok := events.find(EventRecovered); !ok {
		t.Fatalf("expected a recovered event")
	}
}

func TestCustomCatalog(t *testing.T) {
	engine := &fakeEngine{fallback: apfelkuchen}
	catalog := []Strategy{{Name: "Plain", Transform: DefaultCatalog[0].Transform, Modes: []PageSegMode{PSMAuto}}}

	res, err := NewPipeline(engine, WithCatalog(catalog), WithAutoRotate(false)).
		ProcessBytes(context.Background(), samplePNG(t, 8, 8))
	if err != nil {
		t.Fatalf("ProcessBytes: %v", err)
	}
	if res.Strategy != "Plain + PSM 3" || len(engine.calls) != 1 {
		t.Fatalf("winner %q after %d calls", res.Strategy, len(engine.calls))
	}
}
