package ocr_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"recipescan/internal/logger"
	"recipescan/internal/ocr"
)

// Example demonstrates scanning a recipe photo with the local Tesseract engine.
func Example() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	engine, err := ocr.NewEngine(ctx, ocr.EngineConfig{Engine: ocr.EngineTesseract})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	pipeline := ocr.NewPipeline(engine,
		ocr.WithLanguage("deu"),
		ocr.WithObserver(ocr.NewLogObserver(logger.WithComponent("scan"))),
	)

	result, err := pipeline.ProcessFile(ctx, "rezept.jpg")
	if err != nil {
		log.Fatalf("Failed to scan recipe: %v", err)
	}

	fmt.Printf("%s (%s, %s)\n", result.Recipe.Title, result.Confidence, result.Strategy)
	for _, ing := range result.Recipe.Ingredients {
		fmt.Printf("  %g %s %s\n", ing.Amount, ing.Unit, ing.Name)
	}
}

// ExamplePipeline_ProcessText parses text that was recognized elsewhere.
func ExamplePipeline_ProcessText() {
	pipeline := ocr.NewPipeline(nil)

	result := pipeline.ProcessText("Apfelkuchen\n500 g Mehl\n2 Eier\n30 min backen\n4 Portionen")

	fmt.Println(result.Recipe.Title, result.Confidence, result.DocType, result.OCRScore)
	// Output: Apfelkuchen high auto 104
}

// ExamplePipeline_ProcessText_unreadable shows the fallback for unusable text.
func ExamplePipeline_ProcessText_unreadable() {
	result := ocr.NewPipeline(nil).ProcessText("x x x")

	fmt.Println(result.Confidence, result.DocType, result.Status())
	// Output: low unknown no usable text recognized
}

// ExampleNewLogObserver wires pipeline events into structured logs.
func ExampleNewLogObserver() {
	if err := logger.Setup(logger.LogConfig{Level: "debug", Format: "json", Output: "stderr"}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	observer := ocr.NewLogObserver(logger.WithComponent("ocr"))
	observer.Observe(ocr.Event{Kind: ocr.EventWinnerSelected, Strategy: "Otsu + PSM 4", Score: 104})
}
