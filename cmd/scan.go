package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"recipescan/internal/config"
	"recipescan/internal/logger"
	"recipescan/internal/ocr"
	"recipescan/internal/recipe"
	"recipescan/pkg/models"
)

var scanCmd = &cobra.Command{
	Use:   "scan [image-file]",
	Short: "Extract a recipe from a photo",
	Long: `Recognize the text on a recipe photo and parse it into a structured recipe.

The image is turned upright first, then every preprocessing strategy
(grayscale, Otsu, CLAHE, sharpening, bilateral filtering) is recognized with
several page segmentation modes. The text with the best quality score wins.

Configuration is read from the environment:
  OCR_ENGINE - tesseract (default), vision or documentai
  OCR_LANGUAGE - Tesseract language code (default: deu)
  OCR_WORKERS - Strategies recognized in parallel (default: 4)
  TESSDATA_PREFIX - Directory holding the traineddata files
  GOOGLE_APPLICATION_CREDENTIALS - Service account JSON for the Google engines`,
	Example: `  # Print the recipe found on a photo
  recipes scan kuchen.jpg

  # Save the full result including every strategy's score as JSON
  recipes scan kuchen.jpg --json -o kuchen.json

  # Log each strategy while it runs
  recipes scan kuchen.jpg --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scanCmd.Flags().Bool("json", false, "Output as JSON")
	scanCmd.Flags().Bool("verbose", false, "Log every pipeline event")
	scanCmd.Flags().Bool("no-rotate", false, "Skip orientation correction")
	scanCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scan")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noRotate, _ := cmd.Flags().GetBool("no-rotate")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	imagePath := args[0]

	log.Info().
		Str("file", imagePath).
		Str("output", outputPath).
		Bool("json", jsonOutput).
		Int("timeout", timeoutSecs).
		Msg("Starting recipe scan")

	if err := validateImageFile(imagePath, log); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	engine, err := createEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := engine.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR engine")
		}
	}()

	pipeline := newPipeline(cfg, engine, verbose, !noRotate)

	startTime := time.Now()
	result, err := pipeline.ProcessFile(ctx, imagePath)
	if err != nil {
		log.Error().Err(err).Str("file", imagePath).Msg("Recipe scan failed")
		if errors.Is(err, ocr.ErrInvalidImage) {
			return fmt.Errorf("could not read image %s. Supported formats are JPEG, PNG, GIF, BMP, TIFF and WebP: %w", imagePath, err)
		}
		return fmt.Errorf("recipe scan failed: %w", err)
	}

	log.Info().
		Str("strategy", result.Strategy).
		Int("score", result.OCRScore).
		Str("confidence", string(result.Confidence)).
		Str("status", result.Status()).
		Dur("duration", time.Since(startTime)).
		Msg("Recipe scan completed")

	if errors.Is(result.Degraded, ocr.ErrRecognition) && ctx.Err() != nil {
		return handleContextError(ctx.Err())
	}

	return outputResult(result, outputPath, jsonOutput, log)
}

// validateImageFile checks that the file exists and is a non-empty regular file.
func validateImageFile(path string, log zerolog.Logger) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", path).Msg("Image file not found")
			return fmt.Errorf("image file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().Str("file", path).Msg("Permission denied accessing image file")
			return fmt.Errorf("permission denied accessing image file: %s", path)
		}
		return fmt.Errorf("error accessing image file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return fmt.Errorf("path is not a regular file: %s", path)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("image file is empty: %s", path)
	}
	if !isImageFile(path) {
		log.Warn().Str("file", path).Msg("File does not have a known image extension")
	}
	return nil
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling processing")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// createEngine builds the configured recognition backend with user-friendly errors.
func createEngine(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ocr.Engine, error) {
	engine, err := ocr.NewEngine(ctx, cfg.EngineConfig())
	if err != nil {
		log.Error().Err(err).Str("engine", cfg.OCREngine).Msg("Failed to create OCR engine")
		if errors.Is(err, ocr.ErrMissingCredentials) {
			return nil, fmt.Errorf("Google Cloud credentials not configured. Please set one of:\n\n" +
				"1. Export GOOGLE_APPLICATION_CREDENTIALS with path to service account JSON:\n" +
				"   export GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n\n" +
				"2. Use Application Default Credentials (if gcloud is configured):\n" +
				"   gcloud auth application-default login\n\n" +
				"3. Or switch to the local engine with OCR_ENGINE=tesseract\n\n" +
				"Original error: %w", err)
		}
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}

	log.Debug().Str("engine", engine.Name()).Msg("OCR engine created successfully")
	return engine, nil
}

func newPipeline(cfg *config.Config, engine ocr.Engine, verbose, autoRotate bool) *ocr.Pipeline {
	opts := []ocr.Option{
		ocr.WithLanguage(cfg.OCRLanguage),
		ocr.WithWorkers(cfg.OCRWorkers),
		ocr.WithAutoRotate(autoRotate),
		ocr.WithParser(recipe.NewParser(recipe.WithCountUnit(cfg.OCRCountUnit))),
	}
	if verbose {
		opts = append(opts, ocr.WithObserver(ocr.NewLogObserver(logger.WithComponent("pipeline"))))
	}
	return ocr.NewPipeline(engine, opts...)
}

func handleContextError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("recipe scan timed out. Try increasing --timeout or lowering OCR_WORKERS")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("recipe scan was canceled")
	default:
		return err
	}
}

// outputResult writes the result as JSON or as a readable recipe card.
func outputResult(result *ocr.Result, outputPath string, jsonOutput bool, log zerolog.Logger) error {
	var outputData []byte
	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		outputData = data
	} else {
		outputData = []byte(formatResult(result))
	}
	return writeOutput(outputData, outputPath, log)
}

func writeOutput(data []byte, outputPath string, log zerolog.Logger) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(data)).
			Msg("Results written to file")
		return nil
	}

	if _, err := os.Stdout.Write(data); err != nil {
		log.Error().Err(err).Msg("Failed to write to stdout")
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Println()
	return nil
}

func formatResult(result *ocr.Result) string {
	var b strings.Builder
	b.WriteString(formatRecipe(result.Recipe))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Konfidenz: %s (Score %d)\n", result.Confidence, result.OCRScore)
	if result.Strategy != "" {
		fmt.Fprintf(&b, "Strategie: %s\n", result.Strategy)
	}
	if result.Degraded != nil {
		fmt.Fprintf(&b, "Hinweis: %s\n", result.Status())
	}
	return b.String()
}

func formatRecipe(r models.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s ===\n", r.Title)
	fmt.Fprintf(&b, "Portionen: %d\n", r.Portions)
	if r.PrepTimeMinutes != nil {
		fmt.Fprintf(&b, "Vorbereitung: %d min\n", *r.PrepTimeMinutes)
	}
	if r.CookTimeMinutes != nil {
		fmt.Fprintf(&b, "Kochzeit: %d min\n", *r.CookTimeMinutes)
	}
	if r.SourceURL != "" {
		fmt.Fprintf(&b, "Quelle: %s\n", r.SourceURL)
	}

	if len(r.Ingredients) > 0 {
		b.WriteString("\nZutaten:\n")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(&b, "  - %s\n", ing)
		}
	}
	if r.Description != "" {
		b.WriteString("\nZubereitung:\n")
		b.WriteString(r.Description)
		b.WriteString("\n")
	}
	return b.String()
}
