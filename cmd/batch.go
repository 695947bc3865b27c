package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"recipescan/internal/config"
	"recipescan/internal/logger"
	"recipescan/internal/ocr"
	"recipescan/internal/sheets"
)

var batchCmd = &cobra.Command{
	Use:   "batch [folder-path]",
	Short: "Scan all recipe photos in a folder and write them to Google Sheets",
	Long: `Scan every image in a folder and append one row per recipe to a Google Sheet.

Files are processed by a pool of workers, each running the full scan
pipeline. Rows keep the order of the files on disk.

Required environment variables (unless --dry-run):
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_SHEET_URL - Google Sheets URL to write results

Optional environment variables:
  GOOGLE_SHEET_WORKSHEET - Worksheet name (default: Rezepte)
  BATCH_WORKERS - Number of parallel workers (default: 4)`,
	Example: `  # Scan a folder and write the recipes to the sheet
  recipes batch ./fotos

  # Try it without touching the sheet
  recipes batch ./fotos --dry-run --verbose

  # Write into a different worksheet
  recipes batch ./fotos --sheet Kuchen`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// WorkerJob represents an image scanning job
type WorkerJob struct {
	FilePath string
	Index    int
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("sheet", "", "Worksheet name (default: GOOGLE_SHEET_WORKSHEET)")
	batchCmd.Flags().Bool("dry-run", false, "Process files but don't write to Google Sheet")
	batchCmd.Flags().Bool("verbose", false, "Show detailed processing information")
	batchCmd.Flags().Int("timeout", 1800, "Processing timeout in seconds")
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("batch")

	folderPath := args[0]
	sheetName, _ := cmd.Flags().GetString("sheet")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	folderInfo, err := os.Stat(folderPath)
	if err != nil {
		return fmt.Errorf("folder not found: %s", folderPath)
	}
	if !folderInfo.IsDir() {
		return fmt.Errorf("path is not a directory: %s", folderPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if sheetName == "" {
		sheetName = cfg.GoogleSheetWorksheet
	}
	if !dryRun && cfg.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL environment variable is required")
	}

	log.Info().
		Str("folder", folderPath).
		Str("sheet", sheetName).
		Str("engine", cfg.OCREngine).
		Bool("dry_run", dryRun).
		Bool("verbose", verbose).
		Msg("Starting recipe batch processing")

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("                         REZEPT BATCH VERARBEITUNG")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Ordner: %s\n", folderPath)
	fmt.Printf("OCR: %s (%s)\n", cfg.OCREngine, cfg.OCRLanguage)
	if dryRun {
		fmt.Printf("Modus: Dry Run (keine Google Sheets Aktualisierung)\n")
	}
	fmt.Println()

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	imageFiles, err := findImageFiles(folderPath)
	if err != nil {
		return fmt.Errorf("failed to find image files: %w", err)
	}
	if len(imageFiles) == 0 {
		fmt.Println("Keine Bilddateien im Ordner gefunden.")
		return nil
	}

	engine, err := createEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline := newPipeline(cfg, engine, verbose, true)

	fmt.Printf("Verarbeite %d Bilder mit %d parallelen Workern...\n", len(imageFiles), cfg.BatchWorkers)
	fmt.Println()

	results := processImagesInParallel(ctx, imageFiles, pipeline, cfg.BatchWorkers, log, verbose)

	fmt.Println()

	counts := make(map[string]int)
	for _, result := range results {
		counts[result.Status()]++
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("                 ERGEBNIS")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Erfolgreich: %d\n", counts["OK"])
	if n := counts["Unvollständig"]; n > 0 {
		fmt.Printf("Unvollständig: %d\n", n)
	}
	if n := counts["Fehler"]; n > 0 {
		fmt.Printf("Fehler: %d\n", n)
	}
	fmt.Println()

	if !dryRun {
		fmt.Println("Schreibe Daten in Google Sheet...")

		sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
		if err != nil {
			return fmt.Errorf("failed to create Google Sheets service: %w", err)
		}
		if err := sheetsService.WriteBatchResults(ctx, results, sheetName); err != nil {
			return fmt.Errorf("failed to write to Google Sheet: %w", err)
		}

		fmt.Printf("Sheet: %s\n", sheetName)
		fmt.Printf("Zeilen hinzugefügt: %d\n", len(results))
		fmt.Printf("URL: %s\n", cfg.GoogleSheetURL)
	}

	fmt.Println(strings.Repeat("=", 80))

	log.Info().
		Int("total", len(imageFiles)).
		Int("success", counts["OK"]).
		Int("degraded", counts["Unvollständig"]).
		Int("errors", counts["Fehler"]).
		Msg("Recipe batch processing completed")

	return nil
}

func isImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// findImageFiles finds all image files in the specified folder
func findImageFiles(folderPath string) ([]string, error) {
	var imageFiles []string

	err := filepath.Walk(folderPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isImageFile(info.Name()) {
			imageFiles = append(imageFiles, path)
		}
		return nil
	})

	return imageFiles, err
}

// processImagesInParallel scans images using a worker pool pattern
func processImagesInParallel(ctx context.Context, imageFiles []string, pipeline *ocr.Pipeline, numWorkers int, log zerolog.Logger, verbose bool) []sheets.BatchResult {
	jobs := make(chan WorkerJob, len(imageFiles))
	results := make([]sheets.BatchResult, len(imageFiles))

	var processedCount int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobs {
				log.Debug().
					Int("worker", workerID).
					Str("file", job.FilePath).
					Int("index", job.Index+1).
					Msg("Worker scanning image")

				start := time.Now()
				result := sheets.BatchResult{Filename: filepath.Base(job.FilePath)}
				result.Result, result.Error = pipeline.ProcessFile(ctx, job.FilePath)

				// Store result in correct position
				results[job.Index] = result

				if verbose && result.Result != nil {
					log.Info().
						Str("file", result.Filename).
						Str("title", result.Result.Recipe.Title).
						Str("strategy", result.Result.Strategy).
						Int("score", result.Result.OCRScore).
						Dur("duration", time.Since(start)).
						Msg("Image scanned")
				}

				mu.Lock()
				processedCount++
				fmt.Printf("[%d/%d] %s - %s", processedCount, len(imageFiles), result.Filename, getStatusEmoji(result.Status()))
				if result.Error != nil {
					fmt.Printf(" (%s)", result.Error.Error())
				} else if result.Result.Degraded != nil {
					fmt.Printf(" (%s)", result.Result.Status())
				} else {
					fmt.Printf(" (%s, %s)", result.Result.Recipe.Title, result.Result.Confidence)
				}
				fmt.Println()
				mu.Unlock()
			}
		}(w)
	}

	for i, imageFile := range imageFiles {
		jobs <- WorkerJob{
			FilePath: imageFile,
			Index:    i,
		}
	}
	close(jobs)

	wg.Wait()

	return results
}

// getStatusEmoji returns an emoji for the processing status
func getStatusEmoji(status string) string {
	switch status {
	case "OK":
		return "✅"
	case "Unvollständig":
		return "⚠️"
	case "Fehler":
		return "❌"
	default:
		return "❓"
	}
}
