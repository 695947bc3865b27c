package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"recipescan/internal/config"
	"recipescan/internal/logger"
)

var parseCmd = &cobra.Command{
	Use:   "parse [text-file|-]",
	Short: "Parse recipe text that was recognized elsewhere",
	Long: `Parse plain recipe text into a structured recipe.

The text goes through the same normalization, scoring and parsing as the
output of the scan command. Use "-" to read from stdin.`,
	Example: `  # Parse a text file
  recipes parse kuchen.txt

  # Pipe text from another OCR tool
  tesseract kuchen.jpg stdout -l deu | recipes parse - --json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().Bool("json", false, "Output as JSON")
}

func runParse(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("parse")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var (
		text []byte
		err  error
	)
	if args[0] == "-" {
		text, err = io.ReadAll(os.Stdin)
	} else {
		text, err = os.ReadFile(args[0])
	}
	if err != nil {
		log.Error().Err(err).Str("file", args[0]).Msg("Failed to read text")
		return fmt.Errorf("failed to read text: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	result := newPipeline(cfg, nil, false, false).ProcessText(string(text))

	log.Info().
		Int("score", result.OCRScore).
		Int("ingredients", len(result.Recipe.Ingredients)).
		Str("confidence", string(result.Confidence)).
		Msg("Recipe text parsed")

	return outputResult(result, outputPath, jsonOutput, log)
}
