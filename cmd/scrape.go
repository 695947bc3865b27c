package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"recipescan/internal/logger"
	"recipescan/internal/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [page.html]",
	Short: "Extract a recipe from a saved recipe web page",
	Long: `Read the schema.org Recipe embedded as JSON-LD in a saved HTML page.

Works with chefkoch.de and most other recipe sites. The page has to be
downloaded first, for example with curl.`,
	Example: `  # Save a chefkoch.de page and extract its recipe
  curl -s https://www.chefkoch.de/rezepte/123/kuchen.html -o kuchen.html
  recipes scrape kuchen.html

  # Write the recipe as JSON
  recipes scrape kuchen.html --json -o kuchen.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scrapeCmd.Flags().Bool("json", false, "Output as JSON")
}

func runScrape(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scrape")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	pagePath := args[0]

	f, err := os.Open(pagePath)
	if err != nil {
		log.Error().Err(err).Str("file", pagePath).Msg("Failed to open page")
		return fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	rec, err := scrape.ParseHTML(f)
	if err != nil {
		log.Error().Err(err).Str("file", pagePath).Msg("Failed to extract recipe")
		if errors.Is(err, scrape.ErrNoRecipeSchema) {
			return fmt.Errorf("no recipe found in %s. The page does not embed schema.org Recipe data", pagePath)
		}
		return fmt.Errorf("failed to extract recipe: %w", err)
	}

	log.Info().
		Str("title", rec.Title).
		Str("source", rec.Source).
		Int("ingredients", len(rec.Ingredients)).
		Msg("Recipe extracted")

	var outputData []byte
	if jsonOutput {
		outputData, err = json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
	} else {
		outputData = []byte(formatRecipe(*rec))
	}
	return writeOutput(outputData, outputPath, log)
}
