package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"recipescan/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Recipes CLI - turn recipe photos and pages into structured recipes",
	Long: `Recipes CLI reads recipes from photos, plain text and saved web pages.

Photos are corrected for orientation and recognized with several image
preprocessing strategies in parallel. The best scoring text is parsed into
a title, ingredients, timings and portions.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.WithComponent("root").Debug().Str("version", version).Msg("No subcommand given")
		return cmd.Help()
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
