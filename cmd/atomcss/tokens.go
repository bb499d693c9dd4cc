package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/atomcss/internal/extract"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>...",
	Short: "Print the class tokens extracted from files",
	Long: `Run the class token extractor over the given files and print what it
finds, grouped by file. Useful for checking why a rule was or was not kept.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadThemeConfig(buildBuildConfig())
		if err != nil {
			return err
		}
		filtered, _ := cmd.Flags().GetBool("filtered")
		return printTokens(cmd.OutOrStdout(), extract.FromConfig(cfg, filtered), args)
	},
}

func init() {
	tokensCmd.Flags().Bool("filtered", false, "Keep only tokens naming a known utility, value or modifier")
}

func printTokens(w io.Writer, extractor extract.Extractor, files []string) error {
	for _, path := range files {
		// #nosec G304 - path comes from the command line
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tokens := extractor.Extract(string(data)).Sorted()
		fmt.Fprintf(w, "%s (%d)\n", path, len(tokens))
		for _, token := range tokens {
			fmt.Fprintf(w, "  %s\n", token)
		}
	}
	return nil
}
