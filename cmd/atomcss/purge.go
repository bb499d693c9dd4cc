package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/atomcss/internal/extract"
	"github.com/yacobolo/atomcss/internal/purge"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "List the class tokens that keep rules alive",
	Long: `Scan the content files of the theme and print every token that survives
the safelist and blocklist, one per line. Use --all to print every token
extracted before the lists are applied.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runPurge,
}

func init() {
	f := purgeCmd.Flags()
	f.StringSlice("content", nil, "Glob patterns of content files, relative to root")
	f.StringSlice("safelist", nil, "Tokens always kept (literal or /regex/)")
	f.StringSlice("blocklist", nil, "Tokens never kept (literal or /regex/)")
	f.Int("concurrency", 0, "Parallel content scanners (0 or 1 scans sequentially)")
	f.Bool("all", false, "Print every extracted token, ignoring safelist and blocklist")
}

func runPurge(cmd *cobra.Command, _ []string) error {
	config := buildBuildConfig()
	cfg, err := loadThemeConfig(config)
	if err != nil {
		return err
	}

	result, err := purge.UsedTokens(context.Background(), purge.Options{
		Root:         cfg.Compilation.Root,
		Content:      cfg.Compilation.Content,
		ExcludedDirs: cfg.Compilation.ExcludedDirs,
		Extractors:   []extract.Extractor{extract.FromConfig(cfg, false)},
		Safelist:     cfg.Compilation.Safelist,
		Blocklist:    cfg.Compilation.Blocklist,
		Concurrency:  config.Concurrency,
		Verbose:      config.Verbose,
	})
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	tokens := result.Used
	if all, _ := cmd.Flags().GetBool("all"); all {
		tokens = result.Extracted
	}
	for _, token := range tokens.Sorted() {
		fmt.Println(token)
	}

	if !getBoolWithFallback("quiet", "quiet", false) {
		fmt.Fprintf(os.Stderr, "%d tokens in %d files (%d ignored)\n",
			len(tokens), result.Stats.FilesMatched, result.Stats.FilesIgnored)
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "  Warning: %s\n", w)
		}
	}
	return nil
}
