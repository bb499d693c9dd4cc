package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/atomcss"
	"github.com/yacobolo/atomcss/internal/report"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Generate, purge and write the utility stylesheet",
	Long: `Expand every enabled utility of the theme into CSS rules, drop the rules
no content file references and write the stylesheet.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
}

// addBuildFlags registers build flags on cmd. The root command carries them
// too so that a bare "atomcss" accepts them.
func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("output", "o", "", "Output stylesheet path (default: dist/atomcss.css)")
	f.StringSlice("content", nil, "Glob patterns of content files, relative to root")
	f.StringSlice("safelist", nil, "Tokens always kept (literal or /regex/)")
	f.StringSlice("blocklist", nil, "Tokens never kept (literal or /regex/)")
	f.String("custom-css", "", "Hand-written stylesheet merged around the generated rules")
	f.Bool("preserve-regions", false, "Ignore placeholders inside atomcss-ignore regions")
	f.Bool("no-purge", false, "Keep every generated rule")
	f.String("format", "expanded", "Stylesheet format: expanded|compact")
	f.Int("concurrency", 0, "Parallel content scanners (0 or 1 scans sequentially)")
	f.Bool("dry-run", false, "Print the stylesheet instead of writing it")
	f.String("output-format", "", "Report format: summary|full|json|quiet")
}

func runBuild(_ *cobra.Command, _ []string) error {
	config := buildBuildConfig()

	result, err := atomcss.Build(config)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Print(result.CSS)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	format := report.DetermineOutputFormat(getStringWithFallback("output-format", "build.output-format", ""), quiet)
	useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))

	// The stylesheet owns stdout on dry runs.
	w := os.Stdout
	if config.DryRun {
		w = os.Stderr
	}
	return report.WriteOutput(w, result, format, useColors)
}
