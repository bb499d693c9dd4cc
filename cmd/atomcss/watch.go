package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yacobolo/atomcss"
	"github.com/yacobolo/atomcss/internal/report"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the stylesheet whenever content or the theme changes",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		config := buildBuildConfig()
		config.DryRun = false

		quiet := getBoolWithFallback("quiet", "quiet", false)
		format := report.DetermineOutputFormat(getStringWithFallback("output-format", "build.output-format", ""), quiet)
		useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return atomcss.Watch(ctx, config, reportBuilds(os.Stdout, os.Stderr, format, useColors))
	},
}

func init() {
	f := watchCmd.Flags()
	f.StringP("output", "o", "", "Output stylesheet path (default: dist/atomcss.css)")
	f.String("custom-css", "", "Hand-written stylesheet merged around the generated rules")
	f.Bool("preserve-regions", false, "Ignore placeholders inside atomcss-ignore regions")
	f.Bool("no-purge", false, "Keep every generated rule")
	f.String("format", "expanded", "Stylesheet format: expanded|compact")
	f.Int("concurrency", 0, "Parallel content scanners (0 or 1 scans sequentially)")
	f.String("output-format", "", "Report format: summary|full|json|quiet")
}

// reportBuilds returns the watch callback: results go to out, failures to errOut.
func reportBuilds(out, errOut io.Writer, format report.OutputFormat, useColors bool) func(*atomcss.BuildResult, error) {
	reporter := report.NewReporter(errOut, useColors)
	return func(result *atomcss.BuildResult, err error) {
		if err != nil {
			reporter.PrintError(err)
			return
		}
		if err := report.WriteOutput(out, result, format, useColors); err != nil {
			fmt.Fprintf(errOut, "Error: write report: %v\n", err)
		}
	}
}
