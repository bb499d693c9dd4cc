// Package report renders build results for the terminal and for machines.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/yacobolo/atomcss"
)

// Reporter handles formatting and outputting build results
type Reporter struct {
	w         io.Writer
	useColors bool
}

// NewReporter creates a new reporter writing to w.
func NewReporter(w io.Writer, useColors bool) *Reporter {
	return &Reporter{w: w, useColors: useColors}
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}

// PrintSummary outputs the one-line build summary plus the output path.
func (r *Reporter) PrintSummary(result *atomcss.BuildResult) {
	if result.Purged {
		fmt.Fprintf(r.w, "%s %s (kept %d of %d, %s, %s)\n",
			RenderStyle(StyleGreen, "✓", r.useColors),
			pluralizeCount(result.RulesKept, "rule", "rules"),
			result.RulesKept, result.RulesGenerated,
			pluralizeCount(result.FilesScanned, "file", "files"),
			pluralizeCount(result.TokensUsed, "token", "tokens"))
	} else {
		fmt.Fprintf(r.w, "%s %s from %s (purge disabled)\n",
			RenderStyle(StyleGreen, "✓", r.useColors),
			pluralizeCount(result.RulesKept, "rule", "rules"),
			pluralizeCount(result.Utilities, "utility", "utilities"))
	}

	if result.Output != "" {
		fmt.Fprintf(r.w, "  %s %s\n", RenderStyle(StyleGray, "→", r.useColors), RenderStyle(StyleCyan, result.Output, r.useColors))
	}
	fmt.Fprintf(r.w, "  %s\n", RenderStyle(StyleGray, fmt.Sprintf("done in %s", result.Duration.Round(time.Millisecond)), r.useColors))
}

// PrintUtilities outputs per-utility rule counts, largest first.
func (r *Reporter) PrintUtilities(result *atomcss.BuildResult) {
	if len(result.Stats) == 0 {
		return
	}

	stats := append(result.Stats[:0:0], result.Stats...)
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Rules > stats[j].Rules
	})

	width := 0
	for _, s := range stats {
		if n := len(label(s.Name, s.Display)); n > width {
			width = n
		}
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Utilities", r.useColors))
	for _, s := range stats {
		fmt.Fprintf(r.w, "  %-*s %6d\n", width, label(s.Name, s.Display), s.Rules)
	}
}

// PrintWarnings outputs non-fatal problems found during the build.
func (r *Reporter) PrintWarnings(result *atomcss.BuildResult) {
	if len(result.Warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, pluralizeCount(len(result.Warnings), "warning", "warnings")+":", r.useColors))
	for _, w := range result.Warnings {
		fmt.Fprintf(r.w, "  • %s\n", w)
	}
}

// PrintError outputs a failed build.
func (r *Reporter) PrintError(err error) {
	fmt.Fprintf(r.w, "%s %v\n", RenderStyle(StyleRed, "✗ build failed:", r.useColors), err)
}

func label(name, display string) string {
	if display == "" || display == name {
		return name
	}
	return fmt.Sprintf("%s (%s)", display, name)
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
