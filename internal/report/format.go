package report

import (
	"io"
	"strings"

	"github.com/yacobolo/atomcss"
)

// OutputFormat selects how a build result is written.
type OutputFormat int

const (
	// OutputSummary prints the summary and warnings.
	OutputSummary OutputFormat = iota
	// OutputFull adds per-utility statistics.
	OutputFull
	// OutputJSON writes the JSON schema.
	OutputJSON
	// OutputQuiet prints nothing; the exit code carries the result.
	OutputQuiet
)

// DetermineOutputFormat selects the output format from flags.
// Unknown names fall back to the summary.
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	if quiet {
		return OutputQuiet
	}
	switch strings.ToLower(formatFlag) {
	case "full":
		return OutputFull
	case "json":
		return OutputJSON
	case "quiet":
		return OutputQuiet
	default:
		return OutputSummary
	}
}

// WriteOutput writes the build result in the specified format.
func WriteOutput(w io.Writer, result *atomcss.BuildResult, format OutputFormat, useColors bool) error {
	switch format {
	case OutputQuiet:
		return nil
	case OutputJSON:
		return WriteJSON(w, result)
	}

	reporter := NewReporter(w, useColors)
	reporter.PrintSummary(result)
	if format == OutputFull {
		reporter.PrintUtilities(result)
	}
	reporter.PrintWarnings(result)
	return nil
}
