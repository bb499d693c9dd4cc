package report

import (
	"encoding/json"
	"io"

	"github.com/yacobolo/atomcss"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Summary   JSONSummary   `json:"summary"`
	Utilities []JSONUtility `json:"utilities"`
	Warnings  []string      `json:"warnings"`
}

// JSONSummary contains high-level build counts
type JSONSummary struct {
	Utilities      int    `json:"utilities"`
	RulesGenerated int    `json:"rules_generated"`
	RulesKept      int    `json:"rules_kept"`
	FilesScanned   int    `json:"files_scanned"`
	TokensUsed     int    `json:"tokens_used"`
	Purged         bool   `json:"purged"`
	Output         string `json:"output,omitempty"`
	DurationMS     int64  `json:"duration_ms"`
}

// JSONUtility holds the rule count of one utility
type JSONUtility struct {
	Name    string `json:"name"`
	Display string `json:"display,omitempty"`
	Rules   int    `json:"rules"`
}

// WriteJSON writes the build result as JSON
func WriteJSON(w io.Writer, result *atomcss.BuildResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(result))
}

func buildJSONOutput(result *atomcss.BuildResult) JSONOutput {
	out := JSONOutput{
		Summary: JSONSummary{
			Utilities:      result.Utilities,
			RulesGenerated: result.RulesGenerated,
			RulesKept:      result.RulesKept,
			FilesScanned:   result.FilesScanned,
			TokensUsed:     result.TokensUsed,
			Purged:         result.Purged,
			Output:         result.Output,
			DurationMS:     result.Duration.Milliseconds(),
		},
		Utilities: make([]JSONUtility, 0, len(result.Stats)),
		Warnings:  result.Warnings,
	}
	for _, s := range result.Stats {
		out.Utilities = append(out.Utilities, JSONUtility{Name: s.Name, Display: s.Display, Rules: s.Rules})
	}
	// Always emit an array
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	return out
}
