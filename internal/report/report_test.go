package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/atomcss"
	"github.com/yacobolo/atomcss/internal/generator"
	"github.com/yacobolo/atomcss/internal/theme"
)

func sampleResult() *atomcss.BuildResult {
	return &atomcss.BuildResult{
		Utilities:      2,
		RulesGenerated: 40,
		RulesKept:      3,
		FilesScanned:   1,
		TokensUsed:     5,
		Purged:         true,
		Output:         "dist/atomcss.css",
		Stats: []generator.UtilityStats{
			{Name: "padding", Display: "p", Rules: 12},
			{Name: "background-color", Display: "bg", Rules: 28},
		},
		Warnings: []string{`utility "margin": unknown modifier "focus"`},
		Duration: 1500 * time.Microsecond,
	}
}

func TestDetermineOutputFormat(t *testing.T) {
	tests := []struct {
		flag  string
		quiet bool
		want  OutputFormat
	}{
		{"", false, OutputSummary},
		{"full", false, OutputFull},
		{"JSON", false, OutputJSON},
		{"quiet", false, OutputQuiet},
		{"json", true, OutputQuiet},
		{"bogus", false, OutputSummary},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineOutputFormat(tt.flag, tt.quiet))
		})
	}
}

func TestWriteOutputSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, sampleResult(), OutputSummary, false))

	out := buf.String()
	assert.Contains(t, out, "✓ 3 rules (kept 3 of 40, 1 file, 5 tokens)")
	assert.Contains(t, out, "→ dist/atomcss.css")
	assert.Contains(t, out, "done in 2ms")
	assert.Contains(t, out, "1 warning:")
	assert.Contains(t, out, `unknown modifier "focus"`)
	assert.NotContains(t, out, "Utilities")
}

func TestWriteOutputFull(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, sampleResult(), OutputFull, false))

	out := buf.String()
	bg := strings.Index(out, "bg (background-color)")
	p := strings.Index(out, "p (padding)")
	require.Positive(t, bg)
	require.Positive(t, p)
	assert.Less(t, bg, p, "largest utility first")
}

func TestWriteOutputNoPurge(t *testing.T) {
	result := &atomcss.BuildResult{Utilities: 1, RulesGenerated: 4, RulesKept: 4}

	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, result, OutputSummary, false))
	assert.Contains(t, buf.String(), "4 rules from 1 utility (purge disabled)")
	assert.NotContains(t, buf.String(), "→")
}

func TestWriteOutputQuiet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, sampleResult(), OutputQuiet, false))
	assert.Empty(t, buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var decoded JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 40, decoded.Summary.RulesGenerated)
	assert.Equal(t, 3, decoded.Summary.RulesKept)
	assert.True(t, decoded.Summary.Purged)
	assert.Equal(t, int64(1), decoded.Summary.DurationMS)
	require.Len(t, decoded.Utilities, 2)
	assert.Equal(t, "padding", decoded.Utilities[0].Name)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, &atomcss.BuildResult{}))
	assert.Contains(t, buf.String(), `"warnings": []`)
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf, false).PrintError(atomcss.ErrRootNotFound)
	assert.Equal(t, "✗ build failed: "+atomcss.ErrRootNotFound.Error()+"\n", buf.String())
}

func TestPrintPalette(t *testing.T) {
	palette := theme.NewColorPalette()
	palette.Put("red", "500", "#ef4444")
	palette.Put("brand", theme.DefaultKey, "var(--brand)")

	var buf bytes.Buffer
	PrintPalette(&buf, palette, false)
	assert.Equal(t, "red\n  500      #ef4444\nbrand\n  DEFAULT  var(--brand)\n", buf.String())
}

func TestSwatch(t *testing.T) {
	assert.Equal(t, "#fff", Swatch("#fff", false))
	assert.Equal(t, "var(--x)", Swatch("var(--x)", true), "non-hex values are not styled")
	assert.Contains(t, Swatch("#000000", true), "#000000")
}

func TestRenderStyle(t *testing.T) {
	assert.Equal(t, "plain", RenderStyle(StyleRed, "plain", false))
}

func TestShouldUseColors(t *testing.T) {
	assert.True(t, ShouldUseColors(true))

	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "1")
	assert.False(t, ShouldUseColors(false))

	t.Setenv("NO_COLOR", "")
	assert.True(t, ShouldUseColors(false))
}
