package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/yacobolo/atomcss/internal/theme"
)

// PrintPalette lists every swatch of the palette. With colors enabled each
// value is shown on its own background, with a foreground picked from the
// swatch lightness.
func PrintPalette(w io.Writer, palette *theme.ColorPalette, useColors bool) {
	if palette == nil {
		return
	}
	for _, name := range palette.Palettes() {
		fmt.Fprintln(w, RenderStyle(StyleCyan, name, useColors))
		for _, swatch := range palette.Swatches(name) {
			value, _ := palette.Color(name, swatch)
			fmt.Fprintf(w, "  %-8s %s\n", swatch, Swatch(value, useColors))
		}
	}
}

// Swatch renders value as a colored chip. Values that are not hex colors are
// returned as-is.
func Swatch(value string, useColors bool) string {
	l := theme.Luminance(value)
	if !useColors || l < 0 {
		return value
	}
	fg := lipgloss.Color("#ffffff")
	if l > 0.6 {
		fg = lipgloss.Color("#000000")
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(value)).
		Foreground(fg).
		Padding(0, 1).
		Render(value)
}
