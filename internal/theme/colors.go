package theme

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ValidateColors checks every hex swatch of the core palette and of
// color-palette utilities. Non-hex values such as keywords or rgb() pass
// through unchecked. It returns one warning per malformed swatch.
func (c *ThemeConfig) ValidateColors() []string {
	var warnings []string
	if c.Core.Colors != nil {
		warnings = append(warnings, validatePalette("core.colors", c.Core.Colors)...)
	}
	for _, u := range c.Utilities {
		if p, ok := u.Value.(*ColorPalette); ok {
			warnings = append(warnings, validatePalette("utilities."+u.Name, p)...)
		}
	}
	return warnings
}

func validatePalette(path string, p *ColorPalette) []string {
	var warnings []string
	for _, name := range p.names {
		m := p.palettes[name]
		for _, swatch := range m.keys {
			value := m.entries[swatch].Value
			if !strings.HasPrefix(value, "#") {
				continue
			}
			if _, err := ParseHex(value); err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: %s/%s: %v", path, name, swatch, err))
			}
		}
	}
	return warnings
}

// ParseHex parses #rgb and #rrggbb colors.
func ParseHex(s string) (colorful.Color, error) {
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	return c, nil
}

// Luminance returns the relative lightness of a hex color in [0, 1], or -1
// when the value is not a hex color. Reports use it to pick a readable
// foreground for swatch previews.
func Luminance(value string) float64 {
	c, err := ParseHex(value)
	if err != nil {
		return -1
	}
	l, _, _ := c.Lab()
	return l
}
