// Package stylesheet renders rule bags to CSS text and combines generated
// output with hand-written stylesheets.
package stylesheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yacobolo/atomcss/internal/rules"
)

// Markers used in hand-written stylesheets.
const (
	Placeholder = "/* @atomcss-utilities */"
	IgnoreStart = "/* atomcss-ignore-start */"
	IgnoreEnd   = "/* atomcss-ignore-end */"
)

// ErrAmbiguousPlaceholder is returned when the placeholder appears more than once.
var ErrAmbiguousPlaceholder = errors.New("placeholder occurs more than once")

// Format selects the rendering style.
type Format string

const (
	FormatExpanded Format = "expanded" // one declaration per line
	FormatCompact  Format = "compact"  // one rule per line
)

// ParseFormat maps a format name to a Format, defaulting to expanded.
func ParseFormat(s string) Format {
	if Format(strings.ToLower(s)) == FormatCompact {
		return FormatCompact
	}
	return FormatExpanded
}

// Render writes every rule of bag in order. Selectors produced by at-rule
// modifiers ("@media (...) { .sm_p-4 }") are nested inside their at-rule;
// consecutive rules sharing the same at-rule share one block.
func Render(bag *rules.Bag, format Format) string {
	var b strings.Builder
	var open string // at-rule prelude of the block currently open

	for _, r := range bag.Rules() {
		wrapper, inner := splitAtRule(r.Selector)
		if wrapper != open {
			if open != "" {
				b.WriteString("}\n")
			}
			if wrapper != "" {
				b.WriteString(wrapper)
				b.WriteString(" {\n")
			}
			open = wrapper
		}
		indent := ""
		if wrapper != "" {
			indent = "  "
		}
		writeRule(&b, indent, inner, r.Properties, format)
	}
	if open != "" {
		b.WriteString("}\n")
	}
	return b.String()
}

// splitAtRule separates "@media (...) { .x }" into its prelude and inner
// selector. Plain selectors return an empty prelude.
func splitAtRule(selector string) (string, string) {
	if !strings.HasPrefix(selector, "@") {
		return "", selector
	}
	open := strings.Index(selector, "{")
	if open < 0 {
		return selector, ""
	}
	inner := strings.TrimSpace(selector[open+1:])
	inner = strings.TrimSpace(strings.TrimSuffix(inner, "}"))
	return strings.TrimSpace(selector[:open]), inner
}

func writeRule(b *strings.Builder, indent, selector string, props *rules.Properties, format Format) {
	if selector == "" {
		return
	}
	if format == FormatCompact {
		fmt.Fprintf(b, "%s%s {", indent, selector)
		props.Each(func(name, value string) {
			fmt.Fprintf(b, " %s: %s;", name, value)
		})
		b.WriteString(" }\n")
		return
	}
	fmt.Fprintf(b, "%s%s {\n", indent, selector)
	props.Each(func(name, value string) {
		fmt.Fprintf(b, "%s  %s: %s;\n", indent, name, value)
	})
	fmt.Fprintf(b, "%s}\n", indent)
}

// MergeWithCustom inserts generated into custom at placeholder. Without a
// placeholder, custom is emitted first followed by generated. More than one
// placeholder is an error.
func MergeWithCustom(custom, generated, placeholder string) (string, error) {
	switch n := strings.Count(custom, placeholder); {
	case placeholder == "" || n == 0:
		if custom == "" {
			return generated, nil
		}
		if !strings.HasSuffix(custom, "\n") {
			custom += "\n"
		}
		return custom + generated, nil
	case n == 1:
		return strings.Replace(custom, placeholder, generated, 1), nil
	default:
		return "", fmt.Errorf("%w: %q found %d times", ErrAmbiguousPlaceholder, placeholder, n)
	}
}

// Region is one segment of a partitioned stylesheet. Terminated reports
// whether an ignored region was closed by an end marker.
type Region struct {
	Text       string
	Ignored    bool
	Terminated bool
}

// SplitIntoRegions partitions text on start/end marker pairs. Markers are
// dropped from the output. An unterminated start marker makes the rest of
// the text one ignored region. Empty plain segments are omitted; empty
// ignored regions are kept so that JoinRegions restores the input exactly.
func SplitIntoRegions(text, start, end string) []Region {
	var out []Region
	for text != "" {
		i := strings.Index(text, start)
		if i < 0 {
			out = append(out, Region{Text: text})
			break
		}
		if i > 0 {
			out = append(out, Region{Text: text[:i]})
		}
		text = text[i+len(start):]

		j := strings.Index(text, end)
		if j < 0 {
			out = append(out, Region{Text: text, Ignored: true})
			break
		}
		out = append(out, Region{Text: text[:j], Ignored: true, Terminated: true})
		text = text[j+len(end):]
	}
	return out
}

// JoinRegions reassembles regions, wrapping ignored ones in the markers. The
// end marker is written only for terminated regions.
func JoinRegions(regions []Region, start, end string) string {
	var b strings.Builder
	for _, r := range regions {
		if r.Ignored {
			b.WriteString(start)
			b.WriteString(r.Text)
			if r.Terminated {
				b.WriteString(end)
			}
			continue
		}
		b.WriteString(r.Text)
	}
	return b.String()
}

// MergePreservingRegions behaves like MergeWithCustom but only considers
// placeholders outside ignored regions; ignored regions are kept verbatim.
func MergePreservingRegions(custom, generated, placeholder string) (string, error) {
	regions := SplitIntoRegions(custom, IgnoreStart, IgnoreEnd)

	target, count := -1, 0
	for i, r := range regions {
		if r.Ignored {
			continue
		}
		if n := strings.Count(r.Text, placeholder); n > 0 {
			count += n
			target = i
		}
	}

	switch {
	case count > 1:
		return "", fmt.Errorf("%w: %q found %d times outside ignored regions", ErrAmbiguousPlaceholder, placeholder, count)
	case count == 1:
		regions[target].Text = strings.Replace(regions[target].Text, placeholder, generated, 1)
		return JoinRegions(regions, IgnoreStart, IgnoreEnd), nil
	default:
		return MergeWithCustom(JoinRegions(regions, IgnoreStart, IgnoreEnd), generated, "")
	}
}
