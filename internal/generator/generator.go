// Package generator expands a theme configuration into an ordered rule bag.
//
// Generation is a pure function of the configuration: the same ThemeConfig
// always produces the same rules in the same order.
package generator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yacobolo/atomcss/internal/rules"
	"github.com/yacobolo/atomcss/internal/theme"
)

// ErrMissingProperties is returned when a utility tag declares no property names.
var ErrMissingProperties = errors.New("tag declares no property names")

// UtilityError locates a fatal generation error in the configuration.
type UtilityError struct {
	Utility string
	Tag     string
	Field   string
	Err     error
}

func (e *UtilityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "utility %q", e.Utility)
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	if e.Tag != "" {
		fmt.Fprintf(&b, " tag %q", e.Tag)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *UtilityError) Unwrap() error { return e.Err }

// UtilityStats counts the rules written by one utility.
type UtilityStats struct {
	Name    string
	Display string
	Rules   int
}

// Result is the outcome of a generation run.
type Result struct {
	Bag       *rules.Bag
	Stats     []UtilityStats
	Warnings  []string
	Utilities int // enabled utilities processed
}

// Generator turns a ThemeConfig into rules.
type Generator struct {
	plugins []Plugin

	// Logf receives informational messages. Nil discards them.
	Logf func(format string, args ...any)
}

// New returns a Generator using the given plugins in order.
func New(plugins ...Plugin) *Generator {
	return &Generator{plugins: plugins}
}

// Generate runs a Generator without plugins.
func Generate(cfg *theme.ThemeConfig) (*Result, error) {
	return New().Generate(cfg)
}

// Generate expands every enabled utility of cfg. Contributed plugin rules
// are written before and after the utility buckets.
func (g *Generator) Generate(cfg *theme.ThemeConfig) (*Result, error) {
	res := &Result{Bag: rules.NewBag()}

	for _, p := range g.plugins {
		rc, ok := p.(RuleContributor)
		if !ok {
			continue
		}
		bag, err := rc.BeforeUtilities(cfg)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		res.Bag.Merge(bag)
	}

	for _, u := range Order(cfg.Utilities) {
		n, err := g.generateUtility(cfg, u, res)
		if err != nil {
			return nil, err
		}
		res.Utilities++
		res.Stats = append(res.Stats, UtilityStats{Name: u.Name, Display: u.Display, Rules: n})
	}

	for _, p := range g.plugins {
		rc, ok := p.(RuleContributor)
		if !ok {
			continue
		}
		bag, err := rc.AfterUtilities(cfg)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		res.Bag.Merge(bag)
	}

	return res, nil
}

// Order returns the enabled utilities in generation order: the before bucket
// by ascending priority, the default bucket in declaration order, then the
// after bucket by ascending priority. Equal priorities keep declaration order.
func Order(utilities []*theme.UtilityDefinition) []*theme.UtilityDefinition {
	var before, middle, after []*theme.UtilityDefinition
	for _, u := range utilities {
		if u == nil || !u.Enabled {
			continue
		}
		switch u.Placement {
		case theme.PlacementBefore:
			before = append(before, u)
		case theme.PlacementAfter:
			after = append(after, u)
		default:
			middle = append(middle, u)
		}
	}
	byPriority := func(s []*theme.UtilityDefinition) {
		sort.SliceStable(s, func(i, j int) bool { return s[i].Priority < s[j].Priority })
	}
	byPriority(before)
	byPriority(after)

	out := make([]*theme.UtilityDefinition, 0, len(before)+len(middle)+len(after))
	out = append(out, before...)
	out = append(out, middle...)
	return append(out, after...)
}

type generated struct {
	className string
	props     *rules.Properties
}

func (g *Generator) generateUtility(cfg *theme.ThemeConfig, u *theme.UtilityDefinition, res *Result) (int, error) {
	for _, tp := range u.Tags {
		if len(tp.Properties) == 0 {
			return 0, &UtilityError{Utility: u.Name, Tag: tp.Tag, Field: "tags", Err: ErrMissingProperties}
		}
	}
	if u.Value == nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("utility %s: no value configured, skipped", u.Name))
		return 0, nil
	}

	merged, err := g.resolve(cfg, u, res)
	if err != nil {
		return 0, err
	}
	items := merged.Items()

	modifiers := g.modifierTemplates(cfg, u, res)

	count := 0
	for _, tp := range u.Tags {
		if tp.Tag == "" {
			g.logf("utility %s: empty tag, class names are bare keys", u.Name)
		}

		var out []generated
		for _, it := range items {
			props := PropertyMap(tp.Properties, it)
			if props.Len() == 0 {
				continue
			}
			name := strings.TrimPrefix(ClassName(tp.Tag, it.Key), ".")
			if name == "" {
				res.Warnings = append(res.Warnings, fmt.Sprintf("utility %s: key %q under an empty tag has no class name, skipped", u.Name, it.Key))
				continue
			}
			className := cfg.Core.Prefix + name
			res.Bag.Set(Selector(className), props)
			out = append(out, generated{className: className, props: props})
			count++
		}

		for _, m := range modifiers {
			for _, gen := range out {
				res.Bag.Set(ModifierSelector(m.template, m.name, cfg.Core.Separator, gen.className), gen.props)
				count++
			}
		}
	}
	return count, nil
}

// resolve merges the utility's own value over its extended values.
func (g *Generator) resolve(cfg *theme.ThemeConfig, u *theme.UtilityDefinition, res *Result) (theme.ConfigValue, error) {
	var extended []theme.ConfigValue
	for _, path := range u.Extends {
		v, ok := cfg.Resolve(path)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("utility %s: extend path %q not found", u.Name, path))
			continue
		}
		if v.Kind() != u.Value.Kind() {
			return nil, &UtilityError{
				Utility: u.Name,
				Field:   "extends",
				Err:     fmt.Errorf("%w: %s is %s, utility value is %s", theme.ErrKindMismatch, path, v.Kind(), u.Value.Kind()),
			}
		}
		extended = append(extended, v)
	}
	merged, err := theme.Merge(u.Value, extended...)
	if err != nil {
		return nil, &UtilityError{Utility: u.Name, Field: "extends", Err: err}
	}
	return merged, nil
}

type modifier struct {
	name     string
	template string
}

func (g *Generator) modifierTemplates(cfg *theme.ThemeConfig, u *theme.UtilityDefinition, res *Result) []modifier {
	var out []modifier
	for _, name := range u.Modifiers {
		tmpl, ok := cfg.Core.Modifiers.Template(name)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("utility %s: unknown modifier %q", u.Name, name))
			continue
		}
		out = append(out, modifier{name: name, template: tmpl})
	}
	return out
}

func (g *Generator) logf(format string, args ...any) {
	if g.Logf != nil {
		g.Logf(format, args...)
	}
}

// ClassName derives the class name for an entry key under tag.
func ClassName(tag, key string) string {
	switch {
	case key == theme.DefaultKey:
		return tag
	case tag == "":
		return key
	default:
		return tag + "-" + key
	}
}

// PropertyMap assigns the item's value to every property name, then
// overlays its auxiliary properties. Empty values are skipped.
func PropertyMap(names []string, it theme.Item) *rules.Properties {
	props := rules.NewProperties()
	if it.Value != "" {
		for _, name := range names {
			props.Set(name, it.Value)
		}
	}
	it.Aux.Each(func(name, value string) {
		if value != "" {
			props.Set(name, value)
		}
	})
	return props
}

// Selector turns a class name into a class selector.
func Selector(className string) string {
	return "." + EscapeClass(strings.TrimPrefix(className, "."))
}

// ModifierSelector substitutes "<modifier><separator><className>" into a
// modifier template. The result is a class selector unless the template
// produces an at-rule wrapper.
func ModifierSelector(template, modifier, separator, className string) string {
	qualified := EscapeClass(modifier + separator + strings.TrimPrefix(className, "."))
	out := strings.ReplaceAll(template, theme.GeneratedClassPlaceholder, qualified)
	if strings.HasPrefix(out, ".") || strings.HasPrefix(out, "@") {
		return out
	}
	return "." + out
}

// EscapeClass backslash-escapes characters that may not appear unescaped in
// a class selector, such as the "." of "p-0.5" or the ":" of a separator.
// A leading digit is hex-escaped, after a leading "-" as well, and so is
// the second "-" of a leading "--".
func EscapeClass(name string) string {
	if name == "-" {
		return `\-`
	}
	leadingDash := strings.HasPrefix(name, "-")
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r >= 0x80:
			b.WriteRune(r)
		case r == '-':
			if i == 1 && leadingDash {
				b.WriteString(`\-`)
				continue
			}
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 || (i == 1 && leadingDash) {
				fmt.Fprintf(&b, "\\%x ", r)
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
