// Package theme models the design-token configuration that drives rule
// generation: core properties, utility definitions and compilation settings.
package theme

import (
	"sort"
	"strings"
)

// GeneratedClassPlaceholder is replaced in modifier templates by the
// modifier-qualified class name.
const GeneratedClassPlaceholder = "{{generated_class}}"

// Placement selects the generation bucket of a utility.
type Placement int

// Generation buckets, processed in this order.
const (
	PlacementDefault Placement = iota
	PlacementBefore
	PlacementAfter
)

func (p Placement) String() string {
	switch p {
	case PlacementBefore:
		return "before"
	case PlacementAfter:
		return "after"
	default:
		return "default"
	}
}

// ParsePlacement maps "before", "after" and "default" (or "") to a Placement.
func ParsePlacement(s string) Placement {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "before":
		return PlacementBefore
	case "after":
		return PlacementAfter
	default:
		return PlacementDefault
	}
}

// CoreProperties are the theme-wide settings shared by all utilities.
type CoreProperties struct {
	Prefix    string // "tw-"; prepended to every generated class name
	Separator string // joins modifier and class: "hover" + "_" + "bg-red"
	Modifiers *ModifierMap
	Colors    *ColorPalette
	Spacing   *KeyValueMap
	Plugins   *PluginMap
	CustomCSS string // hand-written stylesheet merged with generated output
}

// TagProperties binds a class tag to the stylesheet properties it drives.
// A nil Properties slice is a configuration error.
type TagProperties struct {
	Tag        string
	Properties []string
}

// UtilityDefinition describes one utility and how its rules are expanded.
type UtilityDefinition struct {
	Name       string
	Display    string // human label, used in reports
	Enabled    bool
	Value      ConfigValue
	Modifiers  []string
	Extends    []string // registry paths: "core.colors", "utilities.padding"
	Tags       []TagProperties
	Placement  Placement
	Priority   int  // ordering within the before/after buckets
	Extendable bool // whether other utilities may extend this one
}

// CompilationSettings controls purging and output.
type CompilationSettings struct {
	Content      []string // glob patterns relative to Root
	Safelist     []string // literal or /regex/
	Blocklist    []string // literal or /regex/
	Root         string
	Output       string
	ExcludedDirs []string
	Purge        bool
}

// Accessor returns the current value of a registered config path.
type Accessor func() ConfigValue

// ThemeConfig is the complete configuration for one generation run.
// It must not be mutated while a generation run is in progress.
type ThemeConfig struct {
	Core        CoreProperties
	Utilities   []*UtilityDefinition
	Compilation CompilationSettings

	registry map[string]Accessor
}

// New assembles a ThemeConfig and builds its extend-path registry.
func New(core CoreProperties, utilities []*UtilityDefinition, compilation CompilationSettings) *ThemeConfig {
	cfg := &ThemeConfig{
		Core:        core,
		Utilities:   utilities,
		Compilation: compilation,
	}
	cfg.buildRegistry()
	return cfg
}

func (c *ThemeConfig) buildRegistry() {
	c.registry = map[string]Accessor{
		"core.colors": func() ConfigValue {
			if c.Core.Colors == nil {
				return nil
			}
			return c.Core.Colors
		},
		"core.spacing": func() ConfigValue {
			if c.Core.Spacing == nil {
				return nil
			}
			return c.Core.Spacing
		},
		"core.plugins": func() ConfigValue {
			if c.Core.Plugins == nil {
				return nil
			}
			return c.Core.Plugins
		},
		"core.modifiers": func() ConfigValue {
			if c.Core.Modifiers == nil {
				return nil
			}
			return c.Core.Modifiers
		},
	}
	for _, u := range c.Utilities {
		if !u.Extendable {
			continue
		}
		c.registry["utilities."+u.Name] = func() ConfigValue { return u.Value }
	}
}

// Resolve returns the value registered under path. Unknown paths and paths
// whose value is unset report false.
func (c *ThemeConfig) Resolve(path string) (ConfigValue, bool) {
	if c.registry == nil {
		c.buildRegistry()
	}
	acc, ok := c.registry[path]
	if !ok {
		return nil, false
	}
	v := acc()
	if v == nil {
		return nil, false
	}
	return v, true
}

// Paths returns every registered path, sorted.
func (c *ThemeConfig) Paths() []string {
	if c.registry == nil {
		c.buildRegistry()
	}
	paths := make([]string, 0, len(c.registry))
	for p := range c.registry {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Utility returns the definition with the given name.
func (c *ThemeConfig) Utility(name string) (*UtilityDefinition, bool) {
	for _, u := range c.Utilities {
		if u.Name == name {
			return u, true
		}
	}
	return nil, false
}

// KnownTags returns every non-empty class tag declared by enabled utilities.
func (c *ThemeConfig) KnownTags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, u := range c.Utilities {
		if !u.Enabled {
			continue
		}
		for _, tp := range u.Tags {
			if tp.Tag != "" && !seen[tp.Tag] {
				seen[tp.Tag] = true
				tags = append(tags, tp.Tag)
			}
		}
	}
	return tags
}

// ModifierNames returns the names of all configured modifiers.
func (c *ThemeConfig) ModifierNames() []string {
	if c.Core.Modifiers == nil {
		return nil
	}
	return c.Core.Modifiers.Keys()
}
