package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yacobolo/atomcss/internal/rules"
)

// DefaultKey is the sentinel entry key whose class name collapses to the tag.
const DefaultKey = "DEFAULT"

// ErrKindMismatch is returned when two config values of different variants are merged.
var ErrKindMismatch = errors.New("config value kind mismatch")

// Kind identifies a ConfigValue variant.
type Kind int

// ConfigValue variants.
const (
	KindKeyValue Kind = iota
	KindColorPalette
	KindImage
	KindFont
	KindPlugin
	KindStringList
	KindModifier
)

var kindNames = map[Kind]string{
	KindKeyValue:     "key_value",
	KindColorPalette: "color_palette",
	KindImage:        "image",
	KindFont:         "font",
	KindPlugin:       "plugin",
	KindStringList:   "string_list",
	KindModifier:     "modifier",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown value kind %q", name)
}

// Item is one generation unit produced by a ConfigValue.
type Item struct {
	Key   string
	Value string
	Aux   *rules.Properties
}

// ConfigValue is the sealed set of value providers a utility can carry.
type ConfigValue interface {
	Kind() Kind
	// Items returns generation items in a stable order.
	Items() []Item
	// Len returns the number of top-level entries.
	Len() int

	emptyLike() ConfigValue
	overlay(src ConfigValue)
}

// Merge builds a fresh value of own's kind, overlays every extended value in
// order and finally own, so own always wins on key collisions.
func Merge(own ConfigValue, extended ...ConfigValue) (ConfigValue, error) {
	out := own.emptyLike()
	for _, ext := range extended {
		if ext.Kind() != own.Kind() {
			return nil, fmt.Errorf("%w: cannot extend %s value with %s value", ErrKindMismatch, own.Kind(), ext.Kind())
		}
		out.overlay(ext)
	}
	out.overlay(own)
	return out, nil
}

// Entry is a single keyed value with optional auxiliary properties.
type Entry struct {
	Value string
	Aux   *rules.Properties
}

// entryMap is the ordered storage shared by the map-shaped variants.
type entryMap struct {
	keys    []string
	entries map[string]Entry
	// Extra holds auxiliary properties applied to every item of the value.
	Extra *rules.Properties
}

// Put stores a plain value under key.
func (m *entryMap) Put(key, value string) {
	m.Set(key, Entry{Value: value})
}

// Set stores an entry under key, keeping the position of an existing key.
func (m *entryMap) Set(key string, e Entry) {
	if m.entries == nil {
		m.entries = make(map[string]Entry)
	}
	if _, exists := m.entries[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = e
}

// Get returns the entry stored under key.
func (m *entryMap) Get(key string) (Entry, bool) {
	e, ok := m.entries[key]
	return e, ok
}

// Keys returns entry keys in insertion order.
func (m *entryMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *entryMap) Len() int {
	return len(m.keys)
}

func (m *entryMap) overlayEntries(src *entryMap) {
	for _, k := range src.keys {
		m.Set(k, src.entries[k])
	}
	if src.Extra.Len() > 0 {
		if m.Extra == nil {
			m.Extra = rules.NewProperties()
		}
		src.Extra.Each(m.Extra.Set)
	}
}

func (m *entryMap) items(format func(string) string) []Item {
	out := make([]Item, 0, len(m.keys))
	for _, k := range m.keys {
		e := m.entries[k]
		value := e.Value
		if format != nil && value != "" {
			value = format(value)
		}
		out = append(out, Item{Key: k, Value: value, Aux: combineAux(m.Extra, e.Aux)})
	}
	return out
}

func combineAux(base, override *rules.Properties) *rules.Properties {
	if base.Len() == 0 && override.Len() == 0 {
		return nil
	}
	out := rules.NewProperties()
	if base != nil {
		base.Each(out.Set)
	}
	if override != nil {
		override.Each(out.Set)
	}
	return out
}

// KeyValueMap maps keys to plain property values (spacing, sizes, weights).
type KeyValueMap struct{ entryMap }

// NewKeyValueMap returns an empty KeyValueMap.
func NewKeyValueMap() *KeyValueMap { return &KeyValueMap{} }

func (*KeyValueMap) Kind() Kind { return KindKeyValue }
func (v *KeyValueMap) Items() []Item { return v.items(nil) }
func (*KeyValueMap) emptyLike() ConfigValue { return NewKeyValueMap() }
func (v *KeyValueMap) overlay(src ConfigValue) { v.overlayEntries(&src.(*KeyValueMap).entryMap) }

// ImageMap maps keys to opaque asset references.
type ImageMap struct{ entryMap }

// NewImageMap returns an empty ImageMap.
func NewImageMap() *ImageMap { return &ImageMap{} }

func (*ImageMap) Kind() Kind { return KindImage }
func (v *ImageMap) Items() []Item { return v.items(imageURL) }
func (*ImageMap) emptyLike() ConfigValue { return NewImageMap() }
func (v *ImageMap) overlay(src ConfigValue) { v.overlayEntries(&src.(*ImageMap).entryMap) }

// imageURL wraps a bare asset reference in url(); CSS image functions and
// keywords pass through.
func imageURL(ref string) string {
	if ref == "none" || strings.Contains(ref, "(") {
		return ref
	}
	return `url("` + ref + `")`
}

// FontMap maps keys to font family stacks or asset references.
type FontMap struct{ entryMap }

// NewFontMap returns an empty FontMap.
func NewFontMap() *FontMap { return &FontMap{} }

func (*FontMap) Kind() Kind { return KindFont }
func (v *FontMap) Items() []Item { return v.items(nil) }
func (*FontMap) emptyLike() ConfigValue { return NewFontMap() }
func (v *FontMap) overlay(src ConfigValue) { v.overlayEntries(&src.(*FontMap).entryMap) }

// PluginMap maps plugin names to plugin-specific values.
type PluginMap struct{ entryMap }

// NewPluginMap returns an empty PluginMap.
func NewPluginMap() *PluginMap { return &PluginMap{} }

func (*PluginMap) Kind() Kind { return KindPlugin }
func (v *PluginMap) Items() []Item { return v.items(nil) }
func (*PluginMap) emptyLike() ConfigValue { return NewPluginMap() }
func (v *PluginMap) overlay(src ConfigValue) { v.overlayEntries(&src.(*PluginMap).entryMap) }

// ModifierMap maps modifier names to selector templates.
type ModifierMap struct{ entryMap }

// NewModifierMap returns an empty ModifierMap.
func NewModifierMap() *ModifierMap { return &ModifierMap{} }

func (*ModifierMap) Kind() Kind { return KindModifier }
func (v *ModifierMap) Items() []Item { return v.items(nil) }
func (*ModifierMap) emptyLike() ConfigValue { return NewModifierMap() }
func (v *ModifierMap) overlay(src ConfigValue) { v.overlayEntries(&src.(*ModifierMap).entryMap) }

// Template returns the selector template registered for a modifier.
func (v *ModifierMap) Template(name string) (string, bool) {
	if v == nil {
		return "", false
	}
	e, ok := v.Get(name)
	return e.Value, ok
}

// StringList is an ordered set of values, each used as both key and value.
type StringList struct {
	values []string
}

// NewStringList returns a StringList holding values, duplicates dropped.
func NewStringList(values ...string) *StringList {
	l := &StringList{}
	l.Add(values...)
	return l
}

// Add appends values not already present.
func (l *StringList) Add(values ...string) {
	for _, v := range values {
		if !l.Contains(v) {
			l.values = append(l.values, v)
		}
	}
}

// Contains reports whether v is in the list.
func (l *StringList) Contains(v string) bool {
	for _, existing := range l.values {
		if existing == v {
			return true
		}
	}
	return false
}

// Values returns the list contents in order.
func (l *StringList) Values() []string {
	out := make([]string, len(l.values))
	copy(out, l.values)
	return out
}

func (*StringList) Kind() Kind { return KindStringList }
func (l *StringList) Len() int { return len(l.values) }
func (*StringList) emptyLike() ConfigValue { return NewStringList() }
func (l *StringList) overlay(src ConfigValue) {
	l.Add(src.(*StringList).values...)
}

func (l *StringList) Items() []Item {
	out := make([]Item, 0, len(l.values))
	for _, v := range l.values {
		out = append(out, Item{Key: v, Value: v})
	}
	return out
}

// ColorPalette is a two-level palette name -> swatch name -> color map.
type ColorPalette struct {
	names    []string
	palettes map[string]*entryMap
	// Extra holds auxiliary properties applied to every item of the palette.
	Extra *rules.Properties
}

// NewColorPalette returns an empty ColorPalette.
func NewColorPalette() *ColorPalette {
	return &ColorPalette{palettes: make(map[string]*entryMap)}
}

// Put stores color under palette/swatch.
func (p *ColorPalette) Put(palette, swatch, color string) {
	p.palette(palette).Put(swatch, color)
}

// PutSwatch stores a swatch entry carrying auxiliary properties.
func (p *ColorPalette) PutSwatch(palette, swatch string, e Entry) {
	p.palette(palette).Set(swatch, e)
}

func (p *ColorPalette) palette(name string) *entryMap {
	m, ok := p.palettes[name]
	if !ok {
		m = &entryMap{}
		p.palettes[name] = m
		p.names = append(p.names, name)
	}
	return m
}

// Palettes returns palette names in insertion order.
func (p *ColorPalette) Palettes() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Swatches returns the swatch names of a palette in insertion order.
func (p *ColorPalette) Swatches(palette string) []string {
	if m, ok := p.palettes[palette]; ok {
		return m.Keys()
	}
	return nil
}

// Color returns the color stored for palette/swatch.
func (p *ColorPalette) Color(palette, swatch string) (string, bool) {
	m, ok := p.palettes[palette]
	if !ok {
		return "", false
	}
	e, ok := m.Get(swatch)
	return e.Value, ok
}

func (*ColorPalette) Kind() Kind { return KindColorPalette }
func (p *ColorPalette) Len() int { return len(p.names) }
func (*ColorPalette) emptyLike() ConfigValue { return NewColorPalette() }

// overlay merges at swatch granularity: a palette present in both keeps the
// swatches src does not redefine.
func (p *ColorPalette) overlay(src ConfigValue) {
	other := src.(*ColorPalette)
	for _, name := range other.names {
		p.palette(name).overlayEntries(other.palettes[name])
	}
	if other.Extra.Len() > 0 {
		if p.Extra == nil {
			p.Extra = rules.NewProperties()
		}
		other.Extra.Each(p.Extra.Set)
	}
}

// Items flattens palette/swatch into a single key: "slate"/"500" becomes
// "slate-500", and a DEFAULT swatch becomes just "slate".
func (p *ColorPalette) Items() []Item {
	var out []Item
	for _, name := range p.names {
		m := p.palettes[name]
		for _, swatch := range m.keys {
			e := m.entries[swatch]
			key := name + "-" + swatch
			if swatch == DefaultKey {
				key = name
			}
			out = append(out, Item{Key: key, Value: e.Value, Aux: combineAux(p.Extra, e.Aux)})
		}
	}
	return out
}
