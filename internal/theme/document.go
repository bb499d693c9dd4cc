package theme

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/yacobolo/atomcss/internal/rules"
)

// Document is the on-disk (theme.toml) shape of a ThemeConfig.
type Document struct {
	Core        CoreDocument        `toml:"core"`
	Utilities   []UtilityDocument   `toml:"utilities"`
	Compilation CompilationDocument `toml:"compilation"`
}

// CoreDocument holds theme-wide settings.
type CoreDocument struct {
	Prefix    string                       `toml:"prefix,omitempty"`
	Separator string                       `toml:"separator,omitempty"`
	Modifiers map[string]string            `toml:"modifiers,omitempty"`
	Colors    map[string]map[string]string `toml:"colors,omitempty"`
	Spacing   map[string]string            `toml:"spacing,omitempty"`
	Plugins   map[string]any               `toml:"plugins,omitempty"`
	CustomCSS string                       `toml:"custom_css,omitempty"`
}

// UtilityDocument is one [[utilities]] table. Fields left empty fall back to
// the built-in descriptor of the same name, if any.
type UtilityDocument struct {
	Name       string                       `toml:"name"`
	Display    string                       `toml:"display,omitempty"`
	Enabled    *bool                        `toml:"enabled,omitempty"`
	Kind       string                       `toml:"kind,omitempty"`
	Modifiers  []string                     `toml:"modifiers,omitempty"`
	Extends    []string                     `toml:"extends,omitempty"`
	Tags       []TagDocument                `toml:"tags,omitempty"`
	Placement  string                       `toml:"placement,omitempty"`
	Priority   int                          `toml:"priority,omitempty"`
	Extendable *bool                        `toml:"extendable,omitempty"`
	Values     map[string]any               `toml:"values,omitempty"`
	Palette    map[string]map[string]string `toml:"palette,omitempty"`
	List       []string                     `toml:"list,omitempty"`
	Extra      map[string]string            `toml:"extra,omitempty"`
}

// TagDocument binds a tag to its property names.
type TagDocument struct {
	Tag        string   `toml:"tag"`
	Properties []string `toml:"properties"`
}

// CompilationDocument holds purge and output settings.
type CompilationDocument struct {
	Content      []string `toml:"content,omitempty"`
	Safelist     []string `toml:"safelist,omitempty"`
	Blocklist    []string `toml:"blocklist,omitempty"`
	Root         string   `toml:"root,omitempty"`
	Output       string   `toml:"output,omitempty"`
	ExcludedDirs []string `toml:"excluded_dirs,omitempty"`
	Purge        *bool    `toml:"purge,omitempty"`
}

// Load reads and converts a theme file.
func Load(path string) (*ThemeConfig, error) {
	// #nosec G304 - path comes from trusted configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML theme data into a ThemeConfig.
func Parse(data []byte) (*ThemeConfig, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Config()
}

// Marshal encodes cfg as TOML.
func Marshal(cfg *ThemeConfig) ([]byte, error) {
	return toml.Marshal(FromConfig(cfg))
}

// Save writes cfg to path as TOML.
func Save(path string, cfg *ThemeConfig) error {
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}

// Config converts the document into a ThemeConfig.
func (d Document) Config() (*ThemeConfig, error) {
	core := CoreProperties{
		Prefix:    d.Core.Prefix,
		Separator: d.Core.Separator,
		Modifiers: NewModifierMap(),
		Colors:    paletteFromDoc(d.Core.Colors),
		Spacing:   NewKeyValueMap(),
		Plugins:   NewPluginMap(),
		CustomCSS: d.Core.CustomCSS,
	}
	if core.Separator == "" {
		core.Separator = DefaultSeparator
	}
	if len(d.Core.Modifiers) == 0 {
		core.Modifiers = DefaultModifiers()
	}
	for _, k := range SortKeys(keysOf(d.Core.Modifiers)) {
		core.Modifiers.Put(k, d.Core.Modifiers[k])
	}
	for _, k := range SortKeys(keysOf(d.Core.Spacing)) {
		core.Spacing.Put(k, d.Core.Spacing[k])
	}
	if err := fillEntries(&core.Plugins.entryMap, d.Core.Plugins); err != nil {
		return nil, fmt.Errorf("core.plugins: %w", err)
	}

	utilities := make([]*UtilityDefinition, 0, len(d.Utilities))
	for i, ud := range d.Utilities {
		u, err := ud.definition()
		if err != nil {
			name := ud.Name
			if name == "" {
				name = "#" + strconv.Itoa(i)
			}
			return nil, fmt.Errorf("utility %s: %w", name, err)
		}
		utilities = append(utilities, u)
	}

	compilation := CompilationSettings{
		Content:      d.Compilation.Content,
		Safelist:     d.Compilation.Safelist,
		Blocklist:    d.Compilation.Blocklist,
		Root:         d.Compilation.Root,
		Output:       d.Compilation.Output,
		ExcludedDirs: d.Compilation.ExcludedDirs,
		Purge:        d.Compilation.Purge == nil || *d.Compilation.Purge,
	}
	if compilation.Root == "" {
		compilation.Root = "."
	}
	if compilation.ExcludedDirs == nil {
		compilation.ExcludedDirs = DefaultExcludedDirs()
	}

	return New(core, utilities, compilation), nil
}

func (ud UtilityDocument) definition() (*UtilityDefinition, error) {
	if ud.Name == "" {
		return nil, fmt.Errorf("missing name")
	}

	desc, builtin := LookupDescriptor(ud.Name)
	u := &UtilityDefinition{Name: ud.Name, Enabled: true, Extendable: true}
	if builtin {
		u = desc.Definition()
	}
	if ud.Display != "" {
		u.Display = ud.Display
	}
	if ud.Enabled != nil {
		u.Enabled = *ud.Enabled
	}
	if ud.Extendable != nil {
		u.Extendable = *ud.Extendable
	}
	if ud.Modifiers != nil {
		u.Modifiers = ud.Modifiers
	}
	if ud.Extends != nil {
		u.Extends = ud.Extends
	}
	if ud.Tags != nil {
		u.Tags = make([]TagProperties, 0, len(ud.Tags))
		for _, td := range ud.Tags {
			u.Tags = append(u.Tags, TagProperties{Tag: td.Tag, Properties: td.Properties})
		}
	}
	if ud.Placement != "" {
		u.Placement = ParsePlacement(ud.Placement)
	}
	if ud.Priority != 0 {
		u.Priority = ud.Priority
	}

	kind := KindKeyValue
	if builtin {
		kind = desc.Kind
	}
	if ud.Kind != "" {
		k, err := ParseKind(ud.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}

	value := NewValue(kind)
	switch v := value.(type) {
	case *ColorPalette:
		v.Extra = propsFromMap(ud.Extra)
		for _, name := range SortKeys(keysOfPalette(ud.Palette)) {
			for _, swatch := range SortKeys(keysOf(ud.Palette[name])) {
				v.Put(name, swatch, ud.Palette[name][swatch])
			}
		}
	case *StringList:
		v.Add(ud.List...)
	case *KeyValueMap:
		v.Extra = propsFromMap(ud.Extra)
		if err := fillEntries(&v.entryMap, ud.Values); err != nil {
			return nil, err
		}
	case *ImageMap:
		v.Extra = propsFromMap(ud.Extra)
		if err := fillEntries(&v.entryMap, ud.Values); err != nil {
			return nil, err
		}
	case *FontMap:
		v.Extra = propsFromMap(ud.Extra)
		if err := fillEntries(&v.entryMap, ud.Values); err != nil {
			return nil, err
		}
	case *PluginMap:
		v.Extra = propsFromMap(ud.Extra)
		if err := fillEntries(&v.entryMap, ud.Values); err != nil {
			return nil, err
		}
	case *ModifierMap:
		if err := fillEntries(&v.entryMap, ud.Values); err != nil {
			return nil, err
		}
	}
	u.Value = value
	return u, nil
}

// fillEntries decodes `key = "value"` and `key = { value = "...", aux = {...} }` forms.
func fillEntries(m *entryMap, values map[string]any) error {
	for _, key := range SortKeys(keysOfAny(values)) {
		switch raw := values[key].(type) {
		case string:
			m.Put(key, raw)
		case int64:
			m.Put(key, strconv.FormatInt(raw, 10))
		case float64:
			m.Put(key, strconv.FormatFloat(raw, 'f', -1, 64))
		case map[string]any:
			e := Entry{}
			if v, ok := raw["value"].(string); ok {
				e.Value = v
			}
			if aux, ok := raw["aux"].(map[string]any); ok {
				e.Aux = rules.NewProperties()
				for _, name := range SortKeys(keysOfAny(aux)) {
					e.Aux.Set(name, fmt.Sprint(aux[name]))
				}
			}
			m.Set(key, e)
		default:
			return fmt.Errorf("value %q: unsupported type %T", key, raw)
		}
	}
	return nil
}

func paletteFromDoc(colors map[string]map[string]string) *ColorPalette {
	p := NewColorPalette()
	for _, name := range SortKeys(keysOfPalette(colors)) {
		for _, swatch := range SortKeys(keysOf(colors[name])) {
			p.Put(name, swatch, colors[name][swatch])
		}
	}
	return p
}

func propsFromMap(m map[string]string) *rules.Properties {
	if len(m) == 0 {
		return nil
	}
	p := rules.NewProperties()
	for _, k := range SortKeys(keysOf(m)) {
		p.Set(k, m[k])
	}
	return p
}

// FromConfig converts a ThemeConfig back into its document form.
func FromConfig(cfg *ThemeConfig) Document {
	doc := Document{
		Core: CoreDocument{
			Prefix:    cfg.Core.Prefix,
			Separator: cfg.Core.Separator,
			CustomCSS: cfg.Core.CustomCSS,
		},
		Compilation: CompilationDocument{
			Content:      cfg.Compilation.Content,
			Safelist:     cfg.Compilation.Safelist,
			Blocklist:    cfg.Compilation.Blocklist,
			Root:         cfg.Compilation.Root,
			Output:       cfg.Compilation.Output,
			ExcludedDirs: cfg.Compilation.ExcludedDirs,
			Purge:        &cfg.Compilation.Purge,
		},
	}
	if cfg.Core.Modifiers != nil {
		doc.Core.Modifiers = entriesToStrings(&cfg.Core.Modifiers.entryMap)
	}
	if cfg.Core.Spacing != nil {
		doc.Core.Spacing = entriesToStrings(&cfg.Core.Spacing.entryMap)
	}
	if cfg.Core.Colors != nil {
		doc.Core.Colors = paletteToDoc(cfg.Core.Colors)
	}
	if cfg.Core.Plugins != nil && cfg.Core.Plugins.Len() > 0 {
		doc.Core.Plugins = entriesToAny(&cfg.Core.Plugins.entryMap)
	}

	for _, u := range cfg.Utilities {
		enabled, extendable := u.Enabled, u.Extendable
		ud := UtilityDocument{
			Name:       u.Name,
			Display:    u.Display,
			Enabled:    &enabled,
			Modifiers:  u.Modifiers,
			Extends:    u.Extends,
			Placement:  u.Placement.String(),
			Priority:   u.Priority,
			Extendable: &extendable,
		}
		for _, tp := range u.Tags {
			ud.Tags = append(ud.Tags, TagDocument{Tag: tp.Tag, Properties: tp.Properties})
		}
		if u.Value != nil {
			ud.Kind = u.Value.Kind().String()
			switch v := u.Value.(type) {
			case *ColorPalette:
				ud.Palette = paletteToDoc(v)
				ud.Extra = propsToMap(v.Extra)
			case *StringList:
				ud.List = v.Values()
			case *KeyValueMap:
				ud.Values = entriesToAny(&v.entryMap)
				ud.Extra = propsToMap(v.Extra)
			case *ImageMap:
				ud.Values = entriesToAny(&v.entryMap)
				ud.Extra = propsToMap(v.Extra)
			case *FontMap:
				ud.Values = entriesToAny(&v.entryMap)
				ud.Extra = propsToMap(v.Extra)
			case *PluginMap:
				ud.Values = entriesToAny(&v.entryMap)
				ud.Extra = propsToMap(v.Extra)
			case *ModifierMap:
				ud.Values = entriesToAny(&v.entryMap)
			}
		}
		doc.Utilities = append(doc.Utilities, ud)
	}
	return doc
}

func entriesToStrings(m *entryMap) map[string]string {
	if m == nil || m.Len() == 0 {
		return nil
	}
	out := make(map[string]string, m.Len())
	for _, k := range m.keys {
		out[k] = m.entries[k].Value
	}
	return out
}

func entriesToAny(m *entryMap) map[string]any {
	if m.Len() == 0 {
		return nil
	}
	out := make(map[string]any, m.Len())
	for _, k := range m.keys {
		e := m.entries[k]
		if e.Aux.Len() == 0 {
			out[k] = e.Value
			continue
		}
		out[k] = map[string]any{"value": e.Value, "aux": propsToMap(e.Aux)}
	}
	return out
}

func paletteToDoc(p *ColorPalette) map[string]map[string]string {
	out := make(map[string]map[string]string, p.Len())
	for _, name := range p.names {
		swatches := make(map[string]string)
		for _, k := range p.palettes[name].keys {
			swatches[k] = p.palettes[name].entries[k].Value
		}
		out[name] = swatches
	}
	return out
}

func propsToMap(p *rules.Properties) map[string]string {
	if p.Len() == 0 {
		return nil
	}
	out := make(map[string]string, p.Len())
	p.Each(func(k, v string) { out[k] = v })
	return out
}

// SortKeys orders TOML map keys deterministically: DEFAULT first, then
// numeric keys by value, then the rest lexically.
func SortKeys(keys []string) []string {
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a == DefaultKey || b == DefaultKey {
			return a == DefaultKey && b != DefaultKey
		}
		fa, errA := strconv.ParseFloat(a, 64)
		fb, errB := strconv.ParseFloat(b, 64)
		switch {
		case errA == nil && errB == nil:
			if fa != fb {
				return fa < fb
			}
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return a < b
	})
	return keys
}

func keysOf(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func keysOfAny(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func keysOfPalette(m map[string]map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
