package theme

// Descriptor is the static metadata for a built-in utility: display text,
// generation order and the tags and extend paths it starts with.
type Descriptor struct {
	Name       string
	Display    string
	Kind       Kind
	Tags       []TagProperties
	Extends    []string
	Modifiers  []string
	Placement  Placement
	Priority   int
	Extendable bool
}

var interactive = []string{"hover", "focus", "active", "disabled"}
var responsive = []string{"sm", "md", "lg", "xl"}

func tags(pairs ...any) []TagProperties {
	out := make([]TagProperties, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, TagProperties{Tag: pairs[i].(string), Properties: pairs[i+1].([]string)})
	}
	return out
}

func join(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// descriptors lists the built-in utilities in declaration order.
var descriptors = []Descriptor{
	{
		Name: "container", Display: "Container", Kind: KindKeyValue,
		Tags:      tags("container", []string{"max-width"}),
		Placement: PlacementBefore, Priority: 0,
	},
	{
		Name: "display", Display: "Display", Kind: KindStringList,
		Tags:      tags("", []string{"display"}),
		Modifiers: responsive, Extendable: true,
	},
	{
		Name: "background-color", Display: "Background Color", Kind: KindColorPalette,
		Tags:      tags("bg", []string{"background-color"}),
		Extends:   []string{"core.colors"},
		Modifiers: join(interactive, responsive), Extendable: true,
	},
	{
		Name: "background-image", Display: "Background Image", Kind: KindImage,
		Tags:       tags("bg", []string{"background-image"}),
		Extendable: true,
	},
	{
		Name: "text-color", Display: "Text Color", Kind: KindColorPalette,
		Tags:      tags("text", []string{"color"}),
		Extends:   []string{"core.colors"},
		Modifiers: interactive, Extendable: true,
	},
	{
		Name: "border-color", Display: "Border Color", Kind: KindColorPalette,
		Tags:      tags("border", []string{"border-color"}),
		Extends:   []string{"core.colors"},
		Modifiers: interactive, Extendable: true,
	},
	{
		Name: "border-width", Display: "Border Width", Kind: KindKeyValue,
		Tags: tags(
			"border", []string{"border-width"},
			"border-x", []string{"border-left-width", "border-right-width"},
			"border-y", []string{"border-top-width", "border-bottom-width"},
		),
		Extendable: true,
	},
	{
		Name: "border-radius", Display: "Border Radius", Kind: KindKeyValue,
		Tags:       tags("rounded", []string{"border-radius"}),
		Extendable: true,
	},
	{
		Name: "padding", Display: "Padding", Kind: KindKeyValue,
		Tags: tags(
			"p", []string{"padding"},
			"px", []string{"padding-left", "padding-right"},
			"py", []string{"padding-top", "padding-bottom"},
			"pt", []string{"padding-top"},
			"pr", []string{"padding-right"},
			"pb", []string{"padding-bottom"},
			"pl", []string{"padding-left"},
		),
		Extends:   []string{"core.spacing"},
		Modifiers: responsive, Extendable: true,
	},
	{
		Name: "margin", Display: "Margin", Kind: KindKeyValue,
		Tags: tags(
			"m", []string{"margin"},
			"mx", []string{"margin-left", "margin-right"},
			"my", []string{"margin-top", "margin-bottom"},
		),
		Extends:   []string{"core.spacing"},
		Modifiers: responsive, Extendable: true,
	},
	{
		Name: "gap", Display: "Gap", Kind: KindKeyValue,
		Tags:       tags("gap", []string{"gap"}),
		Extends:    []string{"core.spacing"},
		Extendable: true,
	},
	{
		Name: "width", Display: "Width", Kind: KindKeyValue,
		Tags:      tags("w", []string{"width"}),
		Extends:   []string{"core.spacing"},
		Modifiers: responsive, Extendable: true,
	},
	{
		Name: "height", Display: "Height", Kind: KindKeyValue,
		Tags:      tags("h", []string{"height"}),
		Extends:   []string{"core.spacing"},
		Modifiers: responsive, Extendable: true,
	},
	{
		Name: "font-family", Display: "Font Family", Kind: KindFont,
		Tags:       tags("font", []string{"font-family"}),
		Extendable: true,
	},
	{
		Name: "font-size", Display: "Font Size", Kind: KindKeyValue,
		Tags:       tags("text", []string{"font-size"}),
		Extendable: true,
	},
	{
		Name: "font-weight", Display: "Font Weight", Kind: KindKeyValue,
		Tags:       tags("font", []string{"font-weight"}),
		Extendable: true,
	},
	{
		Name: "opacity", Display: "Opacity", Kind: KindKeyValue,
		Tags:      tags("opacity", []string{"opacity"}),
		Modifiers: interactive, Extendable: true,
	},
	{
		Name: "z-index", Display: "Z-Index", Kind: KindKeyValue,
		Tags:       tags("z", []string{"z-index"}),
		Placement:  PlacementAfter, Priority: 10,
		Extendable: true,
	},
}

// Descriptors returns a copy of the built-in descriptor table.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// LookupDescriptor returns the built-in descriptor for a utility name.
func LookupDescriptor(name string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// NewValue returns an empty ConfigValue of the given kind.
func NewValue(k Kind) ConfigValue {
	switch k {
	case KindColorPalette:
		return NewColorPalette()
	case KindImage:
		return NewImageMap()
	case KindFont:
		return NewFontMap()
	case KindPlugin:
		return NewPluginMap()
	case KindStringList:
		return NewStringList()
	case KindModifier:
		return NewModifierMap()
	default:
		return NewKeyValueMap()
	}
}

// Definition builds an enabled UtilityDefinition from the descriptor with an
// empty value of the descriptor's kind.
func (d Descriptor) Definition() *UtilityDefinition {
	return &UtilityDefinition{
		Name:       d.Name,
		Display:    d.Display,
		Enabled:    true,
		Value:      NewValue(d.Kind),
		Modifiers:  append([]string(nil), d.Modifiers...),
		Extends:    append([]string(nil), d.Extends...),
		Tags:       append([]TagProperties(nil), d.Tags...),
		Placement:  d.Placement,
		Priority:   d.Priority,
		Extendable: d.Extendable,
	}
}
