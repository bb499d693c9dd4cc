package theme

import "github.com/yacobolo/atomcss/internal/rules"

// DefaultSeparator joins a modifier name and a class name.
const DefaultSeparator = "_"

// DefaultModifiers returns the stock state and breakpoint modifiers.
func DefaultModifiers() *ModifierMap {
	m := NewModifierMap()
	m.Put("hover", GeneratedClassPlaceholder+":hover")
	m.Put("focus", GeneratedClassPlaceholder+":focus")
	m.Put("active", GeneratedClassPlaceholder+":active")
	m.Put("disabled", GeneratedClassPlaceholder+":disabled")
	m.Put("sm", "@media (min-width: 640px) { ."+GeneratedClassPlaceholder+" }")
	m.Put("md", "@media (min-width: 768px) { ."+GeneratedClassPlaceholder+" }")
	m.Put("lg", "@media (min-width: 1024px) { ."+GeneratedClassPlaceholder+" }")
	m.Put("xl", "@media (min-width: 1280px) { ."+GeneratedClassPlaceholder+" }")
	return m
}

// DefaultColors returns a compact starter palette.
func DefaultColors() *ColorPalette {
	p := NewColorPalette()
	p.Put("white", DefaultKey, "#ffffff")
	p.Put("black", DefaultKey, "#000000")
	p.Put("transparent", DefaultKey, "transparent")
	scales := []struct {
		name   string
		colors []string
	}{
		{"slate", []string{"#f8fafc", "#f1f5f9", "#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b", "#475569", "#334155", "#1e293b", "#0f172a"}},
		{"red", []string{"#fef2f2", "#fee2e2", "#fecaca", "#fca5a5", "#f87171", "#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d"}},
		{"green", []string{"#f0fdf4", "#dcfce7", "#bbf7d0", "#86efac", "#4ade80", "#22c55e", "#16a34a", "#15803d", "#166534", "#14532d"}},
		{"blue", []string{"#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a"}},
	}
	shades := []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900"}
	for _, s := range scales {
		for i, shade := range shades {
			p.Put(s.name, shade, s.colors[i])
		}
	}
	return p
}

// DefaultSpacing returns the stock spacing scale.
func DefaultSpacing() *KeyValueMap {
	m := NewKeyValueMap()
	for _, kv := range [][2]string{
		{"0", "0px"}, {"px", "1px"}, {"1", "0.25rem"}, {"2", "0.5rem"}, {"3", "0.75rem"},
		{"4", "1rem"}, {"6", "1.5rem"}, {"8", "2rem"}, {"12", "3rem"}, {"16", "4rem"},
	} {
		m.Put(kv[0], kv[1])
	}
	return m
}

// Default returns a ready-to-use configuration with every built-in utility
// enabled and populated.
func Default() *ThemeConfig {
	core := CoreProperties{
		Separator: DefaultSeparator,
		Modifiers: DefaultModifiers(),
		Colors:    DefaultColors(),
		Spacing:   DefaultSpacing(),
		Plugins:   NewPluginMap(),
	}

	var utilities []*UtilityDefinition
	for _, d := range descriptors {
		u := d.Definition()
		fillDefaults(u)
		utilities = append(utilities, u)
	}

	return New(core, utilities, CompilationSettings{
		Content:      []string{"**/*.html", "**/*.templ", "**/*.{js,jsx,ts,tsx}"},
		Root:         ".",
		Output:       "dist/atomcss.css",
		ExcludedDirs: DefaultExcludedDirs(),
		Purge:        true,
	})
}

// DefaultExcludedDirs returns directory names never scanned for content.
func DefaultExcludedDirs() []string {
	return []string{".git", "node_modules", "vendor", "dist", "build"}
}

func fillDefaults(u *UtilityDefinition) {
	switch v := u.Value.(type) {
	case *StringList:
		if u.Name == "display" {
			v.Add("block", "inline-block", "inline", "flex", "inline-flex", "grid", "contents")
		}
	case *KeyValueMap:
		switch u.Name {
		case "container":
			v.Put(DefaultKey, "100%")
		case "border-width":
			v.Put(DefaultKey, "1px")
			v.Put("0", "0px")
			v.Put("2", "2px")
			v.Put("4", "4px")
		case "border-radius":
			v.Put(DefaultKey, "0.25rem")
			v.Put("none", "0px")
			v.Put("md", "0.375rem")
			v.Put("lg", "0.5rem")
			v.Put("full", "9999px")
		case "width":
			v.Put("full", "100%")
			v.Put("auto", "auto")
			v.Put("screen", "100vw")
		case "height":
			v.Put("full", "100%")
			v.Put("auto", "auto")
			v.Put("screen", "100vh")
		case "font-size":
			for _, fs := range [][3]string{
				{"xs", "0.75rem", "1rem"}, {"sm", "0.875rem", "1.25rem"}, {"base", "1rem", "1.5rem"},
				{"lg", "1.125rem", "1.75rem"}, {"xl", "1.25rem", "1.75rem"},
			} {
				aux := rules.NewProperties()
				aux.Set("line-height", fs[2])
				v.Set(fs[0], Entry{Value: fs[1], Aux: aux})
			}
		case "font-weight":
			v.Put("normal", "400")
			v.Put("medium", "500")
			v.Put("semibold", "600")
			v.Put("bold", "700")
		case "opacity":
			for _, kv := range [][2]string{{"0", "0"}, {"25", "0.25"}, {"50", "0.5"}, {"75", "0.75"}, {"100", "1"}} {
				v.Put(kv[0], kv[1])
			}
		case "z-index":
			for _, z := range []string{"0", "10", "20", "30", "40", "50"} {
				v.Put(z, z)
			}
			v.Put("auto", "auto")
		}
	case *FontMap:
		v.Put("sans", `ui-sans-serif, system-ui, sans-serif`)
		v.Put("serif", `ui-serif, Georgia, serif`)
		v.Put("mono", `ui-monospace, SFMono-Regular, Menlo, monospace`)
	case *ImageMap:
		v.Put("none", "none")
	}
}
