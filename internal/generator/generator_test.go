package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/atomcss/internal/extract"
	"github.com/yacobolo/atomcss/internal/rules"
	"github.com/yacobolo/atomcss/internal/theme"
)

func kv(pairs ...string) *theme.KeyValueMap {
	m := theme.NewKeyValueMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Put(pairs[i], pairs[i+1])
	}
	return m
}

func utility(name string, value theme.ConfigValue, tag string, props ...string) *theme.UtilityDefinition {
	return &theme.UtilityDefinition{
		Name:       name,
		Enabled:    true,
		Value:      value,
		Tags:       []theme.TagProperties{{Tag: tag, Properties: props}},
		Extendable: true,
	}
}

func config(core theme.CoreProperties, utilities ...*theme.UtilityDefinition) *theme.ThemeConfig {
	if core.Separator == "" {
		core.Separator = "_"
	}
	return theme.New(core, utilities, theme.CompilationSettings{})
}

func value(t *testing.T, bag *rules.Bag, selector, property string) string {
	t.Helper()
	props, ok := bag.Get(selector)
	require.True(t, ok, "selector %s missing; have %v", selector, bag.Selectors())
	v, ok := props.Get(property)
	require.True(t, ok, "property %s missing on %s", property, selector)
	return v
}

func TestClassNames(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		key      string
		selector string
	}{
		{"default key collapses to tag", "border", theme.DefaultKey, ".border"},
		{"tag and key", "border", "4", ".border-4"},
		{"empty tag uses key", "", "hidden", ".hidden"},
		{"leading dot stripped", "", ".flex", ".flex"},
		{"fractional key escaped", "p", "0.5", `.p-0\.5`},
		{"slash escaped", "w", "1/2", `.w-1\/2`},
		{"leading digit escaped", "", "2xl", `.\32 xl`},
		{"digit after leading dash escaped", "", "-4", `.-\34 `},
		{"double dash escaped", "", "--x", `.-\-x`},
		{"lone dash escaped", "", "-", `.\-`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.selector, Selector(ClassName(tt.tag, tt.key)))
		})
	}
}

func TestGenerateDefaultKeyLaw(t *testing.T) {
	cfg := config(theme.CoreProperties{},
		utility("border-width", kv(theme.DefaultKey, "1px", "4", "4px"), "border", "border-width"),
		utility("display", theme.NewStringList("hidden"), "", "display"),
	)

	res, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{".border", ".border-4", ".hidden"}, res.Bag.Selectors())
	assert.Equal(t, "1px", value(t, res.Bag, ".border", "border-width"))
	assert.Equal(t, "hidden", value(t, res.Bag, ".hidden", "display"))
}

func TestGenerateModifierFormatting(t *testing.T) {
	mods := theme.NewModifierMap()
	mods.Put("hover", theme.GeneratedClassPlaceholder+":hover")
	mods.Put("md", "@media (min-width: 768px) { ."+theme.GeneratedClassPlaceholder+" }")

	u := utility("background-color", kv("red", "#f00"), "bg", "background-color")
	u.Modifiers = []string{"hover", "md", "missing"}

	res, err := Generate(config(theme.CoreProperties{Modifiers: mods}, u))
	require.NoError(t, err)

	assert.Equal(t, []string{
		".bg-red",
		".hover_bg-red:hover",
		"@media (min-width: 768px) { .md_bg-red }",
	}, res.Bag.Selectors())
	assert.Equal(t, "#f00", value(t, res.Bag, ".hover_bg-red:hover", "background-color"))

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], `unknown modifier "missing"`)
}

func TestGeneratePrefix(t *testing.T) {
	mods := theme.NewModifierMap()
	mods.Put("hover", theme.GeneratedClassPlaceholder+":hover")
	u := utility("padding", kv("4", "1rem"), "p", "padding")
	u.Modifiers = []string{"hover"}

	res, err := Generate(config(theme.CoreProperties{Prefix: "tw-", Modifiers: mods}, u))
	require.NoError(t, err)
	assert.Equal(t, []string{".tw-p-4", ".hover_tw-p-4:hover"}, res.Bag.Selectors())
}

func TestGenerateMergeOverrideLaw(t *testing.T) {
	spacing := kv("1", "0.25rem", "4", "1rem")
	u := utility("padding", kv("4", "2rem", "8", "3rem"), "p", "padding")
	u.Extends = []string{"core.spacing", "utilities.margin"}
	margin := utility("margin", kv("4", "9rem", "12", "4rem"), "m", "margin")

	res, err := Generate(config(theme.CoreProperties{Spacing: spacing}, u, margin))
	require.NoError(t, err)

	assert.Equal(t, "2rem", value(t, res.Bag, ".p-4", "padding"), "own value wins over every extension")
	assert.Equal(t, "0.25rem", value(t, res.Bag, ".p-1", "padding"))
	assert.Equal(t, "4rem", value(t, res.Bag, ".p-12", "padding"))
	assert.Equal(t, "3rem", value(t, res.Bag, ".p-8", "padding"))
	assert.Equal(t, []string{".p-1", ".p-4", ".p-12", ".p-8", ".m-4", ".m-12"}, res.Bag.Selectors())
}

func TestGenerateKindMismatchIsFatal(t *testing.T) {
	colors := theme.NewColorPalette()
	colors.Put("red", "500", "#f00")
	u := utility("padding", kv("4", "1rem"), "p", "padding")
	u.Extends = []string{"core.colors"}

	_, err := Generate(config(theme.CoreProperties{Colors: colors}, u))
	require.Error(t, err)
	assert.True(t, errors.Is(err, theme.ErrKindMismatch))

	var uerr *UtilityError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, "padding", uerr.Utility)
	assert.Equal(t, "extends", uerr.Field)
}

func TestGenerateMissingPropertiesIsFatal(t *testing.T) {
	for name, props := range map[string][]string{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			u := utility("shadow", kv("md", "0 1px 2px"), "shadow")
			u.Tags[0].Properties = props

			_, err := Generate(config(theme.CoreProperties{}, u))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingProperties))
		})
	}
}

func TestGenerateSkipsEmptyClassName(t *testing.T) {
	u := utility("display", kv(theme.DefaultKey, "block", "hidden", "none"), "", "display")

	res, err := Generate(config(theme.CoreProperties{}, u))
	require.NoError(t, err)
	assert.Equal(t, []string{".hidden"}, res.Bag.Selectors())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "utility display")
	assert.Contains(t, res.Warnings[0], theme.DefaultKey)
}

func TestGenerateMissingPropertiesLocatesUtility(t *testing.T) {
	u := utility("shadow", kv("md", "0 1px 2px"), "shadow")
	u.Tags[0].Properties = nil

	_, err := Generate(config(theme.CoreProperties{}, u))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingProperties))
	assert.Contains(t, err.Error(), `utility "shadow"`)
	assert.Contains(t, err.Error(), `tag "shadow"`)
}

func TestGenerateUnresolvedExtendWarns(t *testing.T) {
	u := utility("padding", kv("4", "1rem"), "p", "padding")
	u.Extends = []string{"utilities.nope"}

	res, err := Generate(config(theme.CoreProperties{}, u))
	require.NoError(t, err)
	assert.Equal(t, []string{".p-4"}, res.Bag.Selectors())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "utilities.nope")
}

func TestGenerateEmptyTagLogs(t *testing.T) {
	var logged []string
	g := New()
	g.Logf = func(format string, args ...any) { logged = append(logged, format) }

	res, err := g.Generate(config(theme.CoreProperties{}, utility("display", theme.NewStringList("flex"), "", "display")))
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Len(t, logged, 1)
}

func TestGenerateAuxProperties(t *testing.T) {
	m := theme.NewKeyValueMap()
	aux := rules.NewProperties()
	aux.Set("line-height", "1.25rem")
	aux.Set("letter-spacing", "")
	m.Set("sm", theme.Entry{Value: "0.875rem", Aux: aux})
	m.Set("empty", theme.Entry{})

	res, err := Generate(config(theme.CoreProperties{}, utility("font-size", m, "text", "font-size")))
	require.NoError(t, err)

	require.Equal(t, []string{".text-sm"}, res.Bag.Selectors(), "items with no properties are dropped")
	props, _ := res.Bag.Get(".text-sm")
	assert.Equal(t, []string{"font-size", "line-height"}, props.Names())
}

func TestGenerateLaterUtilityOverwrites(t *testing.T) {
	first := utility("display", theme.NewStringList("hidden"), "", "display")
	second := utility("visibility", kv("hidden", "hidden"), "", "visibility")

	res, err := Generate(config(theme.CoreProperties{}, first, second))
	require.NoError(t, err)

	require.Equal(t, []string{".hidden"}, res.Bag.Selectors())
	props, _ := res.Bag.Get(".hidden")
	assert.Equal(t, []string{"visibility"}, props.Names(), "last writer wins")
}

func TestOrder(t *testing.T) {
	mk := func(name string, p theme.Placement, prio int, enabled bool) *theme.UtilityDefinition {
		return &theme.UtilityDefinition{Name: name, Placement: p, Priority: prio, Enabled: enabled}
	}
	utilities := []*theme.UtilityDefinition{
		mk("a", theme.PlacementDefault, 0, true),
		mk("late", theme.PlacementAfter, 5, true),
		mk("first", theme.PlacementBefore, 1, true),
		mk("off", theme.PlacementDefault, 0, false),
		mk("b", theme.PlacementDefault, 0, true),
		mk("earliest", theme.PlacementBefore, 0, true),
		mk("later", theme.PlacementAfter, 1, true),
		mk("first-tie", theme.PlacementBefore, 1, true),
	}

	var names []string
	for _, u := range Order(utilities) {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"earliest", "first", "first-tie", "a", "b", "later", "late"}, names)
}

func TestGenerateIdempotent(t *testing.T) {
	cfg := theme.Default()

	first, err := Generate(cfg)
	require.NoError(t, err)
	second, err := Generate(cfg)
	require.NoError(t, err)

	assert.True(t, first.Bag.Equal(second.Bag))
	assert.Equal(t, first.Bag.Selectors(), second.Bag.Selectors())
	assert.Positive(t, first.Bag.Len())
}

func TestGenerateDefaultTheme(t *testing.T) {
	res, err := Generate(theme.Default())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	sel := res.Bag.Selectors()
	assert.Equal(t, ".container", sel[0], "before bucket comes first")
	assert.Equal(t, "#ef4444", value(t, res.Bag, ".bg-red-500", "background-color"))
	assert.Equal(t, "#ffffff", value(t, res.Bag, ".bg-white", "background-color"))
	assert.Equal(t, "#ef4444", value(t, res.Bag, ".hover_bg-red-500:hover", "background-color"))
	assert.Equal(t, "1rem", value(t, res.Bag, ".px-4", "padding-left"))
	assert.Equal(t, "1rem", value(t, res.Bag, ".px-4", "padding-right"))
	assert.Equal(t, "1px", value(t, res.Bag, ".border", "border-width"))
	assert.Equal(t, "flex", value(t, res.Bag, ".flex", "display"))
	assert.Equal(t, "1.25rem", value(t, res.Bag, ".text-sm", "line-height"))
	assert.Equal(t, "10", value(t, res.Bag, ".z-10", "z-index"))
}

type fakePlugin struct {
	before, after *rules.Bag
	seen          *rules.Bag
}

func (p *fakePlugin) Name() string { return "fake" }

func (p *fakePlugin) BeforeUtilities(*theme.ThemeConfig) (*rules.Bag, error) { return p.before, nil }

func (p *fakePlugin) AfterUtilities(*theme.ThemeConfig) (*rules.Bag, error) { return p.after, nil }

func (p *fakePlugin) Extractor(*theme.ThemeConfig) extract.Extractor {
	return extract.Func(func(string) extract.Set { return extract.Set{"from-plugin": {}} })
}

func (p *fakePlugin) OnFinalBag(bag *rules.Bag) { p.seen = bag }

func TestPluginContributions(t *testing.T) {
	before := rules.NewBag()
	before.Set(".reset", props("margin", "0"))
	before.Set(".p-4", props("padding", "0"))
	after := rules.NewBag()
	after.Set(".sr-only", props("position", "absolute"))

	plugin := &fakePlugin{before: before, after: after}
	g := New(plugin)

	res, err := g.Generate(config(theme.CoreProperties{}, utility("padding", kv("4", "1rem"), "p", "padding")))
	require.NoError(t, err)

	assert.Equal(t, []string{".reset", ".p-4", ".sr-only"}, res.Bag.Selectors())
	assert.Equal(t, "1rem", value(t, res.Bag, ".p-4", "padding"), "utility overwrites contributed rule")

	extractors := Extractors(nil, []Plugin{plugin})
	require.Len(t, extractors, 1)
	assert.Contains(t, extractors[0].Extract(""), "from-plugin")

	NotifyFinalBag(res.Bag, []Plugin{plugin})
	assert.Same(t, res.Bag, plugin.seen)
}

type failingPlugin struct{}

func (failingPlugin) Name() string { return "broken" }

func (failingPlugin) BeforeUtilities(*theme.ThemeConfig) (*rules.Bag, error) {
	return nil, errors.New("boom")
}

func (failingPlugin) AfterUtilities(*theme.ThemeConfig) (*rules.Bag, error) { return nil, nil }

func TestPluginErrorIsFatal(t *testing.T) {
	_, err := New(failingPlugin{}).Generate(config(theme.CoreProperties{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plugin broken: boom")
}

func props(pairs ...string) *rules.Properties {
	p := rules.NewProperties()
	for i := 0; i+1 < len(pairs); i += 2 {
		p.Set(pairs[i], pairs[i+1])
	}
	return p
}
