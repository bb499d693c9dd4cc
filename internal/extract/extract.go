// Package extract pulls class-like tokens out of arbitrary source text.
//
// Extraction errs on the side of over-matching: a token that is not really a
// class only keeps an unused rule alive, while a missed token drops a rule
// that is in use.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yacobolo/atomcss/internal/theme"
)

// Set is an unordered token set.
type Set map[string]struct{}

// NewSet returns a set holding tokens.
func NewSet(tokens ...string) Set {
	s := make(Set, len(tokens))
	s.Add(tokens...)
	return s
}

// Add inserts tokens, ignoring empty strings.
func (s Set) Add(tokens ...string) {
	for _, t := range tokens {
		if t != "" {
			s[t] = struct{}{}
		}
	}
}

// Has reports whether token is in the set.
func (s Set) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Merge adds every token of other.
func (s Set) Merge(other Set) {
	for t := range other {
		s[t] = struct{}{}
	}
}

// Sorted returns the tokens in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Extractor finds candidate class tokens in text.
type Extractor interface {
	Extract(text string) Set
}

// Func adapts a plain function to Extractor.
type Func func(text string) Set

// Extract calls f(text).
func (f Func) Extract(text string) Set { return f(text) }

// Filters narrow accepted tokens. When any list is non-empty, a token is
// kept only if it contains at least one listed tag, key or modifier.
type Filters struct {
	Tags      []string
	Keys      []string
	Modifiers []string
}

func (f Filters) empty() bool {
	return len(f.Tags) == 0 && len(f.Keys) == 0 && len(f.Modifiers) == 0
}

func (f Filters) accept(token string) bool {
	for _, list := range [][]string{f.Tags, f.Keys, f.Modifiers} {
		for _, s := range list {
			if s != "" && strings.Contains(token, s) {
				return true
			}
		}
	}
	return false
}

// pattern is one extraction pass.
type pattern struct {
	name  string
	regex *regexp.Regexp
}

const (
	// segment is one hyphen-separated word: "red", "500", "0.5", "1/2".
	segment = `[a-zA-Z0-9]+(?:\.[0-9]+)?(?:/[0-9]+)?`
	// delimiters never appear inside a token.
	delimiters = "\\s\"'`<>={};,"
)

var (
	arbitraryProperty       = regexp.MustCompile(`\[[a-zA-Z-]+:[^\s\]]+\]`)
	arbitraryPropertyNested = regexp.MustCompile(`\[[a-zA-Z-]+:(?:[^\s\[\]]|\[[^\s\[\]]*\])+\]`)
	fallbackRun             = regexp.MustCompile(`[^` + delimiters + `]+`)
)

// Default is the standard multi-pass extractor.
type Default struct {
	Prefix    string
	Separator string
	Filters   Filters

	patterns []pattern
}

// New returns the default extractor for a class prefix and modifier separator.
func New(prefix, separator string, filters Filters) *Default {
	return &Default{
		Prefix:    prefix,
		Separator: separator,
		Filters:   filters,
		patterns: []pattern{
			{name: "arbitrary property", regex: arbitraryProperty},
			{name: "nested arbitrary property", regex: arbitraryPropertyNested},
			{name: "utility token", regex: utilityPattern(prefix, separator)},
			{name: "fallback run", regex: fallbackRun},
		},
	}
}

// FromConfig returns an extractor for cfg. When filtered is set, tokens are
// narrowed to the tags, keys and modifiers cfg declares.
func FromConfig(cfg *theme.ThemeConfig, filtered bool) *Default {
	var filters Filters
	if filtered {
		filters = Filters{
			Tags:      cfg.KnownTags(),
			Keys:      knownKeys(cfg),
			Modifiers: cfg.ModifierNames(),
		}
	}
	return New(cfg.Core.Prefix, cfg.Core.Separator, filters)
}

func utilityPattern(prefix, separator string) *regexp.Regexp {
	word := segment + `(?:-` + segment + `)*`
	expr := `-?` + word + `(?:-\[[^` + delimiters + `]+\])?`
	if prefix != "" {
		expr = `(?:` + regexp.QuoteMeta(prefix) + `)?` + expr
	}
	if separator != "" {
		expr = `(?:` + word + regexp.QuoteMeta(separator) + `)*` + expr
	}
	return regexp.MustCompile(expr)
}

// Extract runs every pass over text and returns the union of the balanced,
// accepted candidates.
func (d *Default) Extract(text string) Set {
	out := make(Set)
	for _, p := range d.patterns {
		for _, m := range p.regex.FindAllString(text, -1) {
			token := Balance(m)
			if token == "" {
				continue
			}
			if !d.Filters.empty() && !d.Filters.accept(token) {
				continue
			}
			out[token] = struct{}{}
		}
	}
	return out
}

// Balance truncates s at the first "]" that has no matching "[".
func Balance(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return s[:i]
			}
			depth--
		}
	}
	return s
}

func knownKeys(cfg *theme.ThemeConfig) []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(v theme.ConfigValue) {
		if v == nil {
			return
		}
		for _, it := range v.Items() {
			if it.Key != theme.DefaultKey && !seen[it.Key] {
				seen[it.Key] = true
				keys = append(keys, it.Key)
			}
		}
	}
	for _, path := range cfg.Paths() {
		if strings.HasPrefix(path, "core.") && path != "core.modifiers" {
			v, _ := cfg.Resolve(path)
			add(v)
		}
	}
	for _, u := range cfg.Utilities {
		if u.Enabled {
			add(u.Value)
		}
	}
	return keys
}
