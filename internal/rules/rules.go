// Package rules holds the ordered containers produced by rule generation.
//
// Both containers keep insertion order and overwrite in place: setting an
// existing key replaces its value but keeps its original position. Later
// utilities rely on this to refine rules emitted by earlier ones.
package rules

// Properties is an insertion-ordered property-name -> value map.
type Properties struct {
	keys   []string
	values map[string]string
}

// NewProperties returns an empty property map.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]string)}
}

// Set assigns value to name, keeping the position of an existing name.
func (p *Properties) Set(name, value string) {
	if _, exists := p.values[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.values[name] = value
}

// Get returns the value stored for name.
func (p *Properties) Get(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[name]
	return v, ok
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Names returns property names in insertion order.
func (p *Properties) Names() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Each calls fn for every property in insertion order.
func (p *Properties) Each(fn func(name, value string)) {
	if p == nil {
		return
	}
	for _, k := range p.keys {
		fn(k, p.values[k])
	}
}

// Clone returns an independent copy.
func (p *Properties) Clone() *Properties {
	c := NewProperties()
	p.Each(c.Set)
	return c
}

// Equal reports whether both maps hold the same pairs in the same order.
func (p *Properties) Equal(o *Properties) bool {
	if p.Len() != o.Len() {
		return false
	}
	for i, k := range p.keys {
		if o.keys[i] != k || o.values[k] != p.values[k] {
			return false
		}
	}
	return true
}

// Rule is a single selector with its declarations.
type Rule struct {
	Selector   string
	Properties *Properties
}

// Bag is the insertion-ordered selector -> properties collection.
// Duplicate selectors overwrite: last writer wins, first position kept.
type Bag struct {
	selectors []string
	rules     map[string]*Properties
}

// NewBag returns an empty rule bag.
func NewBag() *Bag {
	return &Bag{rules: make(map[string]*Properties)}
}

// Set stores props under selector, overwriting any previous rule.
func (b *Bag) Set(selector string, props *Properties) {
	if _, exists := b.rules[selector]; !exists {
		b.selectors = append(b.selectors, selector)
	}
	b.rules[selector] = props
}

// Get returns the properties stored for selector.
func (b *Bag) Get(selector string) (*Properties, bool) {
	p, ok := b.rules[selector]
	return p, ok
}

// Has reports whether selector is present.
func (b *Bag) Has(selector string) bool {
	_, ok := b.rules[selector]
	return ok
}

// Len returns the number of rules.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.selectors)
}

// Selectors returns selectors in insertion order.
func (b *Bag) Selectors() []string {
	out := make([]string, len(b.selectors))
	copy(out, b.selectors)
	return out
}

// Rules returns all rules in insertion order.
func (b *Bag) Rules() []Rule {
	out := make([]Rule, 0, len(b.selectors))
	for _, s := range b.selectors {
		out = append(out, Rule{Selector: s, Properties: b.rules[s]})
	}
	return out
}

// Merge copies every rule of other into b using Set semantics.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, s := range other.selectors {
		b.Set(s, other.rules[s])
	}
}

// Filter returns a new bag holding the rules for which keep returns true,
// in the original order.
func (b *Bag) Filter(keep func(selector string) bool) *Bag {
	out := NewBag()
	for _, s := range b.selectors {
		if keep(s) {
			out.Set(s, b.rules[s])
		}
	}
	return out
}

// Equal reports whether both bags hold the same rules in the same order.
func (b *Bag) Equal(o *Bag) bool {
	if b.Len() != o.Len() {
		return false
	}
	for i, s := range b.selectors {
		if o.selectors[i] != s || !b.rules[s].Equal(o.rules[s]) {
			return false
		}
	}
	return true
}
