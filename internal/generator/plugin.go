package generator

import (
	"github.com/yacobolo/atomcss/internal/extract"
	"github.com/yacobolo/atomcss/internal/rules"
	"github.com/yacobolo/atomcss/internal/theme"
)

// Plugin is the base contract for build plugins. Plugins are passed in
// explicitly; a plugin takes part in a stage only if it implements that
// stage's interface.
type Plugin interface {
	Name() string
}

// RuleContributor adds rules around default utility generation. Contributed
// rules go through the same bag, so they overwrite and are overwritten by
// utility rules with the same selector.
type RuleContributor interface {
	Plugin
	BeforeUtilities(cfg *theme.ThemeConfig) (*rules.Bag, error)
	AfterUtilities(cfg *theme.ThemeConfig) (*rules.Bag, error)
}

// ExtractorProvider supplies an additional token extractor for purging.
type ExtractorProvider interface {
	Plugin
	Extractor(cfg *theme.ThemeConfig) extract.Extractor
}

// BagObserver is notified with the final rule bag, after purging.
type BagObserver interface {
	Plugin
	OnFinalBag(bag *rules.Bag)
}

// Extractors collects the extractors offered by plugins.
func Extractors(cfg *theme.ThemeConfig, plugins []Plugin) []extract.Extractor {
	var out []extract.Extractor
	for _, p := range plugins {
		if ep, ok := p.(ExtractorProvider); ok {
			if e := ep.Extractor(cfg); e != nil {
				out = append(out, e)
			}
		}
	}
	return out
}

// NotifyFinalBag calls every BagObserver in plugin order.
func NotifyFinalBag(bag *rules.Bag, plugins []Plugin) {
	for _, p := range plugins {
		if obs, ok := p.(BagObserver); ok {
			obs.OnFinalBag(bag)
		}
	}
}
