// Package atomcss compiles a design-token theme into an atomic, utility-first
// stylesheet and purges the rules a project never references.
//
// # Building
//
// Generate, purge and write a stylesheet:
//
//	result, err := atomcss.Build(atomcss.BuildConfig{
//		ThemePath: "theme.toml",
//		Root:      ".",
//		Output:    "dist/atomcss.css",
//	})
//
// Every enabled utility of the theme expands into rules such as
// ".bg-red-500 { background-color: #ef4444; }". Content files matching the
// theme's compilation patterns are scanned for class tokens, and rules whose
// selector is not used are dropped before the stylesheet is written.
//
// # Watching
//
// Rebuild whenever content, the theme or the custom stylesheet changes:
//
//	err := atomcss.Watch(ctx, config, func(r *atomcss.BuildResult, err error) {
//		// report r or err
//	})
//
// # CLI Tool
//
// atomcss also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/atomcss/cmd/atomcss@latest
package atomcss

import (
	"github.com/yacobolo/atomcss/internal/extract"
	"github.com/yacobolo/atomcss/internal/generator"
	"github.com/yacobolo/atomcss/internal/rules"
	"github.com/yacobolo/atomcss/internal/theme"
)

// Re-exported types for plugin authors and embedders.
type (
	Plugin            = generator.Plugin
	RuleContributor   = generator.RuleContributor
	BagObserver       = generator.BagObserver
	ExtractorProvider = generator.ExtractorProvider
	Extractor         = extract.Extractor
	TokenSet          = extract.Set
	RuleBag           = rules.Bag
	ThemeConfig       = theme.ThemeConfig
)
