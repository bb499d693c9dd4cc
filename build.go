package atomcss

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yacobolo/atomcss/internal/extract"
	"github.com/yacobolo/atomcss/internal/generator"
	"github.com/yacobolo/atomcss/internal/purge"
	"github.com/yacobolo/atomcss/internal/stylesheet"
	"github.com/yacobolo/atomcss/internal/theme"
)

// Sentinel errors surfaced by Build.
var (
	ErrKindMismatch         = theme.ErrKindMismatch
	ErrMissingProperties    = generator.ErrMissingProperties
	ErrAmbiguousPlaceholder = stylesheet.ErrAmbiguousPlaceholder
	ErrRootNotFound         = purge.ErrRootNotFound
	ErrScanCancelled        = purge.ErrScanCancelled
)

// UtilityError locates a fatal configuration error.
type UtilityError = generator.UtilityError

// BuildConfig holds the settings of one build.
type BuildConfig struct {
	ThemePath string             // theme.toml; empty uses the built-in theme
	Theme     *theme.ThemeConfig // used instead of ThemePath when set

	// Overrides for the theme's compilation settings. Empty keeps the theme value.
	Root      string
	Output    string
	Content   []string
	Safelist  []string
	Blocklist []string

	CustomCSSPath   string // hand-written stylesheet; replaces the theme's custom CSS
	PreserveRegions bool   // ignore placeholders inside atomcss-ignore regions
	NoPurge         bool
	Format          stylesheet.Format
	Concurrency     int // purge workers; 0 or 1 scans sequentially
	DryRun          bool

	Plugins  []Plugin
	Progress purge.ProgressFunc
	Verbose  bool
}

// BuildResult contains build statistics.
type BuildResult struct {
	Utilities      int // enabled utilities processed
	RulesGenerated int
	RulesKept      int
	FilesScanned   int
	TokensUsed     int
	Purged         bool
	Output         string // written path, empty on dry runs
	CSS            string
	Stats          []generator.UtilityStats
	Warnings       []string
	Duration       time.Duration
}

// Build runs the full pipeline with a background context.
func Build(config BuildConfig) (*BuildResult, error) {
	return BuildContext(context.Background(), config)
}

// BuildContext loads the theme, generates rules, purges unused ones, renders
// the stylesheet, merges it with the custom stylesheet and writes the output.
// A cancelled purge scan fails the build; a partial token set is never applied.
func BuildContext(ctx context.Context, config BuildConfig) (*BuildResult, error) {
	start := time.Now()
	result := &BuildResult{}

	// 1. Load theme
	cfg, err := loadTheme(config)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, cfg.ValidateColors()...)

	// 2. Generate rules
	gen := generator.New(config.Plugins...)
	if config.Verbose {
		gen.Logf = func(format string, args ...any) {
			fmt.Printf(format+"\n", args...)
		}
	}
	generated, err := gen.Generate(cfg)
	if err != nil {
		return nil, fmt.Errorf("generate failed: %w", err)
	}
	result.Utilities = generated.Utilities
	result.RulesGenerated = generated.Bag.Len()
	result.Stats = generated.Stats
	result.Warnings = append(result.Warnings, generated.Warnings...)

	if config.Verbose {
		fmt.Printf("Generated %d rules from %d utilities\n", result.RulesGenerated, result.Utilities)
	}

	// 3. Purge
	bag := generated.Bag
	if cfg.Compilation.Purge && !config.NoPurge {
		extractors := append([]extract.Extractor{extract.FromConfig(cfg, false)}, generator.Extractors(cfg, config.Plugins)...)
		scan, err := purge.UsedTokens(ctx, purge.Options{
			Root:         cfg.Compilation.Root,
			Content:      cfg.Compilation.Content,
			ExcludedDirs: cfg.Compilation.ExcludedDirs,
			Extractors:   extractors,
			Safelist:     cfg.Compilation.Safelist,
			Blocklist:    cfg.Compilation.Blocklist,
			Concurrency:  config.Concurrency,
			Progress:     config.Progress,
			Verbose:      config.Verbose,
		})
		if err != nil {
			return nil, fmt.Errorf("purge failed: %w", err)
		}
		bag = purge.Filter(bag, scan.Used)
		result.Purged = true
		result.FilesScanned = len(scan.Files)
		result.TokensUsed = len(scan.Used)
		result.Warnings = append(result.Warnings, scan.Warnings...)

		if config.Verbose {
			fmt.Printf("Kept %d of %d rules (%d tokens in %d files)\n",
				bag.Len(), result.RulesGenerated, result.TokensUsed, result.FilesScanned)
		}
	}
	result.RulesKept = bag.Len()
	generator.NotifyFinalBag(bag, config.Plugins)

	// 4. Render and merge
	css, err := renderStylesheet(cfg, config, stylesheet.Render(bag, config.Format))
	if err != nil {
		return nil, err
	}
	result.CSS = css

	// 5. Write
	if !config.DryRun && cfg.Compilation.Output != "" {
		if err := writeOutput(cfg.Compilation.Output, css); err != nil {
			return nil, fmt.Errorf("write failed: %w", err)
		}
		result.Output = cfg.Compilation.Output
	}

	result.Duration = time.Since(start)
	return result, nil
}

func loadTheme(config BuildConfig) (*theme.ThemeConfig, error) {
	var cfg *theme.ThemeConfig
	switch {
	case config.Theme != nil:
		t := config.Theme
		cfg = theme.New(t.Core, t.Utilities, t.Compilation)
	case config.ThemePath != "":
		loaded, err := theme.Load(config.ThemePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		cfg = theme.Default()
	}

	c := &cfg.Compilation
	if config.Root != "" {
		c.Root = config.Root
	}
	if config.Output != "" {
		c.Output = config.Output
	}
	if len(config.Content) > 0 {
		c.Content = config.Content
	}
	if len(config.Safelist) > 0 {
		c.Safelist = config.Safelist
	}
	if len(config.Blocklist) > 0 {
		c.Blocklist = config.Blocklist
	}
	if c.ExcludedDirs == nil {
		c.ExcludedDirs = theme.DefaultExcludedDirs()
	}
	return cfg, nil
}

func renderStylesheet(cfg *theme.ThemeConfig, config BuildConfig, generated string) (string, error) {
	custom := cfg.Core.CustomCSS
	if config.CustomCSSPath != "" {
		// #nosec G304 - path comes from trusted configuration
		data, err := os.ReadFile(config.CustomCSSPath)
		if err != nil {
			return "", fmt.Errorf("read custom stylesheet: %w", err)
		}
		custom = string(data)
	}

	merge := stylesheet.MergeWithCustom
	if config.PreserveRegions {
		merge = stylesheet.MergePreservingRegions
	}
	css, err := merge(custom, generated, stylesheet.Placeholder)
	if err != nil {
		return "", fmt.Errorf("merge custom stylesheet: %w", err)
	}
	return css, nil
}

func writeOutput(path, css string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(css), 0o644)
}

// IsCancelled reports whether err comes from a cancelled purge scan.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrScanCancelled)
}
