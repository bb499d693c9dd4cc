package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/atomcss"
	"github.com/yacobolo/atomcss/internal/stylesheet"
	"github.com/yacobolo/atomcss/internal/theme"
)

const (
	defaultConfigFile = ".atomcss.yaml"
	defaultThemeFile  = "theme.toml"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigFile
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set)
	flags := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (ATOMCSS_* prefix)
	if err := k.Load(env.Provider("ATOMCSS_", ".", func(s string) string {
		// ATOMCSS_BUILD_OUTPUT -> build.output
		// ATOMCSS_VERBOSE -> verbose
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "ATOMCSS_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildBuildConfig constructs the library's BuildConfig from koanf state.
func buildBuildConfig() atomcss.BuildConfig {
	return atomcss.BuildConfig{
		ThemePath:       themePath(),
		Root:            getStringWithFallback("root", "build.root", ""),
		Output:          getStringWithFallback("output", "build.output", ""),
		Content:         getStringsWithFallback("content", "build.content"),
		Safelist:        getStringsWithFallback("safelist", "build.safelist"),
		Blocklist:       getStringsWithFallback("blocklist", "build.blocklist"),
		CustomCSSPath:   getStringWithFallback("custom-css", "build.custom-css", ""),
		PreserveRegions: getBoolWithFallback("preserve-regions", "build.preserve-regions", false),
		NoPurge:         getBoolWithFallback("no-purge", "build.no-purge", false),
		Format:          stylesheet.ParseFormat(getStringWithFallback("format", "build.format", string(stylesheet.FormatExpanded))),
		Concurrency:     getIntWithFallback("concurrency", "build.concurrency", 0),
		DryRun:          getBoolWithFallback("dry-run", "build.dry-run", false),
		Verbose:         getBoolWithFallback("verbose", "verbose", false),
	}
}

// themePath returns the configured theme file, falling back to theme.toml
// in the working directory when it exists.
func themePath() string {
	if p := getStringWithFallback("theme", "theme", ""); p != "" {
		return p
	}
	if _, err := os.Stat(defaultThemeFile); err == nil {
		return defaultThemeFile
	}
	return ""
}

// loadThemeConfig loads the theme the way Build does, for commands that work
// on the theme without building.
func loadThemeConfig(config atomcss.BuildConfig) (*theme.ThemeConfig, error) {
	cfg := theme.Default()
	if config.ThemePath != "" {
		loaded, err := theme.Load(config.ThemePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if config.Root != "" {
		cfg.Compilation.Root = config.Root
	}
	if len(config.Content) > 0 {
		cfg.Compilation.Content = config.Content
	}
	if len(config.Safelist) > 0 {
		cfg.Compilation.Safelist = config.Safelist
	}
	if len(config.Blocklist) > 0 {
		cfg.Compilation.Blocklist = config.Blocklist
	}
	return cfg, nil
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key.
func getStringsWithFallback(flagKey, configKey string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	return k.Strings(configKey)
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}
