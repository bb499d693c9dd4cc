package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/atomcss"
	"github.com/yacobolo/atomcss/internal/extract"
	"github.com/yacobolo/atomcss/internal/report"
	"github.com/yacobolo/atomcss/internal/stylesheet"
	"github.com/yacobolo/atomcss/internal/theme"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".atomcss.yaml")
	configContent := `
theme: design/theme.toml
verbose: true

build:
  root: site
  output: public/app.css
  format: compact
  concurrency: 8
  no-purge: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	assert.Equal(t, "design/theme.toml", k.String("theme"))
	assert.True(t, k.Bool("verbose"))
	assert.Equal(t, "site", k.String("build.root"))
	assert.Equal(t, "public/app.css", k.String("build.output"))
	assert.Equal(t, 8, k.Int("build.concurrency"))
	assert.True(t, k.Bool("build.no-purge"))
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()
	chdir(t, t.TempDir())

	// Point to non-existent config, should not error
	require.NoError(t, loadConfigFromPath("/nonexistent/.atomcss.yaml"))

	config := buildBuildConfig()
	assert.Empty(t, config.ThemePath)
	assert.Empty(t, config.Root)
	assert.Empty(t, config.Output)
	assert.Equal(t, stylesheet.FormatExpanded, config.Format)
	assert.Equal(t, 0, config.Concurrency)
	assert.False(t, config.NoPurge)
	assert.False(t, config.DryRun)
}

func TestThemePathFallsBackToThemeToml(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()
	chdir(t, dir)

	assert.Empty(t, themePath())
	require.NoError(t, os.WriteFile(defaultThemeFile, []byte(""), 0644))
	assert.Equal(t, defaultThemeFile, themePath())

	k.Set("theme", "other.toml")
	assert.Equal(t, "other.toml", themePath())
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".atomcss.yaml")
	configContent := `
build:
  output: from-file.css
  format: expanded
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	// Set env vars that should override config file
	t.Setenv("ATOMCSS_BUILD_OUTPUT", "from-env.css")
	t.Setenv("ATOMCSS_BUILD_FORMAT", "compact")

	require.NoError(t, loadConfigFromPath(configPath))

	config := buildBuildConfig()
	assert.Equal(t, "from-env.css", config.Output)
	assert.Equal(t, stylesheet.FormatCompact, config.Format)
}

func TestBuildBuildConfig_FromConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".atomcss.yaml")
	configContent := `
build:
  content:
    - "src/**/*.html"
  safelist:
    - "/^bg-/"
  blocklist:
    - "hidden"
  custom-css: styles/base.css
  preserve-regions: true
  dry-run: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	config := buildBuildConfig()
	assert.Equal(t, []string{"src/**/*.html"}, config.Content)
	assert.Equal(t, []string{"/^bg-/"}, config.Safelist)
	assert.Equal(t, []string{"hidden"}, config.Blocklist)
	assert.Equal(t, "styles/base.css", config.CustomCSSPath)
	assert.True(t, config.PreserveRegions)
	assert.True(t, config.DryRun)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".atomcss.yaml")
	configContent := `
build:
  output: from-file.css
  no-purge: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	addBuildFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--config", configPath, "--output", "from-flag.css"}))
	require.NoError(t, loadConfig(cmd))

	config := buildBuildConfig()
	assert.Equal(t, "from-flag.css", config.Output)
	assert.True(t, config.NoPurge, "unset flag defaults must not shadow the config file")
}

func TestLoadThemeConfig(t *testing.T) {
	resetKoanf()

	cfg, err := loadThemeConfig(buildBuildConfig())
	require.NoError(t, err)
	assert.Equal(t, theme.Default().Compilation.Content, cfg.Compilation.Content)

	k.Set("root", "site")
	k.Set("content", []string{"**/*.vue"})
	cfg, err = loadThemeConfig(buildBuildConfig())
	require.NoError(t, err)
	assert.Equal(t, "site", cfg.Compilation.Root)
	assert.Equal(t, []string{"**/*.vue"}, cfg.Compilation.Content)

	k.Set("theme", filepath.Join(t.TempDir(), "missing.toml"))
	_, err = loadThemeConfig(buildBuildConfig())
	require.Error(t, err)
}

func TestBuildCommand(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("index.html", []byte(`<p class="p-4 sm_m-2">`), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"build", "--root", dir, "--output", "out.css", "--quiet"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile("out.css")
	require.NoError(t, err)
	assert.Contains(t, string(data), ".p-4 {")
	assert.Contains(t, string(data), "  .sm_m-2 {")
	assert.NotContains(t, string(data), ".p-8")
}

func TestInitCommand_CreatesFiles(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".atomcss.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme: theme.toml")
	assert.Contains(t, string(data), "build:")

	cfg, err := theme.Load("theme.toml")
	require.NoError(t, err)
	assert.Equal(t, len(theme.Default().Utilities), len(cfg.Utilities))
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	chdir(t, t.TempDir())

	// Create existing file
	require.NoError(t, os.WriteFile(".atomcss.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	chdir(t, t.TempDir())

	// Create existing file
	require.NoError(t, os.WriteFile(".atomcss.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init", "--force"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".atomcss.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "build:")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := rootCmd
	cmd.SetOut(&buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "atomcss dev\n", buf.String())
}

func TestPaletteCommand(t *testing.T) {
	resetKoanf()
	chdir(t, t.TempDir())

	var buf bytes.Buffer
	cmd := rootCmd
	cmd.SetOut(&buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	cmd.SetArgs([]string{"palette"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "red")
	assert.Contains(t, buf.String(), "500")
}

func TestPrintTokens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.html")
	require.NoError(t, os.WriteFile(path, []byte(`<div class="p-4 bg-red-500">`), 0644))

	var buf bytes.Buffer
	require.NoError(t, printTokens(&buf, extract.New("", "_", extract.Filters{}), []string{path}))
	assert.Contains(t, buf.String(), "  p-4\n")
	assert.Contains(t, buf.String(), "  bg-red-500\n")

	err := printTokens(&buf, extract.New("", "_", extract.Filters{}), []string{filepath.Join(dir, "missing.html")})
	require.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestReportBuilds(t *testing.T) {
	var errOut bytes.Buffer
	onBuild := reportBuilds(failingWriter{}, &errOut, report.OutputJSON, false)

	onBuild(&atomcss.BuildResult{RulesKept: 1}, nil)
	assert.Equal(t, "Error: write report: disk full\n", errOut.String())

	errOut.Reset()
	onBuild(nil, atomcss.ErrRootNotFound)
	assert.Contains(t, errOut.String(), "build failed: "+atomcss.ErrRootNotFound.Error())

	var out bytes.Buffer
	errOut.Reset()
	reportBuilds(&out, &errOut, report.OutputSummary, false)(&atomcss.BuildResult{RulesKept: 2}, nil)
	assert.Contains(t, out.String(), "2 rules")
	assert.Empty(t, errOut.String())
}

func TestGetStringWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set, should return default
	assert.Equal(t, "default", getStringWithFallback("flag-key", "config.key", "default"))

	k.Set("config.key", "from-config")
	assert.Equal(t, "from-config", getStringWithFallback("flag-key", "config.key", "default"))

	k.Set("flag-key", "from-flag")
	assert.Equal(t, "from-flag", getStringWithFallback("flag-key", "config.key", "default"))
}

func TestGetBoolWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set, should return default
	assert.False(t, getBoolWithFallback("flag-key", "config.key", false))
	assert.True(t, getBoolWithFallback("flag-key", "config.key", true))
}

func TestGetIntWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set, should return default
	assert.Equal(t, 42, getIntWithFallback("flag-key", "config.key", 42))
}
