package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/atomcss/internal/theme"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .atomcss.yaml and theme.toml",
	Long: `Create a .atomcss.yaml configuration file and a theme.toml holding the
built-in theme in the current directory.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		for _, path := range []string{defaultConfigFile, defaultThemeFile} {
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}

		if err := os.WriteFile(defaultConfigFile, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
		if err := theme.Save(defaultThemeFile, theme.Default()); err != nil {
			return fmt.Errorf("writing theme file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s and %s\n", defaultConfigFile, defaultThemeFile)
		return nil
	},
}

const defaultConfig = `# atomcss configuration

# Shared settings
theme: theme.toml
verbose: false

# Build settings (override the [compilation] table of the theme)
build:
  root: .
  output: dist/atomcss.css
  content:
    - "**/*.html"
    - "**/*.templ"
  format: expanded         # expanded | compact
  concurrency: 4           # 0 or 1 = sequential
  preserve-regions: false
  no-purge: false
  output-format: summary   # summary | full | json | quiet
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing files")
}
