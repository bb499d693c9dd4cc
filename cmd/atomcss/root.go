package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "atomcss",
	Short: "Utility-first CSS generator and purger",
	Long: `Compile a design-token theme into atomic utility classes.
Every utility expands into rules like .bg-red-500 { background-color: #ef4444; }
and rules your content never references are purged before writing.`,
	// Default behavior: run build when no subcommand is given.
	// We must call loadConfig here because PreRunE of buildCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", ".atomcss.yaml", "Config file path")
	rootCmd.PersistentFlags().StringP("theme", "t", "", "Theme file (default: theme.toml when present, else built-in)")
	rootCmd.PersistentFlags().String("root", "", "Content root directory")

	addBuildFlags(rootCmd)

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
