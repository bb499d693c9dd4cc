package main

import (
	"github.com/spf13/cobra"

	"github.com/yacobolo/atomcss/internal/report"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Preview the theme's color palette",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadThemeConfig(buildBuildConfig())
		if err != nil {
			return err
		}
		useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
		report.PrintPalette(cmd.OutOrStdout(), cfg.Core.Colors, useColors)
		return nil
	},
}
