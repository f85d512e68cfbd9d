package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/svgzpd/internal/config"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings",
	Long: `Prints the defaults merged with --config, in a form that can be saved and
edited as a settings file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := config.ParseFormat(configFormat)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return config.Encode(cmd.OutOrStdout(), cfg.Resolved(), format)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVarP(&configFormat, "format", "f", "toml", "output format: toml or yaml")
}
