package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/svgzpd/internal/config"
	"github.com/OpenTraceLab/svgzpd/pkg/zpd"
)

var (
	// Global flags
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "zpd",
	Short: "svgzpd - zoom, pan and drag for SVG drawings",
	Long: `zpd drives the svgzpd zoom/pan/drag controller from the command line:
  - preview a drawing with mouse and keyboard gestures
  - replay recorded gesture traces and check the resulting transforms
  - wrap drawings in a transformable content group
  - compose, invert and zoom SVG transform matrices

Examples:
  zpd view drawing.svg                          # Interactive preview
  zpd replay gestures.sexp --svg drawing.svg    # Replay a gesture trace
  zpd wrap drawing.svg --matrix "scale(2)"      # Wrap and transform content
  zpd matrix invert "matrix(2,0,0,2,10,10)"     # Matrix utilities`,
	Version:      "0.1.0",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "settings file (.toml, .yaml or .yml)")
}

// setupLogging routes controller logs to w: warnings by default, everything
// with --verbose.
func setupLogging(w io.Writer) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	zpd.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadConfig reads --config, or returns an empty config when it is unset.
func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return &config.Config{}, nil
	}
	c, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return c, nil
}
