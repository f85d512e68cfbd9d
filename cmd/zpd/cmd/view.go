package cmd

import (
	"os"

	"gioui.org/app"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/svgzpd/internal/viewer"
	"github.com/OpenTraceLab/svgzpd/pkg/zpd"
)

var viewCmd = &cobra.Command{
	Use:   "view [file.svg]",
	Short: "Preview a drawing in an interactive window",
	Long: `Opens an SVG file in a Gio window driven by the zoom/pan/drag controller.
The view is re-initialized when the file changes on disk.

Controls:
  Left drag         - Pan (or move an element when drag is enabled)
  Scroll wheel      - Zoom at the pointer
  + / -             - Animated zoom in/out
  Arrow keys        - Animated pan
  0                 - Back to the origin
  R                 - Rotate
  D                 - Enable/disable gestures
  S                 - Print the current matrix
  Ctrl+O            - Open a file
  Q / Escape        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	var path string
	if len(args) == 1 {
		path = args[0]
	}

	go func() {
		w := new(app.Window)
		if err := viewer.Run(w, path, cfg); err != nil {
			zpd.Logger().Error("view: " + err.Error())
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}
