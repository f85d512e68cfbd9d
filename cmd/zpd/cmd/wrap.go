package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
	"github.com/OpenTraceLab/svgzpd/pkg/svg"
	"github.com/OpenTraceLab/svgzpd/pkg/zpd"
)

var (
	wrapOutput string
	wrapMatrix string
	wrapUnwrap bool
)

var wrapCmd = &cobra.Command{
	Use:   "wrap <in.svg>",
	Short: "Wrap a drawing's content in a transformable group",
	Long: `Moves the children of the root <svg> element into a <g class="svg-zpd">
content group, as the controller does on init, and writes the result.
A drawing that is already wrapped keeps its group and transform unless
--matrix replaces it. With --unwrap the group is removed again.`,
	Args: cobra.ExactArgs(1),
	RunE: runWrap,
}

func init() {
	rootCmd.AddCommand(wrapCmd)
	wrapCmd.Flags().StringVarP(&wrapOutput, "output", "o", "", "output file (default stdout)")
	wrapCmd.Flags().StringVar(&wrapMatrix, "matrix", "", `transform to load, e.g. "scale(2) translate(10,0)"`)
	wrapCmd.Flags().BoolVar(&wrapUnwrap, "unwrap", false, "remove the content group instead")
}

func runWrap(cmd *cobra.Command, args []string) error {
	doc, err := svg.ParseFile(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	if wrapMatrix != "" {
		m, err := affine.ParseTransform(wrapMatrix)
		if err != nil {
			return fmt.Errorf("--matrix: %w", err)
		}
		opts = append(opts, zpd.WithMatrix(m))
	}

	ctrl, err := zpd.Init(doc, opts...)
	if err != nil {
		return err
	}
	if wrapUnwrap {
		if err := ctrl.Destroy(); err != nil {
			return err
		}
	}

	if wrapOutput != "" {
		return writeDocument(wrapOutput, doc)
	}
	_, err = doc.WriteTo(cmd.OutOrStdout())
	return err
}
