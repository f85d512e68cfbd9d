package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "SVG transform matrix utilities",
	Long: `Commands for working with SVG transform lists. Every transform argument
accepts the SVG syntax, e.g. "matrix(1,0,0,1,10,10)" or "translate(5) scale(2)".
Results are printed as matrix(a,b,c,d,e,f).`,
}

var matrixInvertCmd = &cobra.Command{
	Use:   "invert <transform>",
	Short: "Print the inverse of a transform",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := parseTransformArg(args[0])
		if err != nil {
			return err
		}
		inv, err := m.Invert()
		if err != nil {
			return err
		}
		printMatrix(cmd, inv)
		return nil
	},
}

var matrixComposeCmd = &cobra.Command{
	Use:   "compose <transform>...",
	Short: "Multiply transforms left to right",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := affine.Identity()
		for _, a := range args {
			n, err := parseTransformArg(a)
			if err != nil {
				return err
			}
			m = m.Multiply(n)
		}
		printMatrix(cmd, m)
		return nil
	},
}

var matrixZoomCmd = &cobra.Command{
	Use:   "zoom <transform> <factor> <x> <y>",
	Short: "Scale a transform about a point in its local space",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := parseTransformArg(args[0])
		if err != nil {
			return err
		}
		nums, err := parseFloats(args[1:])
		if err != nil {
			return err
		}
		printMatrix(cmd, m.ScaleAboutPoint(nums[0], nums[1], nums[2]))
		return nil
	},
}

var matrixApplyCmd = &cobra.Command{
	Use:   "apply <transform> <x> <y>",
	Short: "Map a point through a transform",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := parseTransformArg(args[0])
		if err != nil {
			return err
		}
		nums, err := parseFloats(args[1:])
		if err != nil {
			return err
		}
		x, y := m.Apply(nums[0], nums[1])
		fmt.Fprintf(cmd.OutOrStdout(), "%g %g\n", x, y)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matrixCmd)
	matrixCmd.AddCommand(matrixInvertCmd)
	matrixCmd.AddCommand(matrixComposeCmd)
	matrixCmd.AddCommand(matrixZoomCmd)
	matrixCmd.AddCommand(matrixApplyCmd)
}

// printMatrix writes m in the transform attribute format, plus the full
// 3x3 layout on stderr with --verbose.
func printMatrix(cmd *cobra.Command, m affine.Matrix) {
	fmt.Fprintln(cmd.OutOrStdout(), m)
	if verbose {
		fmt.Fprintln(cmd.ErrOrStderr(), m.Dump())
	}
}

func parseTransformArg(s string) (affine.Matrix, error) {
	m, err := affine.ParseTransform(s)
	if err != nil {
		return affine.Matrix{}, fmt.Errorf("invalid transform %q: %w", s, err)
	}
	return m, nil
}

func parseFloats(args []string) ([]float64, error) {
	nums := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		nums[i] = v
	}
	return nums, nil
}
