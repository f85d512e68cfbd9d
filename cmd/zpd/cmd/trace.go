package cmd

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/chewxy/sexp"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/svgzpd/internal/trace"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Gesture trace file operations",
	Long:  `Commands for working with gesture trace files (.sexp)`,
}

var traceLintCmd = &cobra.Command{
	Use:   "lint <trace.sexp>...",
	Short: "Check gesture traces for errors",
	Long: `Checks that each file is a well-formed s-expression and a valid trace.
The raw text is also read with an independent s-expression reader and the
two readings must agree on expressions and atoms.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTraceLint,
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.AddCommand(traceLintCmd)
}

func runTraceLint(cmd *cobra.Command, args []string) error {
	var failed int
	for _, filename := range args {
		steps, err := lintTrace(filename)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", filename, err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d steps)\n", filename, steps)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d traces failed", failed, len(args))
	}
	return nil
}

func lintTrace(filename string) (int, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return 0, err
	}
	src := string(data)

	exprs, err := trace.ParseSexp(strings.NewReader(src))
	if err != nil {
		return 0, err
	}
	if err := crossCheck(src, exprs); err != nil {
		return 0, err
	}

	t, err := trace.Parse(strings.NewReader(src))
	if err != nil {
		return 0, err
	}
	return len(t.Steps), nil
}

// crossCheck reads src again with chewxy/sexp and compares the number of
// top-level expressions and of atoms in each with exprs.
func crossCheck(src string, exprs []trace.Sexp) (err error) {
	defer func() {
		// chewxy/sexp panics on a stray ')'
		if r := recover(); r != nil {
			err = fmt.Errorf("unbalanced parentheses: %v", r)
		}
	}()

	other, err := sexp.ParseString(strings.TrimSpace(maskAtoms(src)))
	if err != nil {
		return fmt.Errorf("s-expression reader: %w", err)
	}
	if len(other) != len(exprs) {
		return fmt.Errorf("s-expression reader sees %d expressions, want %d", len(other), len(exprs))
	}
	for i, e := range exprs {
		if got, want := leaves(other[i]), atoms(e); got != want {
			return fmt.Errorf("line %d: s-expression reader sees %d atoms, want %d", e.Line(), got, want)
		}
	}
	return nil
}

// maskAtoms drops comments and replaces every quoted string with a plain
// symbol. chewxy/sexp knows neither.
func maskAtoms(src string) string {
	var sb strings.Builder
	inSymbol := false
	rs := []rune(src)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '"':
			for i++; i < len(rs) && rs[i] != '"'; i++ {
				if rs[i] == '\\' {
					i++
				}
			}
			sb.WriteString(" s ")
			inSymbol = false
		case r == ';' || (r == '#' && !inSymbol):
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
			sb.WriteByte('\n')
			inSymbol = false
		case unicode.IsSpace(r):
			sb.WriteByte(' ')
			inSymbol = false
		case r == '(' || r == ')':
			sb.WriteRune(r)
			inSymbol = false
		default:
			sb.WriteRune(r)
			inSymbol = true
		}
	}
	return sb.String()
}

func atoms(e trace.Sexp) int {
	l, ok := e.(*trace.List)
	if !ok {
		return 1
	}
	n := 0
	for i := 0; i < l.Len(); i++ {
		n += atoms(l.Get(i))
	}
	return n
}

// leaves counts symbols. chewxy/sexp represents an empty list with an
// unexported placeholder, which counts as zero.
func leaves(s sexp.Sexp) int {
	switch v := s.(type) {
	case sexp.List:
		n := 0
		for _, c := range v {
			n += leaves(c)
		}
		return n
	case sexp.Atom:
		return 1
	}
	return 0
}
