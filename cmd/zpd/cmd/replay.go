package cmd

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/svgzpd/internal/trace"
	"github.com/OpenTraceLab/svgzpd/pkg/svg"
)

var (
	replaySVG   string
	replayWrite string
	replayColor bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <trace.sexp>",
	Short: "Replay a recorded gesture trace",
	Long: `Replays a gesture trace against the controller with a virtual clock and
prints one line per step with the resulting content transform.

Without --svg the trace runs on a blank surface sized by its (surface (size w h))
entry. The command fails when an expect-matrix or expect-zoom step does not hold.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVar(&replaySVG, "svg", "", "drawing to replay on")
	replayCmd.Flags().StringVarP(&replayWrite, "output", "o", "", "write the resulting drawing to this file")
	replayCmd.Flags().BoolVar(&replayColor, "color", true, "colour the output when the terminal supports it")
}

func runReplay(cmd *cobra.Command, args []string) error {
	t, err := trace.ParseFile(args[0])
	if err != nil {
		return err
	}

	var doc *svg.Document
	if replaySVG != "" {
		if doc, err = svg.ParseFile(replaySVG); err != nil {
			return err
		}
	}

	out := termenv.NewOutput(cmd.OutOrStdout())
	if !replayColor {
		out = termenv.NewOutput(cmd.OutOrStdout(), termenv.WithProfile(termenv.Ascii))
	}

	r := trace.NewReplayer(t, doc)
	r.OnEvent = func(e trace.Event) {
		fmt.Fprintln(out, colorize(out, e))
	}
	events, err := r.Run()
	if err != nil {
		return err
	}

	if replayWrite != "" {
		if err := writeDocument(replayWrite, r.Document()); err != nil {
			return err
		}
	}

	var applied, failed int
	for _, e := range events {
		switch {
		case e.Err != nil:
			failed++
		case e.Applied:
			applied++
		}
	}
	fmt.Fprintf(out, "%d events, %d applied, %d errors\n", len(events), applied, failed)
	return nil
}

func colorize(out *termenv.Output, e trace.Event) string {
	s := out.String(e.String())
	switch {
	case e.Err != nil:
		return s.Foreground(out.Color("1")).String()
	case e.Done:
		return s.Foreground(out.Color("6")).String()
	case !e.Applied:
		return s.Foreground(out.Color("3")).String()
	}
	return s.String()
}

func writeDocument(path string, doc *svg.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
