package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ivlev/choreo/internal/timeline"
	"github.com/spf13/cobra"
)

func formatMs(ms float64) string {
	return timeline.FormatTime(ms)
}

var evalCmd = &cobra.Command{
	Use:   "eval [project]",
	Short: "Prints where every performer stands at a moment.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, _ := cmd.Flags().GetFloat64("at")

		_, ed, _, err := openProject(args)
		if err != nil {
			return err
		}
		st := ed.Store()
		positions := st.Evaluate(at)

		if f, ok := timeline.FrameAt(st.Frames(), at); ok {
			fmt.Printf("%s: holding %q\n", formatMs(at), f.Name)
		} else {
			fmt.Printf("%s: in transition\n", formatMs(at))
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLABEL\tX\tY\t")
		for _, p := range st.Performers() {
			pos, ok := positions[p.ID]
			if !ok {
				fmt.Fprintf(w, "%s\t%s\t%s\t-\t-\t\n", p.ID, p.Name, p.Label)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t\n", p.ID, p.Name, p.Label, pos.X, pos.Y)
		}
		return w.Flush()
	},
}

var gapsCmd = &cobra.Command{
	Use:   "gaps [project]",
	Short: "Lists the frames and the transitions between them.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, ed, _, err := openProject(args)
		if err != nil {
			return err
		}
		st := ed.Store()
		frames := st.Frames()
		names := make(map[string]string, len(frames))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "FRAME\tSTART\tEND\tON STAGE\t")
		for _, f := range frames {
			names[f.ID] = f.Name
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t\n", f.Name, formatMs(f.StartTime), formatMs(f.End()), len(f.Positions))
		}
		fmt.Fprintln(w, " \t \t \t \t")

		fmt.Fprintln(w, "TRANSITION\tSTART\tEND\tLENGTH\t")
		for _, g := range timeline.Gaps(frames) {
			from := names[g.PrevID]
			if from == "" {
				from = "(start)"
			}
			fmt.Fprintf(w, "%s -> %s\t%s\t%s\t%s\t\n", from, names[g.NextID], formatMs(g.Start), formatMs(g.End), formatMs(g.Duration()))
		}

		if end, ok := timeline.PlaybackEnd(frames); ok {
			fmt.Fprintln(w, " \t \t \t \t")
			fmt.Fprintf(w, "PLAYBACK END\t%s\t\t\t\n", formatMs(end))
		}
		return w.Flush()
	},
}

func init() {
	evalCmd.Flags().Float64("at", 0, "Time in ms")
	rootCmd.AddCommand(evalCmd, gapsCmd)
}
