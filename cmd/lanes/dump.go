package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vsariola/lanes/broker"
	"github.com/vsariola/lanes/canvas/term"
)

var (
	dumpColumns int
	dumpPlain   bool

	dumpCmd = &cobra.Command{
		Use:   "dump [SESSION_FILE]",
		Short: "Print the lanes of a session to the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(args)
			if err != nil {
				return err
			}
			prefs, theme := loadConfig()
			b := broker.NewBroker()
			bd, err := newBoard(s, b, prefs, theme)
			if err != nil {
				return err
			}
			defer bd.close()
			b.Drain()
			r := term.NewRenderer(dumpColumns)
			r.Plain = dumpPlain
			r.Background = theme.Colors.StreamBase
			return dumpBoard(cmd, bd, r)
		},
	}
)

func init() {
	dumpCmd.Flags().IntVarP(&dumpColumns, "columns", "c", 120, "Width of the output in characters")
	dumpCmd.Flags().BoolVar(&dumpPlain, "plain", false, "Do not use colors")
}

func dumpBoard(cmd *cobra.Command, bd *board, r *term.Renderer) error {
	out := cmd.OutOrStdout()
	colors := bd.theme.Colors
	legend := r.Legend("session "+bd.session.Name(),
		term.LegendEntry{Name: "region", Color: colors.Region},
		term.LegendEntry{Name: "selected", Color: colors.SelectedRegion},
		term.LegendEntry{Name: "recording", Color: colors.RecordingOutline},
	)
	if _, err := fmt.Fprintln(out, legend); err != nil {
		return err
	}
	for i, v := range bd.views {
		t := bd.tracks[i]
		boxes := v.RecBoxes()
		fmt.Fprintf(out, "%s (%s, %s, %d layers, %d regions, %d capture boxes)\n",
			t.Name(), t.Mode(), v.LayerDisplay(), v.Layers(), v.NumViews(), len(boxes))
	}
	if _, err := fmt.Fprintln(out, r.Render(bd.root, bd.height())); err != nil {
		return err
	}
	return nil
}

func writeSession(path string, bd *board) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bd.session.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
