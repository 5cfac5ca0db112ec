package main

import (
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vsariola/lanes/broker"
	"github.com/vsariola/lanes/canvas/gioui"
)

var (
	showSimulate bool

	showCmd = &cobra.Command{
		Use:   "show [SESSION_FILE]",
		Short: "Show the lanes of a session in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShow,
	}
)

func init() {
	showCmd.Flags().BoolVar(&showSimulate, "simulate", false, "Simulate a recording run in real time, see the record command")
	showCmd.Flags().Float64Var(&recordFrom, "from", 1, "Start the simulated recording at this position, in seconds")
	showCmd.Flags().Float64Var(&recordSeconds, "seconds", 2, "Length of the simulated recording, in seconds")
	showCmd.Flags().Float64Var(&recordLoopAt, "loop-at", 0, "Loop the simulated recording after this many seconds; 0 disables looping")
}

func runShow(cmd *cobra.Command, args []string) error {
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
	w := &gioui.Window{
		Title:      "lanes: " + s.Name(),
		Width:      unit.Dp(prefs.Window.Width),
		Height:     unit.Dp(prefs.Window.Height),
		Maximized:  prefs.Window.Maximized,
		Root:       bd.root,
		Broker:     b,
		Background: theme.Colors.StreamBase,
		Recording:  bd.recording,
		OnTick:     bd.updateRecBoxes,
		Log:        logrus.WithField("session", s.Name()),
	}
	if showSimulate {
		recordTick = 40 * time.Millisecond
		recordRealtime = true
		go simulateCapture(s, bd)
	}
	go func() {
		err := w.Main()
		bd.close()
		if err != nil {
			logrus.WithError(err).Error("window closed")
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}
