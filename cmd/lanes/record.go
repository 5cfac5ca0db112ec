package main

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/broker"
	"github.com/vsariola/lanes/canvas/term"
	"github.com/vsariola/lanes/session"
)

var (
	recordFrom     float64
	recordSeconds  float64
	recordLoopAt   float64
	recordTick     time.Duration
	recordRealtime bool
	recordSave     string

	recordCmd = &cobra.Command{
		Use:   "record [SESSION_FILE]",
		Short: "Simulate a recording run and print the lanes afterwards",
		Long: `record arms the session, rolls the transport and feeds the record-enabled
tracks with silence from a separate goroutine, like an audio engine would. The
lanes follow the capture through their notifications. When done, the lanes are
printed as with dump.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRecord,
	}
)

func init() {
	recordCmd.Flags().Float64Var(&recordFrom, "from", 1, "Start recording at this position, in seconds")
	recordCmd.Flags().Float64Var(&recordSeconds, "seconds", 2, "Length of the recording, in seconds")
	recordCmd.Flags().Float64Var(&recordLoopAt, "loop-at", 0, "Loop back to the start after this many seconds; 0 disables looping")
	recordCmd.Flags().DurationVar(&recordTick, "tick", 50*time.Millisecond, "Length of one capture block")
	recordCmd.Flags().BoolVar(&recordRealtime, "realtime", false, "Capture in real time instead of as fast as possible")
	recordCmd.Flags().StringVar(&recordSave, "save", "", "Write the session with the recorded regions to this file")
	recordCmd.Flags().IntVarP(&dumpColumns, "columns", "c", 120, "Width of the output in characters")
	recordCmd.Flags().BoolVar(&dumpPlain, "plain", false, "Do not use colors")
}

func runRecord(cmd *cobra.Command, args []string) error {
	if recordSeconds <= 0 || recordTick <= 0 {
		return errors.New("--seconds and --tick must be positive")
	}
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
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go b.Run(ctx)

	simulateCapture(s, bd)

	r := term.NewRenderer(dumpColumns)
	r.Plain = dumpPlain
	r.Background = theme.Colors.StreamBase
	result := make(chan error, 1)
	b.Post(func() {
		result <- dumpBoard(cmd, bd, r)
		bd.close()
	})
	if err := <-result; err != nil {
		return err
	}
	if !b.Shutdown(time.Second) {
		logrus.Warn("lanes did not shut down in time")
	}
	if recordSave != "" {
		if err := writeSession(recordSave, bd); err != nil {
			return err
		}
		logrus.WithField("file", recordSave).Info("session saved")
	}
	return nil
}

// simulateCapture plays the part of the audio engine: it advances the capture
// of every recording diskstream block by block and asks the lanes to follow.
func simulateCapture(s *session.Session, bd *board) {
	rate := float64(s.SampleRate())
	start := lanes.Frame(recordFrom * rate)
	total := lanes.Frame(recordSeconds * rate)
	loopAt := lanes.Frame(recordLoopAt * rate)
	block := max(lanes.Frame(recordTick.Seconds()*rate), 1)

	s.SetRecordEnabled(true)
	s.Start(start)
	bd.sync()
	logrus.WithFields(logrus.Fields{"start": start, "frames": total}).Debug("transport rolling")
	var sinceLoop lanes.Frame
	for captured := lanes.Frame(0); captured < total; captured += block {
		if loopAt > 0 && sinceLoop >= loopAt {
			s.Loop(start)
			bd.sync()
			sinceLoop = 0
			logrus.Debug("transport looped")
		}
		for _, t := range s.Tracks() {
			ds := t.CurrentDiskstream()
			if ds == nil {
				continue
			}
			if t.Mode() == lanes.Destructive {
				ds.SetCaptureStart(ds.CurrentCaptureEnd())
			}
			ds.Capture(block)
		}
		sinceLoop += block
		bd.broker.Post(bd.updateRecBoxes)
		if recordRealtime {
			time.Sleep(recordTick)
		}
	}
	s.Stop()
	logrus.Debug("transport stopped")
}
