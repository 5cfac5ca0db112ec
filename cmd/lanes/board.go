package main

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/broker"
	"github.com/vsariola/lanes/canvas"
	"github.com/vsariola/lanes/config"
	"github.com/vsariola/lanes/session"
	"github.com/vsariola/lanes/streamview"
)

//go:embed demo.yml
var demoSession []byte

// laneGap is the space between two lanes, in pixels.
const laneGap = 4

// board is the lanes of all the tracks of a session, one below the other.
type board struct {
	session *session.Session
	broker  *broker.Broker
	prefs   config.Preferences
	theme   *config.Theme
	root    *canvas.Group
	views   []*streamview.View
	tracks  []*session.Track
}

func loadSession(args []string) (*session.Session, error) {
	if len(args) == 0 {
		logrus.Debug("no session file given, using the demo session")
		return session.Read(bytes.NewReader(demoSession))
	}
	s, err := session.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("opening session %s: %w", args[0], err)
	}
	return s, nil
}

func loadConfig() (config.Preferences, *config.Theme) {
	prefs := config.MakePreferences()
	if prefs.YmlError != nil {
		logrus.WithError(prefs.YmlError).Warn("using default preferences")
	}
	return prefs, config.NewTheme()
}

func layerDisplay(prefs config.Preferences) lanes.LayerDisplay {
	switch {
	case stacked:
		return lanes.Stacked
	case overlaid:
		return lanes.Overlaid
	}
	return prefs.LayerDisplay()
}

func newBoard(s *session.Session, b *broker.Broker, prefs config.Preferences, theme *config.Theme) (*board, error) {
	bd := &board{session: s, broker: b, prefs: prefs, theme: theme, root: canvas.New()}
	backgrounds := bd.root.NewGroup()
	display := bd.root.NewGroup()
	editor := prefs.Editor()
	y := 0.0
	for _, t := range s.Tracks() {
		bg := backgrounds.NewGroup()
		bg.SetPosition(0, y)
		v, err := streamview.New(streamview.Params{
			Track:      t,
			Session:    s,
			Editor:     editor,
			Background: bg,
			Display:    display,
			Dispatcher: b,
			Theme:      theme,
			Height:     prefs.Lane.Height,
			Logger:     logrus.WithField("session", s.Name()),
		})
		if err != nil {
			bd.close()
			return nil, fmt.Errorf("lane of track %s: %w", t.Name(), err)
		}
		v.SetPosition(0, y)
		v.SetLayerDisplay(layerDisplay(prefs))
		v.Attach()
		bd.views = append(bd.views, v)
		bd.tracks = append(bd.tracks, t)
		y += prefs.Lane.Height + laneGap
	}
	return bd, nil
}

// height is the total height of the lanes in pixels.
func (bd *board) height() float64 {
	if len(bd.views) == 0 {
		return 0
	}
	h := 0.0
	for _, v := range bd.views {
		h += v.Height() + laneGap
	}
	return h - laneGap
}

func (bd *board) recording() bool {
	for _, v := range bd.views {
		if v.Recording() {
			return true
		}
	}
	return false
}

func (bd *board) updateRecBoxes() {
	for _, v := range bd.views {
		v.UpdateRecBox()
	}
}

// sync waits until the UI goroutine has run every task posted so far.
func (bd *board) sync() {
	done := make(chan struct{})
	bd.broker.Post(func() { close(done) })
	<-done
}

func (bd *board) close() {
	for _, v := range bd.views {
		v.Close()
	}
	bd.views = nil
}
