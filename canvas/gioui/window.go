package gioui

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/sirupsen/logrus"
	"github.com/vsariola/lanes/broker"
	"github.com/vsariola/lanes/canvas"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

// Window shows a canvas in a gioui window. The goroutine calling Main becomes
// the UI goroutine: it drains the broker whenever tasks are posted, so
// everything the tasks touch (views, canvas) is only ever used by it.
type Window struct {
	Title         string
	Width, Height unit.Dp
	Maximized     bool
	Root          *canvas.Group
	Broker        *broker.Broker
	Background    color.NRGBA
	// Recording, if set, tells whether to show the recording indicator.
	Recording func() bool
	// OnTick, if set, is called every TickInterval on the UI goroutine,
	// e.g. to extend the recording boxes.
	OnTick       func()
	TickInterval time.Duration
	Log          *logrus.Entry

	renderer *Renderer
}

const (
	headerHeight = unit.Dp(28)
	iconSize     = unit.Dp(20)
)

var recordingColor = color.NRGBA{R: 0xff, G: 0x3b, B: 0x30, A: 0xff}

var recordIcon = func() *widget.Icon {
	ic, err := widget.NewIcon(icons.AVFiberManualRecord)
	if err != nil {
		panic(fmt.Errorf("record icon: %w", err))
	}
	return ic
}()

func (w *Window) newWindow() *app.Window {
	win := new(app.Window)
	win.Option(app.Title(w.Title), app.Size(w.Width, w.Height))
	if w.Maximized {
		win.Option(app.Maximized.Option())
	}
	return win
}

// Main runs the window until it is closed or something is sent to
// Broker.Close. It returns the error the window was destroyed with. Must be
// called from the main goroutine on platforms that need it; see app.Main.
func (w *Window) Main() error {
	log := w.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	interval := w.TickInterval
	if interval <= 0 {
		interval = 40 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer w.Broker.Finish()

	win := w.newWindow()
	var ops op.Ops
	acks := make(chan struct{})
	events := make(chan event.Event)
	go func() {
		for {
			ev := win.Event()
			events <- ev
			<-acks
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()
	for {
		select {
		case <-w.Broker.Wake():
			if n := w.Broker.Drain(); n > 0 {
				win.Invalidate()
			}
		case <-ticker.C:
			if w.OnTick != nil {
				w.OnTick()
				win.Invalidate()
			}
		case <-w.Broker.Close:
			log.Debug("closing window")
			win.Perform(system.ActionClose)
		case e := <-events:
			switch e := e.(type) {
			case app.DestroyEvent:
				acks <- struct{}{}
				return e.Err
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				w.Layout(gtx)
				e.Frame(gtx.Ops)
			}
			acks <- struct{}{}
		}
	}
}

// Layout paints the header and the canvas below it.
func (w *Window) Layout(gtx C) D {
	if w.renderer == nil {
		w.renderer = NewRenderer()
	}
	paint.FillShape(gtx.Ops, w.Background, clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Op())
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(w.layoutHeader),
		layout.Flexed(1, func(gtx C) D {
			defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
			return w.renderer.Layout(gtx, w.Root)
		}),
	)
}

func (w *Window) layoutHeader(gtx C) D {
	h := gtx.Dp(headerHeight)
	gtx.Constraints = layout.Exact(image.Pt(gtx.Constraints.Max.X, h))
	return layout.UniformInset(unit.Dp(4)).Layout(gtx, func(gtx C) D {
		if w.Recording == nil || !w.Recording() {
			return D{Size: gtx.Constraints.Max}
		}
		gtx.Constraints = layout.Exact(image.Pt(gtx.Dp(iconSize), gtx.Dp(iconSize)))
		recordIcon.Layout(gtx, recordingColor)
		return D{Size: gtx.Constraints.Max}
	})
}
