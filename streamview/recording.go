package streamview

import (
	"slices"

	"github.com/viterin/vek"
	"github.com/vsariola/lanes"
)

type (
	// RecBox is the box drawn over the part of the timeline captured by one
	// recording pass. Start and Length are timeline positions; Rect is the
	// projection at the current zoom.
	RecBox struct {
		Start  lanes.Frame
		Length lanes.Frame
		Rect   lanes.CanvasRect
	}

	recordState int
)

const (
	recIdle recordState = iota
	recRecording
	// recording, but the editor does not want boxes drawn
	recSuppressed
)

// destructiveMarkerLength is the length of the box that marks the write
// position of a destructive track.
const destructiveMarkerLength lanes.Frame = 2

func (s recordState) String() string {
	switch s {
	case recIdle:
		return "idle"
	case recRecording:
		return "recording"
	case recSuppressed:
		return "recording (suppressed)"
	}
	return "unknown"
}

// Recording reports whether the track is being recorded, whether or not a
// box is drawn for it.
func (v *View) Recording() bool { return v.recState != recIdle }

// RecBoxes returns the boxes of the recording run, oldest first. The last
// one is still growing if Recording.
func (v *View) RecBoxes() []RecBox { return slices.Clone(v.recBoxes) }

// recordActive tells if the track should be capturing right now.
func (v *View) recordActive() bool {
	ds := v.diskstream
	if v.session == nil || ds == nil {
		return false
	}
	return v.session.TransportRolling() && v.session.RecordEnabled() && ds.RecordEnabled()
}

// setupRecBox starts a new recording box when the track starts recording,
// and freezes the current one when it stops.
func (v *View) setupRecBox() {
	if v.closed {
		return
	}
	active := v.recordActive()
	switch {
	case active && v.recState == recIdle:
		if !v.editor.ShowWaveformsRecording() {
			v.recState = recSuppressed
			v.log.Debug("recording started, box suppressed")
			return
		}
		start := v.diskstream.CurrentCaptureStart()
		var length lanes.Frame
		if v.track.Mode() == lanes.Destructive {
			length = destructiveMarkerLength
		}
		rect := v.group.NewRect()
		rect.SetFill(v.theme.Colors.RecordingFill)
		rect.SetOutline(v.theme.Colors.RecordingOutline, lanes.OutlineAll)
		x1 := lanes.FrameToPixel(start, v.samplesPerUnit)
		rect.SetBounds(x1, 1, lanes.FrameToPixel(start+length, v.samplesPerUnit), v.height-1)
		v.recBoxes = append(v.recBoxes, RecBox{Start: start, Length: length, Rect: rect})
		v.recState = recRecording
		v.log.WithField("start", start).Debug("recording started")
	case !active && v.recState != recIdle:
		v.log.WithField("state", v.recState).Debug("recording stopped")
		v.recState = recIdle
	}
}

// transportLooped freezes the current box; a new one is started afterwards
// at the position the transport looped to.
func (v *View) transportLooped() {
	if v.closed {
		return
	}
	v.recState = recIdle
	v.post(v.setupRecBox)
}

// UpdateRecBox extends the box of the current recording pass up to the
// position captured so far. It is called periodically while recording.
func (v *View) UpdateRecBox() {
	if v.recState != recRecording || len(v.recBoxes) == 0 || v.diskstream == nil {
		return
	}
	box := &v.recBoxes[len(v.recBoxes)-1]
	at := v.diskstream.CurrentCaptureEnd()
	var x1, x2 float64
	switch v.track.Mode() {
	case lanes.Normal, lanes.NonLayered:
		box.Length = at - box.Start
		x1 = lanes.FrameToPixel(box.Start, v.samplesPerUnit)
		x2 = lanes.FrameToPixel(at, v.samplesPerUnit)
	case lanes.Destructive:
		box.Start = v.diskstream.CurrentCaptureStart()
		box.Length = destructiveMarkerLength
		x1 = lanes.FrameToPixel(box.Start, v.samplesPerUnit)
		x2 = lanes.FrameToPixel(at, v.samplesPerUnit)
	}
	_, y1, _, y2 := box.Rect.Bounds()
	box.Rect.SetBounds(x1, y1, x2, y2)
}

// reprojectRecBoxes moves every box to the current zoom level. The box still
// being recorded is then extended again, so that a destructive marker keeps
// reaching the capture end.
func (v *View) reprojectRecBoxes() {
	if len(v.recBoxes) == 0 {
		return
	}
	xs := make([]float64, 0, 2*len(v.recBoxes))
	for _, b := range v.recBoxes {
		xs = append(xs, float64(b.Start), float64(b.Start+b.Length))
	}
	vek.DivNumber_Inplace(xs, v.samplesPerUnit)
	for i, b := range v.recBoxes {
		_, y1, _, y2 := b.Rect.Bounds()
		b.Rect.SetBounds(xs[2*i], y1, xs[2*i+1], y2)
	}
	v.UpdateRecBox()
}

func (v *View) clearRecBoxes() {
	for _, b := range v.recBoxes {
		b.Rect.Destroy()
	}
	v.recBoxes = nil
	v.recState = recIdle
}
