package session

import (
	"sync"

	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/signal"
)

// Diskstream is the capture path of a track. The capture position is advanced
// by the caller (usually the audio goroutine) with Capture.
type Diskstream struct {
	mu            sync.RWMutex
	playlist      *Playlist
	recordEnabled bool
	capturing     bool
	captureStart  lanes.Frame
	captureEnd    lanes.Frame

	playlistChanged     signal.Signal[struct{}]
	recordEnableChanged signal.Signal[struct{}]
}

func NewDiskstream(playlist *Playlist) *Diskstream {
	if playlist == nil {
		playlist = NewPlaylist("")
	}
	return &Diskstream{playlist: playlist}
}

func (d *Diskstream) PlaylistChanged() *signal.Signal[struct{}]     { return &d.playlistChanged }
func (d *Diskstream) RecordEnableChanged() *signal.Signal[struct{}] { return &d.recordEnableChanged }

func (d *Diskstream) Playlist() lanes.Playlist {
	return d.CurrentPlaylist()
}

// CurrentPlaylist returns the concrete playlist the diskstream uses.
func (d *Diskstream) CurrentPlaylist() *Playlist {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.playlist
}

// UsePlaylist switches the diskstream to another playlist.
func (d *Diskstream) UsePlaylist(p *Playlist) {
	if p == nil {
		return
	}
	d.mu.Lock()
	if d.playlist == p {
		d.mu.Unlock()
		return
	}
	d.playlist = p
	d.mu.Unlock()
	d.playlistChanged.Emit(struct{}{})
}

func (d *Diskstream) RecordEnabled() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.recordEnabled
}

func (d *Diskstream) SetRecordEnabled(enabled bool) {
	d.mu.Lock()
	if d.recordEnabled == enabled {
		d.mu.Unlock()
		return
	}
	d.recordEnabled = enabled
	d.mu.Unlock()
	d.recordEnableChanged.Emit(struct{}{})
}

func (d *Diskstream) CurrentCaptureStart() lanes.Frame {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.captureStart
}

func (d *Diskstream) CurrentCaptureEnd() lanes.Frame {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.captureEnd
}

// StartCapture begins a capture pass at the given position.
func (d *Diskstream) StartCapture(at lanes.Frame) {
	d.mu.Lock()
	d.capturing = true
	d.captureStart = at
	d.captureEnd = at
	d.mu.Unlock()
}

// Capture advances the captured range by frames.
func (d *Diskstream) Capture(frames lanes.Frame) {
	d.mu.Lock()
	if d.capturing && frames > 0 {
		d.captureEnd += frames
	}
	d.mu.Unlock()
}

// SetCaptureStart moves the start of the current pass. In destructive mode
// the write position moves along with the capture.
func (d *Diskstream) SetCaptureStart(at lanes.Frame) {
	d.mu.Lock()
	d.captureStart = at
	if d.captureEnd < at {
		d.captureEnd = at
	}
	d.mu.Unlock()
}

// FinishCapture ends the current pass. If anything was captured, a new
// region with the given name is added to the playlist and returned.
func (d *Diskstream) FinishCapture(name string) (*Region, bool) {
	d.mu.Lock()
	if !d.capturing {
		d.mu.Unlock()
		return nil, false
	}
	d.capturing = false
	start, end, pl := d.captureStart, d.captureEnd, d.playlist
	d.mu.Unlock()
	if end <= start {
		return nil, false
	}
	r := NewRegion(name, start, end-start)
	pl.Add(r)
	return r, true
}

var _ lanes.Diskstream = (*Diskstream)(nil)
