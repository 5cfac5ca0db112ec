package session

import (
	"sync"

	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/signal"
)

type Track struct {
	mu         sync.RWMutex
	name       string
	mode       lanes.TrackMode
	diskstream *Diskstream

	diskstreamChanged signal.Signal[struct{}]
}

// NewTrack returns a track recording through ds. ds may be nil for a track
// that has nothing to show, e.g. a bus.
func NewTrack(name string, mode lanes.TrackMode, ds *Diskstream) *Track {
	return &Track{name: name, mode: mode, diskstream: ds}
}

func (t *Track) DiskstreamChanged() *signal.Signal[struct{}] { return &t.diskstreamChanged }

func (t *Track) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

func (t *Track) Mode() lanes.TrackMode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

func (t *Track) SetMode(m lanes.TrackMode) {
	t.mu.Lock()
	t.mode = m
	t.mu.Unlock()
}

func (t *Track) Diskstream() lanes.Diskstream {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.diskstream == nil {
		return nil // avoid returning a typed nil
	}
	return t.diskstream
}

// CurrentDiskstream returns the concrete diskstream of the track, or nil.
func (t *Track) CurrentDiskstream() *Diskstream {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.diskstream
}

func (t *Track) SetDiskstream(ds *Diskstream) {
	t.mu.Lock()
	if t.diskstream == ds {
		t.mu.Unlock()
		return
	}
	t.diskstream = ds
	t.mu.Unlock()
	t.diskstreamChanged.Emit(struct{}{})
}

var _ lanes.Track = (*Track)(nil)
