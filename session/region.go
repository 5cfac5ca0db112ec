package session

import (
	"sync"

	"github.com/vsariola/lanes"
)

// Region is a time-bounded span of material on a playlist. Its layer is
// managed by the playlist it belongs to.
type Region struct {
	mu       sync.RWMutex
	id       lanes.RegionID
	name     string
	position lanes.Frame
	length   lanes.Frame
	layer    lanes.Layer
}

func NewRegion(name string, position, length lanes.Frame) *Region {
	if length < 0 {
		length = 0
	}
	return &Region{id: lanes.NewRegionID(), name: name, position: position, length: length}
}

func (r *Region) ID() lanes.RegionID { return r.id }

func (r *Region) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.name
}

func (r *Region) Position() lanes.Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.position
}

func (r *Region) Length() lanes.Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.length
}

// End returns the first frame after the region.
func (r *Region) End() lanes.Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.position + r.length
}

func (r *Region) Layer() lanes.Layer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.layer
}

func (r *Region) Coverage(start, end lanes.Frame) lanes.OverlapType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lanes.Coverage(r.position, r.length, start, end)
}

func (r *Region) SetName(name string) {
	r.mu.Lock()
	r.name = name
	r.mu.Unlock()
}

func (r *Region) setLayer(l lanes.Layer) {
	r.mu.Lock()
	r.layer = l
	r.mu.Unlock()
}

func (r *Region) overlaps(o *Region) bool {
	return r.Coverage(o.Position(), o.End()) != lanes.OverlapNone
}
