package session

import (
	"slices"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/signal"
)

// Playlist is a goroutine-safe, in-memory playlist. Mutations emit their
// signals after the playlist lock has been released, from the goroutine that
// made the change.
type Playlist struct {
	mu       sync.RWMutex
	name     string
	regions  []*Region
	explicit bool

	layeringChanged signal.Signal[struct{}]
	regionAdded     signal.Signal[lanes.RegionID]
	regionRemoved   signal.Signal[lanes.RegionID]
}

func NewPlaylist(name string) *Playlist {
	return &Playlist{name: name}
}

func (p *Playlist) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

func (p *Playlist) LayeringChanged() *signal.Signal[struct{}]     { return &p.layeringChanged }
func (p *Playlist) RegionAdded() *signal.Signal[lanes.RegionID]   { return &p.regionAdded }
func (p *Playlist) RegionRemoved() *signal.Signal[lanes.RegionID] { return &p.regionRemoved }

func (p *Playlist) Region(id lanes.RegionID) (lanes.Region, bool) {
	r, ok := p.find(id)
	if !ok {
		return nil, false
	}
	return r, true
}

func (p *Playlist) find(id lanes.RegionID) (*Region, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, r := range p.regions {
		if r.id == id {
			return r, true
		}
	}
	return nil, false
}

func (p *Playlist) Regions() []lanes.Region {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ret := make([]lanes.Region, len(p.regions))
	for i, r := range p.regions {
		ret[i] = r
	}
	return ret
}

// CurrentRegions returns a snapshot of the concrete regions, in playlist
// order.
func (p *Playlist) CurrentRegions() []*Region {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.regions)
}

func (p *Playlist) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.regions)
}

func (p *Playlist) TopLayer() lanes.Layer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.topLayer()
}

func (p *Playlist) topLayer() lanes.Layer {
	var top lanes.Layer
	for _, r := range p.regions {
		top = max(top, r.Layer())
	}
	return top
}

func (p *Playlist) SetExplicitRelayering(explicit bool) {
	p.mu.Lock()
	p.explicit = explicit
	p.mu.Unlock()
}

func (p *Playlist) ExplicitRelayering() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.explicit
}

// Add puts r on the playlist, on the layer above all the regions it overlaps.
// Adding a region that is already on the playlist does nothing.
func (p *Playlist) Add(r *Region) {
	p.mu.Lock()
	if slices.Contains(p.regions, r) {
		p.mu.Unlock()
		return
	}
	layer := lanes.Layer(0)
	for _, o := range p.regions {
		if o.overlaps(r) {
			layer = max(layer, o.Layer()+1)
		}
	}
	r.setLayer(layer)
	p.regions = append(p.regions, r)
	p.mu.Unlock()
	p.regionAdded.Emit(r.id)
	p.layeringChanged.Emit(struct{}{})
}

// AddWithLayer puts r on the playlist on the given layer.
func (p *Playlist) AddWithLayer(r *Region, layer lanes.Layer) {
	p.mu.Lock()
	if slices.Contains(p.regions, r) {
		p.mu.Unlock()
		return
	}
	r.setLayer(layer)
	p.regions = append(p.regions, r)
	p.mu.Unlock()
	p.regionAdded.Emit(r.id)
	p.layeringChanged.Emit(struct{}{})
}

// Remove takes the region off the playlist. Unless layers are set
// explicitly, the remaining layers are compacted. Returns false if the region
// was not on the playlist.
func (p *Playlist) Remove(id lanes.RegionID) bool {
	p.mu.Lock()
	i := slices.IndexFunc(p.regions, func(r *Region) bool { return r.id == id })
	if i < 0 {
		p.mu.Unlock()
		return false
	}
	p.regions = slices.Delete(p.regions, i, i+1)
	if !p.explicit {
		p.compact()
	}
	p.mu.Unlock()
	p.regionRemoved.Emit(id)
	p.layeringChanged.Emit(struct{}{})
	return true
}

// SetLayer moves a region to the given layer.
func (p *Playlist) SetLayer(id lanes.RegionID, layer lanes.Layer) bool {
	r, ok := p.find(id)
	if !ok {
		return false
	}
	if r.Layer() == layer {
		return true
	}
	r.setLayer(layer)
	p.layeringChanged.Emit(struct{}{})
	return true
}

// RaiseToTop moves a region one layer above the current top layer.
func (p *Playlist) RaiseToTop(id lanes.RegionID) bool {
	p.mu.Lock()
	i := slices.IndexFunc(p.regions, func(r *Region) bool { return r.id == id })
	if i < 0 {
		p.mu.Unlock()
		return false
	}
	r := p.regions[i]
	top := p.topLayer()
	if r.Layer() == top && p.countOnLayer(top) == 1 {
		p.mu.Unlock()
		return true
	}
	r.setLayer(top + 1)
	if !p.explicit {
		p.compact()
	}
	p.mu.Unlock()
	p.layeringChanged.Emit(struct{}{})
	return true
}

// Relayer renumbers the layers so that the used layers are 0, 1, 2... while
// keeping their relative order.
func (p *Playlist) Relayer() {
	p.mu.Lock()
	p.compact()
	p.mu.Unlock()
	p.layeringChanged.Emit(struct{}{})
}

func (p *Playlist) compact() {
	used := make([]lanes.Layer, 0, len(p.regions))
	for _, r := range p.regions {
		used = append(used, r.Layer())
	}
	slices.Sort(used)
	used = slices.Compact(used)
	for _, r := range p.regions {
		i, _ := slices.BinarySearch(used, r.Layer())
		r.setLayer(lanes.Layer(i))
	}
}

func (p *Playlist) countOnLayer(l lanes.Layer) int {
	n := 0
	for _, r := range p.regions {
		if r.Layer() == l {
			n++
		}
	}
	return n
}

// FindRegions returns the regions whose name fuzzy-matches query, best match
// first.
func (p *Playlist) FindRegions(query string) []*Region {
	p.mu.RLock()
	names := make([]string, len(p.regions))
	regions := slices.Clone(p.regions)
	p.mu.RUnlock()
	for i, r := range regions {
		names[i] = r.Name()
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)
	ret := make([]*Region, 0, len(ranks))
	for _, rank := range ranks {
		ret = append(ret, regions[rank.OriginalIndex])
	}
	return ret
}

var _ lanes.Playlist = (*Playlist)(nil)
