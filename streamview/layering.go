package streamview

import (
	"cmp"
	"slices"

	"github.com/vsariola/lanes"
)

// LayerRegions purges the views whose region is gone, and restacks the rest
// so that views on higher layers are drawn above views on lower layers.
// Views on the same layer keep their relative order. Afterwards ForEach
// visits the views bottom-most first.
func (v *View) LayerRegions() {
	v.views = slices.DeleteFunc(v.views, func(rv *RegionView) bool {
		if rv.Valid() {
			return false
		}
		rv.destroy()
		return true
	})
	for _, rv := range v.views {
		rv.EnableDisplay(true)
	}
	// layers are read once, as the playlist may relayer while we sort
	layers := make(map[*RegionView]lanes.Layer, len(v.views))
	for _, rv := range v.views {
		if r, ok := rv.Region(); ok {
			layers[rv] = r.Layer()
		}
	}
	slices.SortStableFunc(v.views, func(a, b *RegionView) int {
		return cmp.Compare(layers[a], layers[b])
	})
	for _, rv := range v.views {
		rv.group.RaiseToTop()
	}
}

// RegionLayered raises a single view so that it is at least as high among
// its siblings as its layer, without restacking the others. It is never left
// at the bottom, where the lane itself would get its events.
func (v *View) RegionLayered(rv *RegionView) {
	r, ok := rv.Region()
	if !ok {
		return
	}
	if n := int(r.Layer()) - rv.group.Index(); n > 0 {
		rv.group.Raise(n)
	}
}

// playlistLayered updates the layer count and restacks the views. When
// stacked, the views are also moved to the bands of their new layers.
func (v *View) playlistLayered() {
	if v.playlist == nil {
		return
	}
	v.layers = int(v.playlist.TopLayer()) + 1
	v.LayerRegions()
	if v.layerDisplay == lanes.Stacked {
		v.updateContentsHeight()
		v.UpdateCoverageFrames()
	}
}
