package streamview

import (
	"slices"

	"github.com/vsariola/lanes"
)

// Selection is a set of regions, e.g. the regions selected in the editor.
type Selection map[lanes.RegionID]struct{}

func NewSelection(ids ...lanes.RegionID) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Selection) Contains(id lanes.RegionID) bool {
	_, ok := s[id]
	return ok
}

// AddRegionView creates a view for the region with the given ID, unless it
// already has one or is not on the shown playlist. When regions are stacked,
// the layers are recomputed and the views restacked.
func (v *View) AddRegionView(id lanes.RegionID) {
	if v.closed || v.playlist == nil {
		return
	}
	r, ok := v.playlist.Region(id)
	if !ok {
		return
	}
	v.addRegionView(r)
	if v.layerDisplay == lanes.Stacked {
		v.layers = int(v.playlist.TopLayer()) + 1
		v.updateContentsHeight()
		v.UpdateCoverageFrames()
		v.LayerRegions()
	}
}

func (v *View) addRegionView(r lanes.Region) *RegionView {
	if rv, ok := v.FindView(r.ID()); ok {
		return rv
	}
	rv := newRegionView(v.group, v.playlist, r, v.theme, v.regionColor, v.samplesPerUnit, v.ChildHeight())
	rv.SetY(v.childY(r.Layer()))
	v.views = append(v.views, rv)
	v.log.WithField("region", r.Name()).Debug("region view added")
	return rv
}

// RemoveRegionView destroys the view of the region with the given ID, if
// there is one.
func (v *View) RemoveRegionView(id lanes.RegionID) {
	i := slices.IndexFunc(v.views, func(rv *RegionView) bool { return rv.id == id })
	if i < 0 {
		return
	}
	v.views[i].destroy()
	v.views = slices.Delete(v.views, i, i+1)
	v.log.WithField("region", id).Debug("region view removed")
}

// ClearAll destroys every region view.
func (v *View) ClearAll() {
	for _, rv := range v.views {
		rv.destroy()
	}
	v.views = nil
}

// Undisplay destroys every region view and every recording box.
func (v *View) Undisplay() {
	v.ClearAll()
	v.clearRecBoxes()
}

func (v *View) FindView(id lanes.RegionID) (*RegionView, bool) {
	for _, rv := range v.views {
		if rv.id == id {
			return rv, true
		}
	}
	return nil, false
}

// NumViews returns the number of region views, including those not yet
// purged.
func (v *View) NumViews() int { return len(v.views) }

func (v *View) NumSelected() int {
	n := 0
	for _, rv := range v.views {
		if rv.selected {
			n++
		}
	}
	return n
}

// ForEach calls fn for every region view, in stacking order after the last
// LayerRegions.
func (v *View) ForEach(fn func(*RegionView)) {
	for _, rv := range slices.Clone(v.views) {
		fn(rv)
	}
}

func (v *View) ForEachSelected(fn func(*RegionView)) {
	for _, rv := range slices.Clone(v.views) {
		if rv.selected {
			fn(rv)
		}
	}
}

// SetSelected selects exactly the views whose region is in sel.
func (v *View) SetSelected(sel Selection) {
	for _, rv := range v.views {
		rv.SetSelected(sel.Contains(rv.id))
	}
}

// Selectables returns the views of the regions overlapping [start, end) in
// time. When regions are stacked, only regions whose layer band intersects
// the vertical range [top, bottom) are returned; top and bottom are in the
// coordinates of the parent of the lane group, so the lane position is
// subtracted first. An empty vertical range is a point. When overlaid, the
// vertical range is ignored.
func (v *View) Selectables(start, end lanes.Frame, top, bottom float64) []*RegionView {
	var ret []*RegionView
	_, y := v.group.Position()
	top, bottom = top-y, bottom-y
	c := v.ChildHeight()
	for _, rv := range v.views {
		r, ok := rv.Region()
		if !ok || r.Coverage(start, end) == lanes.OverlapNone {
			continue
		}
		if v.layerDisplay == lanes.Stacked {
			if !inBand(v.childY(r.Layer()), c, top, bottom) {
				continue
			}
		}
		ret = append(ret, rv)
	}
	return ret
}

// InvertedSelectables returns the views whose region is not in excluded.
func (v *View) InvertedSelectables(excluded Selection) []*RegionView {
	var ret []*RegionView
	for _, rv := range v.views {
		if !excluded.Contains(rv.id) {
			ret = append(ret, rv)
		}
	}
	return ret
}

// inBand reports whether [top, bottom) intersects the band [bandTop,
// bandTop+height).
func inBand(bandTop, height, top, bottom float64) bool {
	if bottom <= top {
		return top >= bandTop && top < bandTop+height
	}
	return bandTop < bottom && bandTop+height > top
}
