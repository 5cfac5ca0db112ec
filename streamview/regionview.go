package streamview

import (
	"image/color"
	"slices"

	"github.com/viterin/vek"
	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/config"
)

type (
	// RegionView is the on-canvas representation of one region of the
	// playlist shown in a lane. It refers to its region only by ID; Region
	// resolves it through the playlist.
	RegionView struct {
		id       lanes.RegionID
		playlist lanes.Playlist
		theme    *config.Theme

		group  lanes.CanvasGroup
		body   lanes.CanvasRect
		label  lanes.CanvasText
		frames []lanes.CanvasRect
		cover  []CoverageFrame

		color    color.NRGBA
		override *color.NRGBA

		// last known extent of the region, kept for when it no longer resolves
		position, length lanes.Frame

		samplesPerUnit float64
		y, height      float64
		selected       bool
		valid          bool
		displayed      bool
	}

	// CoverageFrame is a stretch of a region, relative to the region start,
	// where the region is either heard (OnTop) or covered by a region on a
	// higher layer.
	CoverageFrame struct {
		Start, End lanes.Frame
		OnTop      bool
	}
)

const labelMargin = 3

func newRegionView(parent lanes.CanvasGroup, pl lanes.Playlist, r lanes.Region, theme *config.Theme, c color.NRGBA, spp, height float64) *RegionView {
	v := &RegionView{
		id:             r.ID(),
		playlist:       pl,
		theme:          theme,
		color:          c,
		samplesPerUnit: spp,
		height:         height,
		valid:          true,
		displayed:      true,
		position:       r.Position(),
		length:         r.Length(),
	}
	v.group = parent.NewGroup()
	v.body = v.group.NewRect()
	v.label = v.group.NewText()
	v.redraw()
	return v
}

func (v *RegionView) ID() lanes.RegionID { return v.id }

// Region resolves the region shown by the view. ok is false if the region is
// no longer on the playlist.
func (v *RegionView) Region() (r lanes.Region, ok bool) {
	if v.playlist == nil {
		return nil, false
	}
	return v.playlist.Region(v.id)
}

// Valid reports whether the view still shows a region of the playlist. Views
// that are not valid are purged on the next LayerRegions.
func (v *RegionView) Valid() bool {
	if !v.valid {
		return false
	}
	_, ok := v.Region()
	return ok
}

// Invalidate marks the view as garbage.
func (v *RegionView) Invalidate() { v.valid = false }

func (v *RegionView) Group() lanes.CanvasGroup { return v.group }
func (v *RegionView) Selected() bool           { return v.selected }
func (v *RegionView) Y() float64               { return v.y }
func (v *RegionView) Height() float64          { return v.height }
func (v *RegionView) Displayed() bool          { return v.displayed }
func (v *RegionView) SamplesPerUnit() float64  { return v.samplesPerUnit }

func (v *RegionView) SetSelected(selected bool) {
	if v.selected == selected {
		return
	}
	v.selected = selected
	v.paint()
}

func (v *RegionView) SetY(y float64) {
	v.y = y
	v.redraw()
}

func (v *RegionView) SetHeight(h float64) {
	v.height = h
	v.redraw()
}

func (v *RegionView) SetSamplesPerUnit(spp float64) {
	v.samplesPerUnit = spp
	v.redraw()
}

// SetColor sets the default color of the view. It has no visible effect while
// an override color is set.
func (v *RegionView) SetColor(c color.NRGBA) {
	v.color = c
	v.paint()
}

// SetOverrideColor gives the view a color of its own that the lane's region
// color does not replace.
func (v *RegionView) SetOverrideColor(c color.NRGBA) {
	v.override = &c
	v.paint()
}

func (v *RegionView) ClearOverrideColor() {
	v.override = nil
	v.paint()
}

// Color returns the color the body is painted with when not selected.
func (v *RegionView) Color() color.NRGBA {
	if v.override != nil {
		return *v.override
	}
	return v.color
}

func (v *RegionView) HasOverrideColor() bool { return v.override != nil }

func (v *RegionView) EnableDisplay(enable bool) {
	v.displayed = enable
	if enable {
		v.group.Show()
	} else {
		v.group.Hide()
	}
}

// Refresh rereads the extent and name of the region.
func (v *RegionView) Refresh() { v.redraw() }

// Pixels returns the horizontal extent of the view in the lane.
func (v *RegionView) Pixels() (x1, x2 float64) {
	x1 = lanes.FrameToPixel(v.position, v.samplesPerUnit)
	return x1, x1 + lanes.FrameToPixel(v.length, v.samplesPerUnit)
}

func (v *RegionView) redraw() {
	if r, ok := v.Region(); ok {
		v.position, v.length = r.Position(), r.Length()
		v.label.SetText(v.labelText(r))
	}
	x1, x2 := v.Pixels()
	v.group.SetPosition(x1, v.y)
	v.body.SetBounds(0, 0, x2-x1, v.height)
	v.label.SetPosition(labelMargin, labelMargin)
	v.placeFrames()
	v.paint()
}

func (v *RegionView) labelText(r lanes.Region) string {
	if v.theme == nil {
		return r.Name()
	}
	return v.theme.RegionLabel(r)
}

func (v *RegionView) paint() {
	c := v.Color()
	outline, sides := c, lanes.OutlineNone
	if v.theme != nil {
		v.label.SetColor(v.theme.Colors.Label)
		outline, sides = v.theme.Colors.StreamOutline, lanes.OutlineAll
		if v.selected {
			outline = v.theme.Colors.SelectedRegion
		}
	}
	if v.selected {
		c = config.Lighten(c, 0.35)
	}
	v.body.SetFill(c)
	v.body.SetOutline(outline, sides)
	frameColor := color.NRGBA{A: 0x60}
	if v.theme != nil {
		frameColor = v.theme.Colors.CoverageFrame
	}
	for i, f := range v.frames {
		fc := frameColor
		if v.cover[i].OnTop {
			fc.A /= 2
		}
		f.SetFill(fc)
	}
}

// CoverageFrames returns the stretches of the region computed by the last
// UpdateCoverageFrames. It is empty unless regions are displayed stacked.
func (v *RegionView) CoverageFrames() []CoverageFrame {
	return slices.Clone(v.cover)
}

// UpdateCoverageFrames splits the region at the boundaries of the other
// regions of the playlist and draws a frame over each stretch, darker where
// the region is covered by a region on a higher layer. Frames are only shown
// when regions are stacked; otherwise the old ones are removed.
func (v *RegionView) UpdateCoverageFrames(d lanes.LayerDisplay) {
	for _, f := range v.frames {
		f.Destroy()
	}
	v.frames, v.cover = v.frames[:0], v.cover[:0]
	if d != lanes.Stacked {
		return
	}
	me, ok := v.Region()
	if !ok {
		return
	}
	pos, end := me.Position(), me.Position()+me.Length()
	others := slices.DeleteFunc(v.playlist.Regions(), func(o lanes.Region) bool {
		return o.ID() == me.ID() || o.Coverage(pos, end) == lanes.OverlapNone
	})
	cuts := []lanes.Frame{pos, end}
	for _, o := range others {
		for _, b := range []lanes.Frame{o.Position(), o.Position() + o.Length()} {
			if b > pos && b < end {
				cuts = append(cuts, b)
			}
		}
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)
	for i := 0; i+1 < len(cuts); i++ {
		onTop := true
		for _, o := range others {
			if o.Layer() > me.Layer() && o.Coverage(cuts[i], cuts[i]) != lanes.OverlapNone {
				onTop = false
				break
			}
		}
		if n := len(v.cover); n > 0 && v.cover[n-1].OnTop == onTop {
			v.cover[n-1].End = cuts[i+1] - pos
			continue
		}
		v.cover = append(v.cover, CoverageFrame{Start: cuts[i] - pos, End: cuts[i+1] - pos, OnTop: onTop})
	}
	for range v.cover {
		v.frames = append(v.frames, v.group.NewRect())
	}
	v.label.RaiseToTop()
	v.placeFrames()
	v.paint()
}

func (v *RegionView) placeFrames() {
	if len(v.frames) == 0 {
		return
	}
	xs := make([]float64, 0, 2*len(v.cover))
	for _, c := range v.cover {
		xs = append(xs, float64(c.Start), float64(c.End))
	}
	vek.DivNumber_Inplace(xs, v.samplesPerUnit)
	for i, f := range v.frames {
		f.SetBounds(xs[2*i], 1, xs[2*i+1], v.height+1)
		f.SetOutline(color.NRGBA{}, lanes.OutlineNone)
	}
}

func (v *RegionView) destroy() {
	v.group.Destroy()
	v.frames, v.cover = nil, nil
	v.valid = false
}
