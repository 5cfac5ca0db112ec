package streamview

import (
	"fmt"

	"github.com/vsariola/lanes"
)

func checkHeight(h float64) error {
	// written so that NaN is rejected too
	if !(h >= MinHeight && h <= MaxHeight) {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrInvalidHeight, h, MinHeight, MaxHeight)
	}
	return nil
}

func checkScale(spp float64) error {
	if !(spp >= MinSamplesPerUnit) {
		return fmt.Errorf("%w: %v is not at least %v", ErrInvalidScale, spp, MinSamplesPerUnit)
	}
	return nil
}

func (v *View) Height() float64                  { return v.height }
func (v *View) SamplesPerUnit() float64          { return v.samplesPerUnit }
func (v *View) Layers() int                      { return v.layers }
func (v *View) LayerDisplay() lanes.LayerDisplay { return v.layerDisplay }

// ChildHeight is the height of a region view: the whole lane when overlaid,
// one band when stacked.
func (v *View) ChildHeight() float64 {
	if v.layerDisplay == lanes.Stacked {
		return v.height / float64(v.layers)
	}
	return v.height
}

// childY is the vertical offset of a region view on the given layer.
func (v *View) childY(l lanes.Layer) float64 {
	switch v.layerDisplay {
	case lanes.Stacked:
		return v.height - float64(l+1)*v.ChildHeight()
	default:
		return 0
	}
}

// SetPosition moves the lane within its parent group.
func (v *View) SetPosition(x, y float64) {
	v.group.SetPosition(x, y)
}

// SetHeight changes the height of the lane. Heights outside [MinHeight,
// MaxHeight] are rejected with ErrInvalidHeight and leave the view unchanged.
// HeightChanged is emitted if the height changed.
func (v *View) SetHeight(h float64) error {
	if err := checkHeight(h); err != nil {
		v.log.WithError(err).Warn("lane height rejected")
		return err
	}
	if v.height == h {
		return nil
	}
	v.height = h
	x1, y1, x2, _ := v.background.Bounds()
	v.background.SetBounds(x1, y1, x2, h)
	v.updateContentsHeight()
	v.HeightChanged.Emit(h)
	return nil
}

// SetSamplesPerUnit changes the zoom level of the lane. Values below
// MinSamplesPerUnit are rejected with ErrInvalidScale.
func (v *View) SetSamplesPerUnit(spp float64) error {
	if err := checkScale(spp); err != nil {
		v.log.WithError(err).Warn("zoom level rejected")
		return err
	}
	v.samplesPerUnit = spp
	for _, rv := range v.views {
		rv.SetSamplesPerUnit(spp)
	}
	v.reprojectRecBoxes()
	v.UpdateCoverageFrames()
	return nil
}

// SetLayerDisplay switches between overlaid and stacked regions. When
// stacked, the playlist is told that layers are set explicitly.
func (v *View) SetLayerDisplay(d lanes.LayerDisplay) {
	v.layerDisplay = d
	v.updateContentsHeight()
	v.UpdateCoverageFrames()
	if v.playlist != nil {
		v.playlist.SetExplicitRelayering(d == lanes.Stacked)
	}
	if d == lanes.Stacked {
		v.LayerRegions()
	}
}

// updateContentsHeight places every region view according to its layer and
// stretches the recording boxes to the lane height.
func (v *View) updateContentsHeight() {
	h := v.ChildHeight()
	for _, rv := range v.views {
		var y float64
		if r, ok := rv.Region(); ok {
			y = v.childY(r.Layer())
		}
		rv.y, rv.height = y, h
		rv.redraw()
	}
	for _, b := range v.recBoxes {
		x1, y1, x2, _ := b.Rect.Bounds()
		b.Rect.SetBounds(x1, y1, x2, v.height-1)
	}
}

// UpdateCoverageFrames redraws the coverage frames of every region view.
func (v *View) UpdateCoverageFrames() {
	for _, rv := range v.views {
		rv.UpdateCoverageFrames(v.layerDisplay)
	}
}
