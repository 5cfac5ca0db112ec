package streamview

import (
	"image/color"

	"github.com/vsariola/lanes"
)

// ApplyColor sets one of the colors of the lane. RegionColor recolors the
// region views that have no color of their own; StreamBaseColor fills the
// lane background, always opaque.
func (v *View) ApplyColor(c color.NRGBA, target lanes.ColorTarget) {
	switch target {
	case lanes.RegionColor:
		v.regionColor = c
		v.regionColorSet = true
		for _, rv := range v.views {
			rv.SetColor(c)
		}
	case lanes.StreamBaseColor:
		v.streamBaseColor = opaque(c)
		v.background.SetFill(v.streamBaseColor)
	}
	v.ColorChanged.Emit(target)
}

func (v *View) RegionColor() color.NRGBA     { return v.regionColor }
func (v *View) StreamBaseColor() color.NRGBA { return v.streamBaseColor }

// colorsChanged repaints the lane with the colors of the reloaded theme. A
// region color set with ApplyColor is kept.
func (v *View) colorsChanged() {
	if v.closed {
		return
	}
	colors := v.theme.Colors
	v.streamBaseColor = opaque(colors.StreamBase)
	v.background.SetFill(v.streamBaseColor)
	v.background.SetOutline(colors.StreamOutline, lanes.OutlineRight|lanes.OutlineBottom)
	for _, b := range v.recBoxes {
		b.Rect.SetFill(colors.RecordingFill)
		b.Rect.SetOutline(colors.RecordingOutline, lanes.OutlineAll)
	}
	if !v.regionColorSet {
		v.regionColor = colors.Region
	}
	for _, rv := range v.views {
		rv.color = v.regionColor
		rv.redraw()
	}
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 255
	return c
}
