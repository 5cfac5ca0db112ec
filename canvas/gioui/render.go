// Package gioui paints a lanes canvas with gioui and runs the window in which
// it is shown.
package gioui

import (
	"image"
	"math"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/x/stroke"
	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/canvas"
)

type (
	C = layout.Context
	D = layout.Dimensions

	// Renderer paints the items of a canvas tree in order, so that later
	// items cover earlier ones.
	Renderer struct {
		Shaper       *text.Shaper
		Font         font.Font
		FontSize     unit.Sp
		OutlineWidth float32
	}
)

func NewRenderer() *Renderer {
	return &Renderer{
		Shaper:       text.NewShaper(text.WithCollection(gofont.Collection())),
		FontSize:     unit.Sp(12),
		OutlineWidth: 1,
	}
}

// Layout paints root and returns the whole available area as its size.
func (r *Renderer) Layout(gtx C, root *canvas.Group) D {
	root.Walk(func(it lanes.CanvasItem, ox, oy float64) {
		switch it := it.(type) {
		case *canvas.Rect:
			r.paintRect(gtx, it, ox, oy)
		case *canvas.Text:
			r.paintText(gtx, it, ox, oy)
		}
	})
	return D{Size: gtx.Constraints.Max}
}

func (r *Renderer) paintRect(gtx C, it *canvas.Rect, ox, oy float64) {
	x1, y1, x2, y2 := it.Bounds()
	x1, x2 = min(x1, x2)+ox, max(x1, x2)+ox
	y1, y2 = min(y1, y2)+oy, max(y1, y2)+oy
	if fill := it.Fill(); fill.A > 0 {
		rect := image.Rect(round(x1), round(y1), round(x2), round(y2))
		paint.FillShape(gtx.Ops, fill, clip.Rect(rect).Op())
	}
	c, sides := it.Outline()
	if c.A == 0 || sides == lanes.OutlineNone {
		return
	}
	p1, p2 := f32.Pt(float32(x1), float32(y1)), f32.Pt(float32(x2), float32(y2))
	lines := []struct {
		side     lanes.OutlineSides
		from, to f32.Point
	}{
		{lanes.OutlineLeft, p1, f32.Pt(p1.X, p2.Y)},
		{lanes.OutlineRight, f32.Pt(p2.X, p1.Y), p2},
		{lanes.OutlineTop, p1, f32.Pt(p2.X, p1.Y)},
		{lanes.OutlineBottom, f32.Pt(p1.X, p2.Y), p2},
	}
	var segments []stroke.Segment
	for _, l := range lines {
		if sides&l.side != 0 {
			segments = append(segments, stroke.MoveTo(l.from), stroke.LineTo(l.to))
		}
	}
	s := stroke.Stroke{
		Path:  stroke.Path{Segments: segments},
		Width: r.OutlineWidth,
		Cap:   stroke.FlatCap,
	}
	paint.FillShape(gtx.Ops, c, s.Op(gtx.Ops))
}

func (r *Renderer) paintText(gtx C, it *canvas.Text, ox, oy float64) {
	x, y := it.Position()
	defer op.Offset(image.Pt(round(x+ox), round(y+oy))).Push(gtx.Ops).Pop()
	gtx.Constraints.Min = image.Point{}
	paint.ColorOp{Color: it.Color()}.Add(gtx.Ops)
	widget.Label{
		Alignment: text.Start,
		MaxLines:  1,
	}.Layout(gtx, r.Shaper, r.Font, r.FontSize, it.Text(), op.CallOp{})
}

func round(v float64) int { return int(math.Round(v)) }
