/*
Package canvas is a retained-mode canvas implementing the canvas contracts of
package lanes.

The canvas is a tree: a Group has an ordered list of children which are painted
first to last, so the last child is on top. Renderers (see packages
canvas/gioui and canvas/term) walk the tree with Walk and paint what they find.
The canvas itself is not safe for concurrent use: like all view state, it is
owned by the UI goroutine.
*/
package canvas

import (
	"image/color"
	"slices"

	"github.com/vsariola/lanes"
)

type (
	// Group is a positioned container of other items.
	Group struct {
		item
		x, y     float64
		children []node
	}

	Rect struct {
		item
		x1, y1, x2, y2 float64
		fill           color.NRGBA
		outline        color.NRGBA
		sides          lanes.OutlineSides
	}

	Text struct {
		item
		x, y  float64
		text  string
		color color.NRGBA
	}

	node interface {
		lanes.CanvasItem
		base() *item
	}

	item struct {
		parent *Group
		self   node
		hidden bool
		dead   bool
	}
)

// New returns the root group of a new canvas.
func New() *Group {
	g := &Group{}
	g.self = g
	return g
}

func (i *item) base() *item { return i }

func (i *item) Show()         { i.hidden = false }
func (i *item) Hide()         { i.hidden = true }
func (i *item) Visible() bool { return !i.hidden }

// Destroyed reports whether the item has been removed from the canvas.
func (i *item) Destroyed() bool { return i.dead }

func (i *item) Index() int {
	if i.parent == nil {
		return 0
	}
	return slices.Index(i.parent.children, i.self)
}

func (i *item) Raise(positions int) {
	if i.parent == nil || positions <= 0 {
		return
	}
	i.parent.move(i.self, i.Index()+positions)
}

func (i *item) RaiseToTop() {
	if i.parent == nil {
		return
	}
	i.parent.move(i.self, len(i.parent.children)-1)
}

func (i *item) LowerToBottom() {
	if i.parent == nil {
		return
	}
	i.parent.move(i.self, 0)
}

func (i *item) Destroy() {
	if i.dead {
		return
	}
	i.dead = true
	if g, ok := i.self.(*Group); ok {
		for _, c := range g.children {
			c.base().parent = nil
			c.Destroy()
		}
		g.children = nil
	}
	if i.parent != nil {
		i.parent.remove(i.self)
		i.parent = nil
	}
}

func (g *Group) move(n node, to int) {
	from := slices.Index(g.children, n)
	if from < 0 {
		return
	}
	to = max(0, min(to, len(g.children)-1))
	if from == to {
		return
	}
	g.children = slices.Delete(g.children, from, from+1)
	g.children = slices.Insert(g.children, to, n)
}

func (g *Group) remove(n node) {
	if i := slices.Index(g.children, n); i >= 0 {
		g.children = slices.Delete(g.children, i, i+1)
	}
}

func (g *Group) add(n node) {
	n.base().parent = g
	n.base().self = n
	g.children = append(g.children, n)
}

func (g *Group) SetPosition(x, y float64) { g.x, g.y = x, y }
func (g *Group) Position() (x, y float64) { return g.x, g.y }

// NewGroup adds a new empty group on top of the children of g.
func (g *Group) NewGroup() lanes.CanvasGroup {
	c := &Group{}
	g.add(c)
	return c
}

// NewRect adds a new rect on top of the children of g.
func (g *Group) NewRect() lanes.CanvasRect {
	r := &Rect{}
	g.add(r)
	return r
}

// NewText adds a new text item on top of the children of g.
func (g *Group) NewText() lanes.CanvasText {
	t := &Text{}
	g.add(t)
	return t
}

// Children returns the children of g, bottom-most first.
func (g *Group) Children() []lanes.CanvasItem {
	ret := make([]lanes.CanvasItem, len(g.children))
	for i, c := range g.children {
		ret[i] = c
	}
	return ret
}

func (g *Group) Len() int { return len(g.children) }

// Walk calls fn for every visible item below g in paint order (bottom-most
// first, parents before their children). ox and oy are the absolute
// coordinates of the origin of the parent group of the item.
func (g *Group) Walk(fn func(it lanes.CanvasItem, ox, oy float64)) {
	g.walk(0, 0, fn)
}

func (g *Group) walk(ox, oy float64, fn func(it lanes.CanvasItem, ox, oy float64)) {
	gx, gy := ox+g.x, oy+g.y
	for _, c := range g.children {
		if c.base().hidden {
			continue
		}
		fn(c, gx, gy)
		if cg, ok := c.(*Group); ok {
			cg.walk(gx, gy, fn)
		}
	}
}

func (r *Rect) SetBounds(x1, y1, x2, y2 float64) {
	r.x1, r.y1, r.x2, r.y2 = x1, y1, x2, y2
}

func (r *Rect) Bounds() (x1, y1, x2, y2 float64) {
	return r.x1, r.y1, r.x2, r.y2
}

func (r *Rect) SetFill(c color.NRGBA) { r.fill = c }
func (r *Rect) Fill() color.NRGBA     { return r.fill }

func (r *Rect) SetOutline(c color.NRGBA, sides lanes.OutlineSides) {
	r.outline, r.sides = c, sides
}

func (r *Rect) Outline() (color.NRGBA, lanes.OutlineSides) {
	return r.outline, r.sides
}

func (t *Text) SetText(s string)         { t.text = s }
func (t *Text) Text() string             { return t.text }
func (t *Text) SetPosition(x, y float64) { t.x, t.y = x, y }
func (t *Text) Position() (x, y float64) { return t.x, t.y }
func (t *Text) SetColor(c color.NRGBA)   { t.color = c }
func (t *Text) Color() color.NRGBA       { return t.color }

var (
	_ lanes.CanvasGroup = (*Group)(nil)
	_ lanes.CanvasRect  = (*Rect)(nil)
	_ lanes.CanvasText  = (*Text)(nil)
)
