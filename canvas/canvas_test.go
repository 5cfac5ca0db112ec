package canvas_test

import (
	"testing"

	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/canvas"
)

func TestZOrder(t *testing.T) {
	root := canvas.New()
	a := root.NewRect()
	b := root.NewRect()
	c := root.NewRect()
	if a.Index() != 0 || b.Index() != 1 || c.Index() != 2 {
		t.Fatalf("new items should be stacked in creation order")
	}
	a.RaiseToTop()
	if a.Index() != 2 || b.Index() != 0 || c.Index() != 1 {
		t.Fatalf("RaiseToTop: got a=%d b=%d c=%d", a.Index(), b.Index(), c.Index())
	}
	b.Raise(1)
	if b.Index() != 1 || c.Index() != 0 {
		t.Fatalf("Raise(1): got b=%d c=%d", b.Index(), c.Index())
	}
	b.Raise(100)
	if b.Index() != 2 {
		t.Fatalf("Raise should stop at the top, got %d", b.Index())
	}
	b.LowerToBottom()
	if b.Index() != 0 {
		t.Fatalf("LowerToBottom: got %d", b.Index())
	}
}

func TestDestroyRemovesSubtree(t *testing.T) {
	root := canvas.New()
	g := root.NewGroup()
	r := g.NewRect()
	g.NewText()
	root.NewRect()
	g.Destroy()
	if root.Len() != 1 {
		t.Fatalf("expected 1 remaining child, got %d", root.Len())
	}
	if !r.(*canvas.Rect).Destroyed() {
		t.Error("child of destroyed group not destroyed")
	}
	g.Destroy()
	r.RaiseToTop()
}

func TestWalkOffsetsAndVisibility(t *testing.T) {
	root := canvas.New()
	root.SetPosition(10, 20)
	g := root.NewGroup()
	g.SetPosition(5, 5)
	r := g.NewRect()
	r.SetBounds(0, 0, 1, 1)
	hidden := root.NewGroup()
	hidden.NewRect()
	hidden.Hide()
	var seen []lanes.CanvasItem
	var rx, ry float64
	root.Walk(func(it lanes.CanvasItem, ox, oy float64) {
		seen = append(seen, it)
		if it == r {
			rx, ry = ox, oy
		}
	})
	if len(seen) != 2 {
		t.Fatalf("expected group and rect to be visited, got %d items", len(seen))
	}
	if rx != 15 || ry != 25 {
		t.Errorf("rect origin should be (15,25), got (%v,%v)", rx, ry)
	}
}
