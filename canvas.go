package lanes

import "image/color"

// Canvas contracts. A lane view draws into a retained canvas: a tree of groups
// whose children are painted in order, so the last child is on top. All
// coordinates are in pixels relative to the parent group.
type (
	CanvasItem interface {
		Show()
		Hide()
		Visible() bool
		// Raise moves the item up by the given number of positions among its
		// siblings, stopping at the top.
		Raise(positions int)
		RaiseToTop()
		LowerToBottom()
		// Index is the position of the item among its siblings, 0 being the
		// bottom-most.
		Index() int
		// Destroy removes the item (and its children) from the canvas.
		Destroy()
	}

	CanvasGroup interface {
		CanvasItem
		SetPosition(x, y float64)
		Position() (x, y float64)
		NewGroup() CanvasGroup
		NewRect() CanvasRect
		NewText() CanvasText
	}

	CanvasRect interface {
		CanvasItem
		SetBounds(x1, y1, x2, y2 float64)
		Bounds() (x1, y1, x2, y2 float64)
		SetFill(c color.NRGBA)
		Fill() color.NRGBA
		SetOutline(c color.NRGBA, sides OutlineSides)
	}

	CanvasText interface {
		CanvasItem
		SetText(s string)
		Text() string
		SetPosition(x, y float64)
		SetColor(c color.NRGBA)
	}

	// OutlineSides selects the sides of a rect that get an outline.
	OutlineSides uint8
)

const (
	OutlineLeft OutlineSides = 1 << iota
	OutlineRight
	OutlineTop
	OutlineBottom

	OutlineNone OutlineSides = 0
	OutlineAll               = OutlineLeft | OutlineRight | OutlineTop | OutlineBottom
)
