/*
Package term renders a lanes canvas as colored text, one character cell per
CellWidth x CellHeight pixels. It is meant for dumping the state of lane views
in a terminal or a log, not for interaction.
*/
package term

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/canvas"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	Renderer struct {
		Columns    int
		CellWidth  float64
		CellHeight float64
		Background color.NRGBA
		// Plain disables colors; only the characters are output.
		Plain bool
	}

	Cell struct {
		Rune   rune
		Fg, Bg color.NRGBA
	}

	LegendEntry struct {
		Name  string
		Color color.NRGBA
	}
)

const (
	outlineLeft  = '▏'
	outlineRight = '▕'
	swatch       = "██"
)

var title = cases.Title(language.English)

func NewRenderer(columns int) *Renderer {
	return &Renderer{
		Columns:    columns,
		CellWidth:  8,
		CellHeight: 16,
		Background: color.NRGBA{A: 255},
	}
}

// Grid rasterizes the canvas into rows of cells covering height pixels.
func (r *Renderer) Grid(root *canvas.Group, height float64) [][]Cell {
	rows := max(int(math.Ceil(height/r.CellHeight)), 0)
	grid := make([][]Cell, rows)
	for y := range grid {
		grid[y] = make([]Cell, r.Columns)
		for x := range grid[y] {
			grid[y][x] = Cell{Rune: ' ', Fg: r.Background, Bg: r.Background}
		}
	}
	root.Walk(func(it lanes.CanvasItem, ox, oy float64) {
		switch it := it.(type) {
		case *canvas.Rect:
			r.rect(grid, it, ox, oy)
		case *canvas.Text:
			r.text(grid, it, ox, oy)
		}
	})
	return grid
}

// span returns the cells covered by [a, b) pixels; anything wider than zero
// covers at least one cell.
func span(a, b, size float64, n int) (from, to int) {
	if b < a {
		a, b = b, a
	}
	from = int(math.Floor(a / size))
	to = int(math.Ceil(b / size))
	if to == from && b > a {
		to++
	}
	return max(from, 0), min(to, n)
}

func (r *Renderer) rect(grid [][]Cell, it *canvas.Rect, ox, oy float64) {
	x1, y1, x2, y2 := it.Bounds()
	c1, c2 := span(x1+ox, x2+ox, r.CellWidth, r.Columns)
	r1, r2 := span(y1+oy, y2+oy, r.CellHeight, len(grid))
	fill := it.Fill()
	outline, sides := it.Outline()
	for y := r1; y < r2; y++ {
		for x := c1; x < c2; x++ {
			cell := &grid[y][x]
			if fill.A > 0 {
				cell.Bg = over(fill, cell.Bg)
				cell.Rune = ' '
			}
			if outline.A == 0 {
				continue
			}
			switch {
			case x == c1 && sides&lanes.OutlineLeft != 0:
				cell.Rune, cell.Fg = outlineLeft, outline
			case x == c2-1 && sides&lanes.OutlineRight != 0:
				cell.Rune, cell.Fg = outlineRight, outline
			}
		}
	}
}

func (r *Renderer) text(grid [][]Cell, it *canvas.Text, ox, oy float64) {
	x, y := it.Position()
	row := int(math.Floor((y + oy) / r.CellHeight))
	if row < 0 || row >= len(grid) {
		return
	}
	col := int(math.Floor((x + ox) / r.CellWidth))
	for _, ch := range it.Text() {
		if col >= r.Columns {
			break
		}
		if col >= 0 {
			grid[row][col].Rune = ch
			grid[row][col].Fg = it.Color()
		}
		col++
	}
}

// over composites c over the opaque background bg.
func over(c, bg color.NRGBA) color.NRGBA {
	if c.A == 255 {
		return c
	}
	a := float64(c.A) / 255
	out := toColorful(bg).BlendRgb(toColorful(c), a)
	red, green, blue := out.Clamped().RGB255()
	return color.NRGBA{R: red, G: green, B: blue, A: 255}
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func hex(c color.NRGBA) string {
	return toColorful(c).Hex()
}

func (r *Renderer) style(fg, bg color.NRGBA) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex(fg))).
		Background(lipgloss.Color(hex(bg)))
}

// Render draws the canvas as text, one line per row of cells.
func (r *Renderer) Render(root *canvas.Group, height float64) string {
	grid := r.Grid(root, height)
	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < len(row); {
			end := x + 1
			for end < len(row) && row[end].Fg == row[x].Fg && row[end].Bg == row[x].Bg {
				end++
			}
			var run strings.Builder
			for _, c := range row[x:end] {
				run.WriteRune(c.Rune)
			}
			if r.Plain {
				b.WriteString(run.String())
			} else {
				b.WriteString(r.style(row[x].Fg, row[x].Bg).Render(run.String()))
			}
			x = end
		}
	}
	return b.String()
}

// Legend renders a title followed by a color swatch for every entry.
func (r *Renderer) Legend(heading string, entries ...LegendEntry) string {
	parts := []string{title.String(heading)}
	for _, e := range entries {
		name := title.String(e.Name)
		if r.Plain {
			parts = append(parts, fmt.Sprintf("%s %s", swatch, name))
			continue
		}
		sw := lipgloss.NewStyle().Foreground(lipgloss.Color(hex(e.Color))).Render(swatch)
		parts = append(parts, sw+" "+name)
	}
	return strings.Join(parts, "  ")
}
