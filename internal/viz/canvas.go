package viz

import (
	"math"
	"strings"

	"github.com/san-kum/ipcsim/internal/geometry"
)

const blank = 0x2800

// dots maps a sub-cell (row, col) to its Braille bit.
var dots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells. Dot coordinates run from (0, 0) at the
// top left to (2*Width-1, 4*Height-1).
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = blank
		}
	}
}

// Set lights the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return
	}
	c.cells[y/4][x/2] |= dots[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return false
	}
	return c.cells[y/4][x/2]&dots[y%4][x%2] != 0
}

// DrawLine draws a Bresenham line between two dots.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	e := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Bounds is the x/z window a side view maps onto the canvas.
type Bounds struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// Fit returns the bounds of points padded by a tenth of their extent, never
// narrower than one unit on either axis.
func Fit(points []geometry.Vector3) Bounds {
	if len(points) == 0 {
		return Bounds{MinX: -1, MaxX: 1, MinZ: -1, MaxZ: 1}
	}
	b := Bounds{MinX: math.Inf(1), MaxX: math.Inf(-1), MinZ: math.Inf(1), MaxZ: math.Inf(-1)}
	for _, p := range points {
		b.MinX, b.MaxX = min(b.MinX, p[0]), max(b.MaxX, p[0])
		b.MinZ, b.MaxZ = min(b.MinZ, p[2]), max(b.MaxZ, p[2])
	}
	pad := func(lo, hi float64) (float64, float64) {
		ext := max(hi-lo, 1)
		mid := (lo + hi) / 2
		return mid - 0.55*ext, mid + 0.55*ext
	}
	b.MinX, b.MaxX = pad(b.MinX, b.MaxX)
	b.MinZ, b.MaxZ = pad(b.MinZ, b.MaxZ)
	return b
}

// Project maps p to a dot, looking along +y with z up.
func (c *Canvas) Project(p geometry.Vector3, b Bounds) (int, int) {
	w, h := float64(2*c.Width-1), float64(4*c.Height-1)
	x := (p[0] - b.MinX) / (b.MaxX - b.MinX) * w
	y := (b.MaxZ - p[2]) / (b.MaxZ - b.MinZ) * h
	return int(math.Round(x)), int(math.Round(y))
}

// Plot lights one dot per finite point.
func (c *Canvas) Plot(points []geometry.Vector3, b Bounds) {
	for _, p := range points {
		if p.IsFinite() {
			c.Set(c.Project(p, b))
		}
	}
}

func (c *Canvas) String() string {
	var sb strings.Builder
	for _, row := range c.cells {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
