package ui

import (
	"math"
	"strings"

	"github.com/kazzyman/groktune/internal/trace"
)

// Braille dot positions (col, row) -> bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// dotGrid is a bitmap with 2x4 dots per terminal cell.
type dotGrid struct {
	cols, rows int
	cells      []uint8
}

func newDotGrid(cols, rows int) *dotGrid {
	return &dotGrid{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

func (g *dotGrid) set(x, y int) {
	if x < 0 || y < 0 || x >= g.cols*2 || y >= g.rows*4 {
		return
	}
	g.cells[(y/4)*g.cols+x/2] |= 1 << brailleBits[x%2][y%4]
}

// line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm.
func (g *dotGrid) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		g.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		if e2 := 2 * e; e2 >= dy {
			e += dy
			x0 += sx
		} else {
			e += dx
			y0 += sy
		}
	}
}

func (g *dotGrid) String() string {
	var sb strings.Builder
	for r := range g.rows {
		for c := range g.cols {
			sb.WriteRune(rune(0x2800 + int(g.cells[r*g.cols+c])))
		}
		if r < g.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// renderTrace draws pts, given in canvas units of width x height, as a
// polyline onto a cols x rows block of braille cells.
func renderTrace(pts []trace.Point, width, height float64, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}
	g := newDotGrid(cols, rows)
	dotsX, dotsY := float64(cols*2-1), float64(rows*4-1)
	px, py := -1, -1
	for i, p := range pts {
		x := int(math.Round(p.X / width * dotsX))
		y := int(math.Round(p.Y / height * dotsY))
		if i == 0 {
			g.set(x, y)
		} else {
			g.line(px, py, x, y)
		}
		px, py = x, y
	}
	return g.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
