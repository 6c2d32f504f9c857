package viz

import (
	"strings"
)

// Braille patterns pack 2x4 dots per character cell:
// 1 4
// 2 5
// 3 6
// 7 8
// Unicode offset 0x2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille pixel canvas addressed in world coordinates. A canvas
// of w by h character cells has 2w by 4h dots; Mark and Segment map the
// world window onto that dot grid, y increasing upward.
type Canvas struct {
	width, height          int
	xmin, xmax, ymin, ymax float64
	grid                   [][]rune
}

func NewCanvas(w, h int, xmin, xmax, ymin, ymax float64) *Canvas {
	c := &Canvas{
		width: w, height: h,
		xmin: xmin, xmax: xmax, ymin: ymin, ymax: ymax,
		grid: make([][]rune, h),
	}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
}

func (c *Canvas) project(x, y float64) (int, int) {
	px := int((x - c.xmin) / (c.xmax - c.xmin) * float64(c.width*2))
	py := int((c.ymax - y) / (c.ymax - c.ymin) * float64(c.height*4))
	return px, py
}

// Mark sets the dot nearest to the world point (x, y). Points outside the
// window are dropped.
func (c *Canvas) Mark(x, y float64) {
	c.set(c.project(x, y))
}

// Segment draws a straight line between two world points.
func (c *Canvas) Segment(x0, y0, x1, y1 float64) {
	px0, py0 := c.project(x0, y0)
	px1, py1 := c.project(x1, y1)
	c.line(px0, py0, px1, py1)
}

func (c *Canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.width || row >= c.height {
		return
	}
	c.grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// line is Bresenham on the dot grid.
func (c *Canvas) line(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
