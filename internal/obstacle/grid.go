package obstacle

// Grid is a raster obstacle map of width × height cells
type Grid struct {
	width  int
	height int
	cells  []bool
}

// NewGrid creates an empty grid
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}
}

// Width in cells
func (g *Grid) Width() int { return g.width }

// Height in cells
func (g *Grid) Height() int { return g.height }

func (g *Grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Blocked implements Field. Cells outside the grid are free.
func (g *Grid) Blocked(x, y int) bool {
	if !g.inside(x, y) {
		return false
	}
	return g.cells[y*g.width+x]
}

// Set marks or clears a cell. Out-of-grid cells are ignored.
func (g *Grid) Set(x, y int, blocked bool) {
	if !g.inside(x, y) {
		return
	}
	g.cells[y*g.width+x] = blocked
}

// FillRect blocks every cell with x0 <= x < x1 and y0 <= y < y1
func (g *Grid) FillRect(x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			g.Set(x, y, true)
		}
	}
}

// FillCircle blocks every cell within radius r of (cx, cy), the brush the
// map editor paints with
func (g *Grid) FillCircle(cx, cy, r int) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				g.Set(x, y, true)
			}
		}
	}
}

// Count returns the number of blocked cells
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}
