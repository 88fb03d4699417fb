package battleship

import "github.com/saeidalz13/battleship-bot/internal/random"

// Mask marks cells a placement search must avoid.
type Mask struct {
	rows    int
	cols    int
	blocked []bool
}

func NewMask(rows, cols int) *Mask {
	return &Mask{
		rows:    rows,
		cols:    cols,
		blocked: make([]bool, rows*cols),
	}
}

func (m *Mask) inBounds(p Point) bool {
	return p.R >= 0 && p.R < m.rows && p.C >= 0 && p.C < m.cols
}

func (m *Mask) Block(p Point) {
	if m.inBounds(p) {
		m.blocked[p.R*m.cols+p.C] = true
	}
}

func (m *Mask) IsBlocked(p Point) bool {
	return m.inBounds(p) && m.blocked[p.R*m.cols+p.C]
}

func (m *Mask) Count() int {
	n := 0
	for _, b := range m.blocked {
		if b {
			n++
		}
	}
	return n
}

// RandomMask blocks each cell with probability 1/2.
func (g *Grid) RandomMask(rnd random.Random) *Mask {
	m := NewMask(g.rules.Rows(), g.rules.Cols())
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if rnd.Intn(2) == 0 {
				m.Block(Point{R: r, C: c})
			}
		}
	}
	return m
}

// SetBlocked blocks the masked cells that are currently empty. Ship,
// hit and miss cells are left alone.
func (g *Grid) SetBlocked(m *Mask) {
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c] == CellEmpty && m.IsBlocked(Point{R: r, C: c}) {
				g.cells[r][c] = CellBlocked
			}
		}
	}
}

func (g *Grid) ClearBlocked() {
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c] == CellBlocked {
				g.cells[r][c] = CellEmpty
			}
		}
	}
}

// WithMask runs fn with the mask applied. The grid holds no blocked cell
// once WithMask returns, even if fn panics.
func (g *Grid) WithMask(m *Mask, fn func() bool) bool {
	g.SetBlocked(m)
	defer g.ClearBlocked()
	return fn()
}
