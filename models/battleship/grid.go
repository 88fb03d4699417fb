package battleship

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	cerr "github.com/saeidalz13/battleship-bot/internal/error"
)

type AttackResult struct {
	Hit       bool
	Destroyed bool
	ShipID    int
}

// Grid is one side's board. It is not safe for concurrent use.
type Grid struct {
	rules *Rules
	cells [][]byte
}

// Creates a new grid
// All cells are CellEmpty
func NewGrid(rules *Rules) *Grid {
	cells := make([][]byte, rules.Rows())
	for i := range cells {
		cells[i] = make([]byte, rules.Cols())
	}

	g := &Grid{rules: rules, cells: cells}
	g.Reset()
	return g
}

func (g *Grid) Rules() *Rules {
	return g.rules
}

func (g *Grid) Reset() {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c] = CellEmpty
		}
	}
}

func (g *Grid) Cell(p Point) (byte, error) {
	if !g.rules.IsValid(p) {
		return 0, cerr.ErrXorYOutOfGridBound(p.R, p.C)
	}
	return g.cells[p.R][p.C], nil
}

func (g *Grid) hasSymbol(symbol byte) bool {
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c] == symbol {
				return true
			}
		}
	}
	return false
}

// checkRun validates everything shared by placement and removal.
func (g *Grid) checkRun(anchor Point, shipId int, dir Direction) error {
	if !g.rules.IsValidShipID(shipId) {
		return cerr.ErrInvalidShipID
	}
	if !dir.isValid() {
		return cerr.ErrInvalidDirection
	}
	if !g.rules.IsValid(anchor) {
		return cerr.ErrOutOfBounds
	}
	if !g.rules.IsValid(dir.cell(anchor, g.rules.ShipLength(shipId)-1)) {
		return cerr.ErrOutOfBounds
	}
	return nil
}

// PlaceShip writes the ship onto every cell of its run or changes nothing.
func (g *Grid) PlaceShip(anchor Point, shipId int, dir Direction) error {
	if err := g.checkRun(anchor, shipId, dir); err != nil {
		return err
	}

	length := g.rules.ShipLength(shipId)
	for i := 0; i < length; i++ {
		p := dir.cell(anchor, i)
		if g.cells[p.R][p.C] != CellEmpty {
			return cerr.ErrCellOccupied
		}
	}

	symbol := g.rules.ShipSymbol(shipId)
	if g.hasSymbol(symbol) {
		return cerr.ErrShipAlreadyPlaced
	}

	for i := 0; i < length; i++ {
		p := dir.cell(anchor, i)
		g.cells[p.R][p.C] = symbol
	}
	return nil
}

// RemoveShip is the inverse of PlaceShip. Every cell of the run must
// still carry the ship's symbol.
func (g *Grid) RemoveShip(anchor Point, shipId int, dir Direction) error {
	if err := g.checkRun(anchor, shipId, dir); err != nil {
		return err
	}

	length := g.rules.ShipLength(shipId)
	symbol := g.rules.ShipSymbol(shipId)
	for i := 0; i < length; i++ {
		p := dir.cell(anchor, i)
		if g.cells[p.R][p.C] != symbol {
			return cerr.ErrShipNotAtLocation
		}
	}

	for i := 0; i < length; i++ {
		p := dir.cell(anchor, i)
		g.cells[p.R][p.C] = CellEmpty
	}
	return nil
}

func (g *Grid) Attack(p Point) (AttackResult, error) {
	if !g.rules.IsValid(p) {
		return AttackResult{}, cerr.ErrXorYOutOfGridBound(p.R, p.C)
	}

	switch cell := g.cells[p.R][p.C]; cell {
	case CellHit, CellMiss:
		return AttackResult{}, cerr.ErrAttackPositionAlreadyFilled(p.R, p.C)
	case CellBlocked:
		return AttackResult{}, cerr.ErrCellBlocked
	case CellEmpty:
		g.cells[p.R][p.C] = CellMiss
		return AttackResult{}, nil
	default:
		shipId := g.rules.ShipIDBySymbol(cell)
		if shipId < 0 {
			return AttackResult{}, cerr.ErrUnknownShipSymbol
		}

		g.cells[p.R][p.C] = CellHit
		return AttackResult{
			Hit:       true,
			Destroyed: !g.hasSymbol(cell),
			ShipID:    shipId,
		}, nil
	}
}

func isShipCell(cell byte) bool {
	return cell != CellEmpty && cell != CellBlocked && cell != CellHit && cell != CellMiss
}

// AllDestroyed reports whether no unhit ship cell remains.
func (g *Grid) AllDestroyed() bool {
	for r := range g.cells {
		for c := range g.cells[r] {
			if isShipCell(g.cells[r][c]) {
				return false
			}
		}
	}
	return true
}

// Render returns the header line followed by one line per row. With
// shotsOnly, ship cells are rendered as empty.
func (g *Grid) Render(shotsOnly bool) []string {
	lines := make([]string, 0, len(g.cells)+1)

	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < g.rules.Cols(); c++ {
		sb.WriteString(strconv.Itoa(c))
	}
	lines = append(lines, sb.String())

	for r := range g.cells {
		sb.Reset()
		sb.WriteString(strconv.Itoa(r))
		sb.WriteByte(' ')
		for _, cell := range g.cells[r] {
			switch {
			case cell == CellBlocked:
				sb.WriteByte(BlockedSymbol)
			case shotsOnly && isShipCell(cell):
				sb.WriteByte(CellEmpty)
			default:
				sb.WriteByte(cell)
			}
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func (g *Grid) Display(w io.Writer, shotsOnly bool) error {
	bw := bufio.NewWriter(w)
	for _, line := range g.Render(shotsOnly) {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (g *Grid) String() string {
	return strings.Join(g.Render(false), "\n")
}
