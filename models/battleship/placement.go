package battleship

import (
	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	"github.com/saeidalz13/battleship-bot/internal/random"
)

// PlacementAttempts is the number of random masks tried before a fleet
// placement is given up.
const PlacementAttempts = 50

type placement struct {
	anchor Point
	dir    Direction
}

// candidate maps a scan index onto (row, col, direction). Cells are
// scanned row by row and VERTICAL is tried before HORIZONTAL.
func candidate(i, cols int) placement {
	cell := i / 2
	dir := DirectionVertical
	if i%2 == 1 {
		dir = DirectionHorizontal
	}
	return placement{anchor: Point{R: cell / cols, C: cell % cols}, dir: dir}
}

// PlaceFleet places every ship of the rules, in order, using exhaustive
// backtracking. On failure the grid is left as it was found.
func PlaceFleet(g *Grid) bool {
	n := g.rules.NShips()
	if n == 0 {
		return true
	}

	limit := g.rules.Rows() * g.rules.Cols() * 2
	placed := make([]placement, n)
	next := make([]int, n)

	shipId := 0
	for shipId >= 0 {
		if shipId == n {
			return true
		}

		found := false
		for next[shipId] < limit {
			pl := candidate(next[shipId], g.rules.Cols())
			next[shipId]++

			if g.PlaceShip(pl.anchor, shipId, pl.dir) == nil {
				placed[shipId] = pl
				found = true
				break
			}
		}

		if found {
			shipId++
			if shipId < n {
				next[shipId] = 0
			}
			continue
		}

		shipId--
		if shipId >= 0 {
			_ = g.RemoveShip(placed[shipId].anchor, shipId, placed[shipId].dir)
		}
	}

	return false
}

// PlaceRandomFleet retries PlaceFleet under a fresh random mask up to
// attempts times.
func PlaceRandomFleet(g *Grid, rnd random.Random, attempts int) error {
	for i := 0; i < attempts; i++ {
		mask := g.RandomMask(rnd)
		if g.WithMask(mask, func() bool { return PlaceFleet(g) }) {
			return nil
		}
	}
	return cerr.ErrPlacementExhausted
}
