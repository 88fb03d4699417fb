package player

import (
	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	"github.com/saeidalz13/battleship-bot/internal/random"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
)

type Mode uint8

const (
	ModeSearch Mode = iota
	ModeTarget
)

func (m Mode) String() string {
	if m == ModeTarget {
		return "target"
	}
	return "search"
}

// GoodPlayer picks the cell most likely to hold a ship given every
// remaining ship shape, and walks along a hit run once it finds one.
//
// The shadow grid never holds ships: every attacked point is recorded on
// it as a miss so trial placements skip it.
type GoodPlayer struct {
	name    string
	rules   *mb.Rules
	rnd     random.Random
	shadow  *mb.Grid
	history *shotHistory
	alive   []bool
	queue   []mb.Point
	hint    mb.Compass
	mode    Mode
	density [][]int
}

var _ Player = (*GoodPlayer)(nil)

func NewGoodPlayer(name string, rules *mb.Rules, rnd random.Random) *GoodPlayer {
	alive := make([]bool, rules.NShips())
	for i := range alive {
		alive[i] = true
	}

	density := make([][]int, rules.Rows())
	for r := range density {
		density[r] = make([]int, rules.Cols())
	}

	return &GoodPlayer{
		name:    name,
		rules:   rules,
		rnd:     rnd,
		shadow:  mb.NewGrid(rules),
		history: newShotHistory(rules),
		alive:   alive,
		queue:   make([]mb.Point, 0, rules.TotalShipArea()),
		density: density,
	}
}

func (gp *GoodPlayer) Name() string  { return gp.name }
func (gp *GoodPlayer) IsHuman() bool { return false }

func (gp *GoodPlayer) PlaceShips(g *mb.Grid) error {
	return mb.PlaceRandomFleet(g, gp.rnd, mb.PlacementAttempts)
}

func (gp *GoodPlayer) untried(p mb.Point) bool {
	return gp.rules.IsValid(p) && !gp.history.has(p)
}

// rayTarget walks from front along the hint, skipping the adjacent cell,
// and returns the nearest untried point.
func (gp *GoodPlayer) rayTarget(front mb.Point) (mb.Point, bool) {
	for i := 2; ; i++ {
		p := front.Step(gp.hint, i)
		if !gp.rules.IsValid(p) {
			return mb.Point{}, false
		}
		if !gp.history.has(p) {
			return p, true
		}
	}
}

func (gp *GoodPlayer) RecommendAttack() (mb.Point, error) {
	for len(gp.queue) > 0 {
		front := gp.queue[0]

		if gp.hint != mb.CompassNone {
			if p, ok := gp.rayTarget(front); ok {
				gp.mode = ModeTarget
				return p, nil
			}
			gp.hint = mb.CompassNone
		}

		for _, dir := range mb.Compasses {
			if p := front.Step(dir, 1); gp.untried(p) {
				gp.mode = ModeTarget
				return p, nil
			}
		}

		gp.queue = gp.queue[1:]
	}

	gp.mode = ModeSearch
	return gp.densityTarget()
}

// computeDensity fills gp.density with the product, over every ship
// still afloat, of the number of legal placements covering each cell.
func (gp *GoodPlayer) computeDensity() {
	rows, cols := gp.rules.Rows(), gp.rules.Cols()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			gp.density[r][c] = 1
		}
	}

	counts := make([][]int, rows)
	for r := range counts {
		counts[r] = make([]int, cols)
	}

	for shipId, alive := range gp.alive {
		if !alive {
			continue
		}
		for r := range counts {
			clear(counts[r])
		}

		length := gp.rules.ShipLength(shipId)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				anchor := mb.NewPoint(r, c)
				if gp.shadow.PlaceShip(anchor, shipId, mb.DirectionVertical) == nil {
					for j := 0; j < length; j++ {
						counts[r+j][c]++
					}
					_ = gp.shadow.RemoveShip(anchor, shipId, mb.DirectionVertical)
				}
				if gp.shadow.PlaceShip(anchor, shipId, mb.DirectionHorizontal) == nil {
					for j := 0; j < length; j++ {
						counts[r][c+j]++
					}
					_ = gp.shadow.RemoveShip(anchor, shipId, mb.DirectionHorizontal)
				}
			}
		}

		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				gp.density[r][c] *= counts[r][c]
			}
		}
	}
}

func (gp *GoodPlayer) densityTarget() (mb.Point, error) {
	gp.computeDensity()

	best := -1
	targets := make([]mb.Point, 0, 8)
	for r := range gp.density {
		for c, d := range gp.density[r] {
			p := mb.NewPoint(r, c)
			if gp.history.has(p) {
				continue
			}
			switch {
			case d > best:
				best = d
				targets = append(targets[:0], p)
			case d == best:
				targets = append(targets, p)
			}
		}
	}

	if len(targets) == 0 {
		return mb.Point{}, cerr.ErrNoTargetsLeft
	}
	return targets[gp.rnd.Intn(len(targets))], nil
}

func (gp *GoodPlayer) RecordAttackResult(p mb.Point, valid, hit, destroyed bool, shipId int) {
	if gp.rules.IsValid(p) {
		_, _ = gp.shadow.Attack(p)
		gp.history.add(p)
	}
	if !valid {
		return
	}

	if !hit {
		gp.hint = mb.CompassNone
		return
	}

	if destroyed {
		if shipId >= 0 && shipId < len(gp.alive) {
			gp.alive[shipId] = false
		}
		gp.hint = mb.CompassNone
		if len(gp.queue) > 0 {
			gp.queue = gp.queue[1:]
		}
		return
	}

	targeting := len(gp.queue) > 0
	gp.queue = append(gp.queue, p)
	if targeting && gp.hint == mb.CompassNone {
		gp.hint = mb.CompassBetween(gp.queue[0], p)
	}
}

func (gp *GoodPlayer) RecordAttackByOpponent(mb.Point) {}

func (gp *GoodPlayer) History() []mb.Point {
	return gp.history.points()
}

// Mode reports whether the last recommendation came from the hit queue or
// from the density map.
func (gp *GoodPlayer) Mode() Mode {
	return gp.mode
}

func (gp *GoodPlayer) Hint() mb.Compass {
	return gp.hint
}

// DensityMap returns a copy of the density map computed by the last
// search mode recommendation.
func (gp *GoodPlayer) DensityMap() [][]int {
	out := make([][]int, len(gp.density))
	for r := range gp.density {
		out[r] = make([]int, len(gp.density[r]))
		copy(out[r], gp.density[r])
	}
	return out
}
