package player

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	"github.com/saeidalz13/battleship-bot/internal/random"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
)

// AttackSource yields the points a human wants to fire at. It returns
// cerr.ErrEndOfInput once nothing more will come.
type AttackSource interface {
	Next() (mb.Point, error)
}

// Placer lays out a human's fleet.
type Placer interface {
	Place(g *mb.Grid) error
}

type PlacerFunc func(g *mb.Grid) error

func (f PlacerFunc) Place(g *mb.Grid) error {
	return f(g)
}

// Placement is one ship of a human supplied layout.
type Placement struct {
	ShipID    int          `json:"ship_id"`
	Anchor    mb.Point     `json:"anchor"`
	Direction mb.Direction `json:"direction"`
}

// FixedPlacer places the given ships in order and requires every ship
// of the rules to be covered.
type FixedPlacer []Placement

func (fp FixedPlacer) Place(g *mb.Grid) error {
	if len(fp) != g.Rules().NShips() {
		return cerr.ErrIncompletePlacement
	}
	for i, pl := range fp {
		if err := g.PlaceShip(pl.Anchor, pl.ShipID, pl.Direction); err != nil {
			for _, done := range fp[:i] {
				_ = g.RemoveShip(done.Anchor, done.ShipID, done.Direction)
			}
			return err
		}
	}
	return nil
}

type ScriptedSource struct {
	points []mb.Point
	next   int
}

var _ AttackSource = (*ScriptedSource)(nil)

func NewScriptedSource(points ...mb.Point) *ScriptedSource {
	return &ScriptedSource{points: points}
}

func (ss *ScriptedSource) Next() (mb.Point, error) {
	if ss.next >= len(ss.points) {
		return mb.Point{}, cerr.ErrEndOfInput
	}
	p := ss.points[ss.next]
	ss.next++
	return p, nil
}

// ReaderSource reads "row col" lines. Lines that do not hold exactly two
// integers are skipped.
type ReaderSource struct {
	scanner *bufio.Scanner
}

var _ AttackSource = (*ReaderSource)(nil)

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{scanner: bufio.NewScanner(r)}
}

func (rs *ReaderSource) Next() (mb.Point, error) {
	for rs.scanner.Scan() {
		fields := strings.Fields(rs.scanner.Text())
		if len(fields) != 2 {
			continue
		}
		r, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		c, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		return mb.NewPoint(r, c), nil
	}

	if err := rs.scanner.Err(); err != nil {
		return mb.Point{}, err
	}
	return mb.Point{}, cerr.ErrEndOfInput
}

type HumanPlayer struct {
	name   string
	rules  *mb.Rules
	rnd    random.Random
	source AttackSource
	placer Placer
}

var _ Player = (*HumanPlayer)(nil)

func NewHumanPlayer(name string, rules *mb.Rules, rnd random.Random, source AttackSource, placer Placer) *HumanPlayer {
	return &HumanPlayer{
		name:   name,
		rules:  rules,
		rnd:    rnd,
		source: source,
		placer: placer,
	}
}

func (hp *HumanPlayer) Name() string  { return hp.name }
func (hp *HumanPlayer) IsHuman() bool { return true }

func (hp *HumanPlayer) PlaceShips(g *mb.Grid) error {
	if hp.placer != nil {
		return hp.placer.Place(g)
	}
	return mb.PlaceRandomFleet(g, hp.rnd, mb.PlacementAttempts)
}

func (hp *HumanPlayer) RecommendAttack() (mb.Point, error) {
	if hp.source == nil {
		return mb.Point{}, cerr.ErrEndOfInput
	}
	return hp.source.Next()
}

func (hp *HumanPlayer) RecordAttackResult(mb.Point, bool, bool, bool, int) {}
func (hp *HumanPlayer) RecordAttackByOpponent(mb.Point)                  {}
