package player

import (
	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	"github.com/saeidalz13/battleship-bot/internal/random"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
)

// CrossRadius bounds how far from the pivot the mediocre player searches.
const CrossRadius = 4

// MediocrePlayer fires randomly until it hits something, then fires
// randomly on the cross around that hit until the ship sinks.
type MediocrePlayer struct {
	name      string
	rules     *mb.Rules
	rnd       random.Random
	history   *shotHistory
	targeting bool
	pivot     mb.Point
}

var _ Player = (*MediocrePlayer)(nil)

func NewMediocrePlayer(name string, rules *mb.Rules, rnd random.Random) *MediocrePlayer {
	return &MediocrePlayer{
		name:    name,
		rules:   rules,
		rnd:     rnd,
		history: newShotHistory(rules),
	}
}

func (mp *MediocrePlayer) Name() string  { return mp.name }
func (mp *MediocrePlayer) IsHuman() bool { return false }

func (mp *MediocrePlayer) PlaceShips(g *mb.Grid) error {
	return mb.PlaceRandomFleet(g, mp.rnd, mb.PlacementAttempts)
}

// crossCandidates returns the unattacked in-bounds points on the pivot's
// column then row, at most CrossRadius cells away.
func (mp *MediocrePlayer) crossCandidates() []mb.Point {
	candidates := make([]mb.Point, 0, 4*CrossRadius)
	for r := mp.pivot.R - CrossRadius; r <= mp.pivot.R+CrossRadius; r++ {
		p := mb.NewPoint(r, mp.pivot.C)
		if mp.rules.IsValid(p) && !mp.history.has(p) {
			candidates = append(candidates, p)
		}
	}
	for c := mp.pivot.C - CrossRadius; c <= mp.pivot.C+CrossRadius; c++ {
		p := mb.NewPoint(mp.pivot.R, c)
		if mp.rules.IsValid(p) && !mp.history.has(p) {
			candidates = append(candidates, p)
		}
	}
	return candidates
}

func (mp *MediocrePlayer) RecommendAttack() (mb.Point, error) {
	if mp.targeting {
		candidates := mp.crossCandidates()
		if len(candidates) > 0 {
			return candidates[mp.rnd.Intn(len(candidates))], nil
		}
		mp.targeting = false
	}

	if mp.history.count() >= mp.rules.Rows()*mp.rules.Cols() {
		return mb.Point{}, cerr.ErrNoTargetsLeft
	}

	p := mp.rules.RandomPoint(mp.rnd)
	for mp.history.has(p) {
		p = mp.rules.RandomPoint(mp.rnd)
	}
	return p, nil
}

func (mp *MediocrePlayer) RecordAttackResult(p mb.Point, valid, hit, destroyed bool, shipId int) {
	if !valid {
		return
	}
	mp.history.add(p)

	if !hit {
		return
	}
	if destroyed {
		mp.targeting = false
		return
	}
	if !mp.targeting {
		mp.targeting = true
		mp.pivot = p
	}
}

func (mp *MediocrePlayer) RecordAttackByOpponent(mb.Point) {}

func (mp *MediocrePlayer) History() []mb.Point {
	return mp.history.points()
}

// Pivot reports the hit being chased, if any.
func (mp *MediocrePlayer) Pivot() (mb.Point, bool) {
	return mp.pivot, mp.targeting
}
