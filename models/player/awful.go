package player

import (
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
)

// AwfulPlayer stacks its ships in the top left corner and fires in a
// fixed backwards sweep. It ignores every result.
type AwfulPlayer struct {
	name  string
	rules *mb.Rules
	last  mb.Point
}

var _ Player = (*AwfulPlayer)(nil)

func NewAwfulPlayer(name string, rules *mb.Rules) *AwfulPlayer {
	return &AwfulPlayer{name: name, rules: rules}
}

func (ap *AwfulPlayer) Name() string  { return ap.name }
func (ap *AwfulPlayer) IsHuman() bool { return false }

func (ap *AwfulPlayer) PlaceShips(g *mb.Grid) error {
	for k := 0; k < ap.rules.NShips(); k++ {
		if err := g.PlaceShip(mb.NewPoint(k, 0), k, mb.DirectionHorizontal); err != nil {
			return err
		}
	}
	return nil
}

func (ap *AwfulPlayer) RecommendAttack() (mb.Point, error) {
	if ap.last.C > 0 {
		ap.last.C--
		return ap.last, nil
	}

	ap.last.C = ap.rules.Cols() - 1
	if ap.last.R > 0 {
		ap.last.R--
	} else {
		ap.last.R = ap.rules.Rows() - 1
	}
	return ap.last, nil
}

func (ap *AwfulPlayer) RecordAttackResult(mb.Point, bool, bool, bool, int) {}
func (ap *AwfulPlayer) RecordAttackByOpponent(mb.Point)                  {}
