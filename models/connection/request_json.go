package connection

import (
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
	mp "github.com/saeidalz13/battleship-bot/models/player"
)

type ReqCreateGame struct {
	GameDifficulty uint8  `json:"game_difficulty"`
	Strategy       string `json:"strategy"`
}

type ShipPlacement struct {
	ShipID   int  `json:"ship_id"`
	Row      int  `json:"row"`
	Col      int  `json:"col"`
	Vertical bool `json:"vertical"`
}

func (sp ShipPlacement) Placement() mp.Placement {
	dir := mb.DirectionHorizontal
	if sp.Vertical {
		dir = mb.DirectionVertical
	}
	return mp.Placement{ShipID: sp.ShipID, Anchor: mb.NewPoint(sp.Row, sp.Col), Direction: dir}
}

// ReqReady either carries every ship of the fleet or asks the server to
// place them with Auto.
type ReqReady struct {
	GameUuid string          `json:"game_uuid"`
	Ships    []ShipPlacement `json:"ships,omitempty"`
	Auto     bool            `json:"auto"`
}

func (rr ReqReady) Placements() []mp.Placement {
	out := make([]mp.Placement, 0, len(rr.Ships))
	for _, s := range rr.Ships {
		out = append(out, s.Placement())
	}
	return out
}

type ReqAttack struct {
	GameUuid string `json:"game_uuid"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

type ReqBoards struct {
	GameUuid string `json:"game_uuid"`
}
