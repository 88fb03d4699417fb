package connection

import (
	"github.com/saeidalz13/battleship-bot/models/match"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespShip struct {
	ShipID int    `json:"ship_id"`
	Name   string `json:"name"`
	Length int    `json:"length"`
	Symbol string `json:"symbol"`
}

type RespCreateGame struct {
	GameUuid string     `json:"game_uuid"`
	Strategy string     `json:"strategy"`
	Rows     int        `json:"rows"`
	Cols     int        `json:"cols"`
	Ships    []RespShip `json:"ships"`
}

func NewRespCreateGame(game *match.Game) RespCreateGame {
	rules := game.Rules()
	ships := make([]RespShip, 0, rules.NShips())
	for id := 0; id < rules.NShips(); id++ {
		ships = append(ships, RespShip{
			ShipID: id,
			Name:   rules.ShipName(id),
			Length: rules.ShipLength(id),
			Symbol: string(rules.ShipSymbol(id)),
		})
	}

	return RespCreateGame{
		GameUuid: game.Uuid,
		Strategy: game.Strategy,
		Rows:     rules.Rows(),
		Cols:     rules.Cols(),
		Ships:    ships,
	}
}

type RespReady struct {
	GameUuid string   `json:"game_uuid"`
	Board    []string `json:"board"`
}

// RespAttack is used for both the human's shot (CodeAttack) and the
// bot's reply (CodeBotAttack).
type RespAttack struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Hit       bool   `json:"hit"`
	Destroyed bool   `json:"destroyed"`
	ShipName  string `json:"ship_name,omitempty"`
}

func NewRespAttack(tr match.TurnReport) RespAttack {
	return RespAttack{
		Row:       tr.Point.R,
		Col:       tr.Point.C,
		Hit:       tr.Hit,
		Destroyed: tr.Destroyed,
		ShipName:  tr.ShipName,
	}
}

type RespEndGame struct {
	Winner     string `json:"winner"`
	HumanShots int    `json:"human_shots"`
	BotShots   int    `json:"bot_shots"`
}

type RespBoards struct {
	Own      []string `json:"own"`
	Opponent []string `json:"opponent"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
