package api

import (
	"encoding/json"
	"errors"

	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
	mc "github.com/saeidalz13/battleship-bot/models/connection"
	"github.com/saeidalz13/battleship-bot/models/match"
)

var ErrGameNotInSession = errors.New("game does not belong to this session")

type RequestHandler interface {
	HandleCreateGame(gm match.GameManager) (*match.Game, mc.Message[mc.RespCreateGame])
	HandleReady(gm match.GameManager, sessionGame *match.Game) mc.Message[mc.RespReady]
	HandleAttack(gm match.GameManager, sessionGame *match.Game) (*match.Exchange, mc.Message[mc.RespAttack])
	HandleBoards(gm match.GameManager, sessionGame *match.Game) mc.Message[mc.RespBoards]
}

// Every incoming valid request will have this structure
// The request then is handled in line with RequestHandler interface
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload []byte) Request {
	return Request{payload: payload}
}

// A request may only act on the game that its own session created.
func findSessionGame(gm match.GameManager, sessionGame *match.Game, gameUuid string) (*match.Game, error) {
	game, err := gm.FetchGame(gameUuid)
	if err != nil {
		return nil, err
	}
	if game != sessionGame {
		return nil, ErrGameNotInSession
	}
	return game, nil
}

func (r Request) HandleCreateGame(gm match.GameManager) (*match.Game, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	var req mc.Message[mc.ReqCreateGame]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid create game payload")
		return nil, resp
	}

	game, err := gm.CreateGame(req.Payload.GameDifficulty, req.Payload.Strategy)
	if err != nil {
		resp.AddError(err.Error(), "failed to create game")
		return nil, resp
	}

	resp.AddPayload(mc.NewRespCreateGame(game))
	return game, resp
}

// User either sends the whole fleet or asks for an automatic layout.
// The bot places its own fleet right after.
func (r Request) HandleReady(gm match.GameManager, sessionGame *match.Game) mc.Message[mc.RespReady] {
	resp := mc.NewMessage[mc.RespReady](mc.CodeReady)

	var req mc.Message[mc.ReqReady]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid ready payload")
		return resp
	}

	game, err := findSessionGame(gm, sessionGame, req.Payload.GameUuid)
	if err != nil {
		resp.AddError(err.Error(), "game not found")
		return resp
	}

	if req.Payload.Auto {
		err = game.AutoPlaceHuman()
	} else {
		err = game.PlaceHumanFleet(req.Payload.Placements())
	}
	if err != nil {
		resp.AddError(err.Error(), "failed to place ships")
		return resp
	}

	resp.AddPayload(mc.RespReady{GameUuid: game.Uuid, Board: game.HumanBoard()})
	return resp
}

func (r Request) HandleAttack(gm match.GameManager, sessionGame *match.Game) (*match.Exchange, mc.Message[mc.RespAttack]) {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)

	var req mc.Message[mc.ReqAttack]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid attack payload")
		return nil, resp
	}

	game, err := findSessionGame(gm, sessionGame, req.Payload.GameUuid)
	if err != nil {
		resp.AddError(err.Error(), "game not found")
		return nil, resp
	}

	ex, err := game.HumanAttack(mb.NewPoint(req.Payload.Row, req.Payload.Col))
	if err != nil {
		msg := "attack failed"
		switch {
		case errors.Is(err, cerr.ErrOutOfBounds):
			msg = "attack is out of the grid"
		case errors.Is(err, cerr.ErrAlreadyAttacked):
			msg = "cell is already attacked"
		case errors.Is(err, cerr.ErrGameNotStarted):
			msg = "game has not started"
		}
		resp.AddError(err.Error(), msg)
		return nil, resp
	}

	resp.AddPayload(mc.NewRespAttack(ex.Human))
	return ex, resp
}

func (r Request) HandleBoards(gm match.GameManager, sessionGame *match.Game) mc.Message[mc.RespBoards] {
	resp := mc.NewMessage[mc.RespBoards](mc.CodeBoards)

	var req mc.Message[mc.ReqBoards]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid boards payload")
		return resp
	}

	game, err := findSessionGame(gm, sessionGame, req.Payload.GameUuid)
	if err != nil {
		resp.AddError(err.Error(), "game not found")
		return resp
	}

	resp.AddPayload(mc.RespBoards{Own: game.HumanBoard(), Opponent: game.BotBoard()})
	return resp
}
