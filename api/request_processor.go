package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/saeidalz13/battleship-bot/db/sqlc"
	"github.com/saeidalz13/battleship-bot/internal/notify"
	mc "github.com/saeidalz13/battleship-bot/models/connection"
	"github.com/saeidalz13/battleship-bot/models/match"
	mp "github.com/saeidalz13/battleship-bot/models/player"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// probably more that enough but this is a good average size
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    match.GameManager
	dbManager      *sqlc.DbManager
	publisher      notify.Publisher
	ipnet          net.IPNet
}

type Option func(*RequestProcessor) error

// WithDbManager turns on analytics and match result storage.
func WithDbManager(dm *sqlc.DbManager) Option {
	return func(rp *RequestProcessor) error {
		rp.dbManager = dm
		return nil
	}
}

func WithPublisher(p notify.Publisher) Option {
	return func(rp *RequestProcessor) error {
		rp.publisher = p
		return nil
	}
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager match.GameManager,
	opts ...Option,
) (*RequestProcessor, error) {
	rp := &RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		publisher:      notify.NopPublisher{},
	}

	for _, opt := range opts {
		if err := opt(rp); err != nil {
			return nil, err
		}
	}

	rp.ipnet = mustGetServerIpNet()
	return rp, nil
}

// mustGetServerIpNet picks the first IPv4 address of an interface that is
// up. Hosts with only a loopback interface get 127.0.0.1/32.
func mustGetServerIpNet() net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn("failed to list interfaces", "err", err)
		return loopback
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}

			if ip4 := ipnet.IP.To4(); ip4 != nil && !ip4.IsLoopback() {
				return net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}
			}
		}
	}

	return loopback
}

// Expose this method to use it in testing
func (rp *RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp *RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("could not upgrade connection", "err", err)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Info("a new connection established", "addr", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		rp.reconnect(sessionIdQuery, conn)
	}
}

// The session loop that owns sessionId is blocked waiting for a new
// connection; handing the conn over resumes it.
func (rp *RequestProcessor) reconnect(sessionId string, conn *websocket.Conn) {
	session, err := rp.sessionManager.FindSession(sessionId)
	if err != nil {
		// This either means an expired session or invalid session ID
		msg := mc.NewErrorMessage(mc.CodeReceivedInvalidSessionID, err, "session expired or invalid")
		_ = conn.WriteJSON(msg)
		conn.Close()
		return
	}

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionReconnected)
	resp.AddPayload(mc.RespSessionId{SessionID: session.Id()})
	if err := conn.WriteJSON(resp); err != nil {
		conn.Close()
		return
	}

	rp.sessionManager.ReconnectSession(session, conn)
	log.Info("session reconnected", "session", session.Id(), "addr", conn.RemoteAddr().String())
}

func (rp *RequestProcessor) serverInet() pqtype.Inet {
	return pqtype.Inet{IPNet: rp.ipnet, Valid: true}
}

func (rp *RequestProcessor) recordGameCreated() {
	if rp.dbManager == nil {
		return
	}
	if err := rp.dbManager.Analytics.IncrementGamesCreatedCount(context.Background(), rp.serverInet()); err != nil {
		// for now not killing the game for it
		log.Error("failed to increment games created", "err", err)
	}
}

// recordGameEnd stores the result and announces it. Failures are logged
// only; the player already has the outcome.
func (rp *RequestProcessor) recordGameEnd(game *match.Game) {
	humanShots, _ := game.Shots()
	winner := game.Winner()
	if winner == match.WinnerBot {
		winner = game.Strategy
	}

	event := notify.MatchFinished{
		StrategyOne: mp.KindHuman,
		StrategyTwo: game.Strategy,
		Winner:      winner,
		Turns:       humanShots,
		FinishedAt:  time.Now().UTC(),
	}

	if rp.dbManager != nil {
		id, err := rp.dbManager.Matches.RecordMatch(context.Background(), sqlc.MatchSummary{
			StrategyOne: event.StrategyOne,
			StrategyTwo: event.StrategyTwo,
			Winner:      event.Winner,
			Turns:       event.Turns,
			Rows:        game.Rules().Rows(),
			Cols:        game.Rules().Cols(),
		})
		if err != nil {
			log.Error("failed to record match", "game", game.Uuid, "err", err)
		} else {
			event.MatchID = id.String()
		}
	}
	if event.MatchID == "" {
		event.MatchID = game.Uuid
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()
	if err := rp.publisher.Publish(ctx, event); err != nil {
		log.Error("failed to publish match result", "game", game.Uuid, "err", err)
	}
}

func (rp *RequestProcessor) terminateSessionGame(session *mc.Session) {
	if game := rp.sessionManager.GetSessionGame(session); game != nil {
		rp.gameManager.TerminateGame(game.Uuid)
		rp.sessionManager.SetSessionGame(session, nil)
	}
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	defer func() {
		rp.terminateSessionGame(session)
		if conn := session.Conn(); conn != nil {
			conn.Close()
		}
		rp.sessionManager.TerminateSession(session)
		log.Info("session closed", "session", session.Id())
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: session.Id()})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// This error happens after retries. If it's not nil,
			// then something was wrong with the session connection
			// and couldn't be resolved
			break sessionLoop
		}

		code, err := rp.sessionManager.FetchCodeFromMsg(payload)
		if err != nil || code == mc.CodeSignalAbsent {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err = rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		sessionGame := rp.sessionManager.GetSessionGame(session)

		switch code {

		// A session holds one game; creating another drops the previous one
		case mc.CodeCreateGame:
			game, respMsg := NewRequest(payload).HandleCreateGame(rp.gameManager)
			if game != nil {
				rp.terminateSessionGame(session)
				rp.sessionManager.SetSessionGame(session, game)
				rp.recordGameCreated()
				log.Info("game created", "session", session.Id(), "game", game.Uuid, "strategy", game.Strategy)
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// This code means the player has selected their grid and
		// ready to start the game
		case mc.CodeReady:
			respMsg := NewRequest(payload).HandleReady(rp.gameManager, sessionGame)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if respMsg.HasError() {
				continue sessionLoop
			}

			respStartGame := mc.NewMessage[mc.NoPayload](mc.CodeStartGame)
			if err := rp.sessionManager.WriteToSessionConn(session, respStartGame, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// The human shot is answered first, then the bot's reply and
		// finally the end of the game if either side has won.
		case mc.CodeAttack:
			ex, respMsg := NewRequest(payload).HandleAttack(rp.gameManager, sessionGame)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if respMsg.HasError() {
				continue sessionLoop
			}

			if ex.Bot != nil {
				botMsg := mc.NewMessage[mc.RespAttack](mc.CodeBotAttack)
				botMsg.AddPayload(mc.NewRespAttack(*ex.Bot))
				if err := rp.sessionManager.WriteToSessionConn(session, botMsg, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
			}

			if ex.Winner != match.WinnerNone {
				rp.recordGameEnd(sessionGame)

				humanShots, botShots := sessionGame.Shots()
				endMsg := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
				endMsg.AddPayload(mc.RespEndGame{Winner: ex.Winner, HumanShots: humanShots, BotShots: botShots})
				if err := rp.sessionManager.WriteToSessionConn(session, endMsg, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
				log.Info("game finished", "game", sessionGame.Uuid, "winner", ex.Winner, "shots", humanShots)
			}

		case mc.CodeBoards:
			respMsg := NewRequest(payload).HandleBoards(rp.gameManager, sessionGame)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
		}
	}
}
