package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/saeidalz13/battleship-bot/db/sqlc"
	"github.com/saeidalz13/battleship-bot/internal/notify"
	"github.com/saeidalz13/battleship-bot/internal/random"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
	mc "github.com/saeidalz13/battleship-bot/models/connection"
	"github.com/saeidalz13/battleship-bot/models/match"
	mp "github.com/saeidalz13/battleship-bot/models/player"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"
)

var dialer = websocket.Dialer{
	HandshakeTimeout: 5 * time.Second,
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.MatchFinished
}

func (p *recordingPublisher) Publish(_ context.Context, event notify.MatchFinished) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Events() []notify.MatchFinished {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.MatchFinished(nil), p.events...)
}

type testEnv struct {
	rp    *RequestProcessor
	mock  sqlmock.Sqlmock
	pub   *recordingPublisher
	bgm   *match.BattleshipGameManager
	bsm   *mc.BattleshipSessionManager
	wsUrl string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	dm := sqlc.NewDbManager(sqlc.New(db))
	bsm := mc.NewBattleshipSessionManager()
	bgm := match.NewBattleshipGameManager(random.NewSeeded(7))
	pub := &recordingPublisher{}

	rp, err := NewRequestProcessor(bsm, bgm, WithDbManager(&dm), WithPublisher(pub))
	if err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return testEnv{
		rp:    rp,
		mock:  mock,
		pub:   pub,
		bgm:   bgm,
		bsm:   bsm,
		wsUrl: "ws" + strings.TrimPrefix(srv.URL, "http") + "/battleship",
	}
}

func (env testEnv) serverInet() pqtype.Inet {
	return pqtype.Inet{IPNet: env.rp.GetIpNet(), Valid: true}
}

// dial opens a session and returns its id.
func (env testEnv) dial(t *testing.T) (*websocket.Conn, string) {
	t.Helper()

	conn, _, err := dialer.Dial(env.wsUrl, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})

	resp := readMessage[mc.RespSessionId](t, conn)
	if resp.Code != mc.CodeSessionID {
		t.Fatalf("expected code: %d\t got: %d", mc.CodeSessionID, resp.Code)
	}
	if resp.Payload.SessionID == "" {
		t.Fatal("expected a session id")
	}
	return conn, resp.Payload.SessionID
}

func writeMessage(t *testing.T, conn *websocket.Conn, v interface{}) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatal(err)
	}
}

func readMessage[T any](t *testing.T, conn *websocket.Conn) mc.Message[T] {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}

	var msg mc.Message[T]
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	return msg
}

func TestInvalidCode(t *testing.T) {
	env := newTestEnv(t)
	conn, _ := env.dial(t)

	tests := []struct {
		name         string
		raw          []byte
		expectedCode uint8
	}{
		{name: "random invalid code", raw: []byte(`{"code": 255}`), expectedCode: mc.CodeInvalidSignal},
		{name: "another invalid code", raw: []byte(`{"code": 200}`), expectedCode: mc.CodeInvalidSignal},
		{name: "no code", raw: []byte(`{"payload": {}}`), expectedCode: mc.CodeSignalAbsent},
		{name: "not json", raw: []byte(`hello`), expectedCode: mc.CodeSignalAbsent},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, test.raw); err != nil {
				t.Fatal(err)
			}

			resp := readMessage[mc.NoPayload](t, conn)
			if resp.Code != test.expectedCode {
				t.Fatalf("expected code: %d\t got: %d", test.expectedCode, resp.Code)
			}
			if resp.Error == nil {
				t.Fatal("expected an error in the response")
			}
		})
	}
}

func TestCreateGame(t *testing.T) {
	tests := []struct {
		name         string
		req          mc.ReqCreateGame
		isErr        bool
		expectedSize int
	}{
		{name: "easy good", req: mc.ReqCreateGame{GameDifficulty: mb.GameDifficultyEasy, Strategy: mp.KindGood}, expectedSize: mb.GridSizeEasy},
		{name: "hard mediocre", req: mc.ReqCreateGame{GameDifficulty: mb.GameDifficultyHard, Strategy: mp.KindMediocre}, expectedSize: mb.GridSizeHard},
		{name: "invalid difficulty", req: mc.ReqCreateGame{GameDifficulty: 9, Strategy: mp.KindGood}, isErr: true},
		{name: "unknown strategy", req: mc.ReqCreateGame{GameDifficulty: mb.GameDifficultyEasy, Strategy: "genius"}, isErr: true},
		{name: "human strategy", req: mc.ReqCreateGame{GameDifficulty: mb.GameDifficultyEasy, Strategy: mp.KindHuman}, isErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := newTestEnv(t)
			conn, _ := env.dial(t)

			if !test.isErr {
				env.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO game_server_analytics (server_ip, games_created)`)).
					WithArgs(env.serverInet()).
					WillReturnResult(sqlmock.NewResult(1, 1))
			}

			writeMessage(t, conn, mc.Message[mc.ReqCreateGame]{Code: mc.CodeCreateGame, Payload: test.req})
			resp := readMessage[mc.RespCreateGame](t, conn)

			if resp.Code != mc.CodeCreateGame {
				t.Fatalf("expected code: %d\t got: %d", mc.CodeCreateGame, resp.Code)
			}
			if test.isErr != (resp.Error != nil) {
				t.Fatalf("expected error: %t\t got: %+v", test.isErr, resp.Error)
			}

			if !test.isErr {
				if resp.Payload.Rows != test.expectedSize || resp.Payload.Cols != test.expectedSize {
					t.Fatalf("expected size: %d\t got: %dx%d", test.expectedSize, resp.Payload.Rows, resp.Payload.Cols)
				}
				if len(resp.Payload.Ships) != 3 {
					t.Fatalf("expected ships: 3\t got: %d", len(resp.Payload.Ships))
				}
				if _, err := env.bgm.FetchGame(resp.Payload.GameUuid); err != nil {
					t.Fatal(err)
				}
			}

			if err := env.mock.ExpectationsWereMet(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestPlayAgainstAwfulBot(t *testing.T) {
	env := newTestEnv(t)
	conn, _ := env.dial(t)

	env.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO game_server_analytics (server_ip, games_created)`)).
		WithArgs(env.serverInet()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	env.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO match_results`)).
		WithArgs(sqlmock.AnyArg(), mp.KindHuman, mp.KindAwful, match.WinnerHuman, int64(9), int64(5), int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	writeMessage(t, conn, mc.Message[mc.ReqCreateGame]{
		Code:    mc.CodeCreateGame,
		Payload: mc.ReqCreateGame{GameDifficulty: mb.GameDifficultyEasy, Strategy: mp.KindAwful},
	})
	created := readMessage[mc.RespCreateGame](t, conn)
	if created.Error != nil {
		t.Fatalf("failed to create game: %+v", created.Error)
	}
	gameUuid := created.Payload.GameUuid

	attack := func(row, col int) {
		writeMessage(t, conn, mc.Message[mc.ReqAttack]{
			Code:    mc.CodeAttack,
			Payload: mc.ReqAttack{GameUuid: gameUuid, Row: row, Col: col},
		})
	}

	// Shooting before the fleets are placed
	attack(0, 0)
	if resp := readMessage[mc.RespAttack](t, conn); resp.Error == nil {
		t.Fatal("expected attack before ready to fail")
	}

	// The awful bot sweeps from the bottom right, so a fleet in the top
	// rows survives its first shots.
	ready := mc.Message[mc.ReqReady]{Code: mc.CodeReady, Payload: mc.ReqReady{
		GameUuid: gameUuid,
		Ships: []mc.ShipPlacement{
			{ShipID: 0, Row: 0, Col: 0},
			{ShipID: 1, Row: 1, Col: 0},
			{ShipID: 2, Row: 2, Col: 0},
		},
	}}
	writeMessage(t, conn, ready)
	readyResp := readMessage[mc.RespReady](t, conn)
	if readyResp.Error != nil {
		t.Fatalf("failed to get ready: %+v", readyResp.Error)
	}
	if len(readyResp.Payload.Board) != mb.GridSizeEasy+1 {
		t.Fatalf("expected board lines: %d\t got: %d", mb.GridSizeEasy+1, len(readyResp.Payload.Board))
	}
	if start := readMessage[mc.NoPayload](t, conn); start.Code != mc.CodeStartGame {
		t.Fatalf("expected code: %d\t got: %d", mc.CodeStartGame, start.Code)
	}

	writeMessage(t, conn, ready)
	if resp := readMessage[mc.RespReady](t, conn); resp.Error == nil {
		t.Fatal("expected second ready to fail")
	}

	attack(9, 9)
	if resp := readMessage[mc.RespAttack](t, conn); resp.Error == nil {
		t.Fatal("expected out of bounds attack to fail")
	}

	// The awful bot stacks its ships on the top left
	shots := []struct {
		row, col  int
		destroyed bool
	}{
		{0, 0, false}, {0, 1, true},
		{1, 0, false}, {1, 1, false}, {1, 2, true},
		{2, 0, false}, {2, 1, false}, {2, 2, false}, {2, 3, true},
	}

	for i, shot := range shots {
		attack(shot.row, shot.col)
		resp := readMessage[mc.RespAttack](t, conn)
		if resp.Code != mc.CodeAttack || resp.Error != nil {
			t.Fatalf("shot %d failed: code %d, err %+v", i, resp.Code, resp.Error)
		}
		if !resp.Payload.Hit {
			t.Fatalf("expected shot %d at (%d,%d) to hit", i, shot.row, shot.col)
		}
		if resp.Payload.Destroyed != shot.destroyed {
			t.Fatalf("expected destroyed: %t\t got: %t", shot.destroyed, resp.Payload.Destroyed)
		}

		if i == len(shots)-1 {
			break
		}

		botResp := readMessage[mc.RespAttack](t, conn)
		if botResp.Code != mc.CodeBotAttack {
			t.Fatalf("expected code: %d\t got: %d", mc.CodeBotAttack, botResp.Code)
		}
		if botResp.Payload.Hit {
			t.Fatalf("expected bot shot (%d,%d) to miss", botResp.Payload.Row, botResp.Payload.Col)
		}

		if i == 0 {
			attack(0, 0)
			if again := readMessage[mc.RespAttack](t, conn); again.Error == nil {
				t.Fatal("expected repeated attack to fail")
			}
		}
	}

	end := readMessage[mc.RespEndGame](t, conn)
	if end.Code != mc.CodeEndGame {
		t.Fatalf("expected code: %d\t got: %d", mc.CodeEndGame, end.Code)
	}
	if end.Payload.Winner != match.WinnerHuman {
		t.Fatalf("expected winner: %s\t got: %s", match.WinnerHuman, end.Payload.Winner)
	}
	if end.Payload.HumanShots != 9 || end.Payload.BotShots != 8 {
		t.Fatalf("expected shots: 9/8\t got: %d/%d", end.Payload.HumanShots, end.Payload.BotShots)
	}

	writeMessage(t, conn, mc.Message[mc.ReqBoards]{Code: mc.CodeBoards, Payload: mc.ReqBoards{GameUuid: gameUuid}})
	boards := readMessage[mc.RespBoards](t, conn)
	if boards.Error != nil {
		t.Fatalf("failed to fetch boards: %+v", boards.Error)
	}
	if boards.Payload.Opponent[1] != "0 XX..." {
		t.Fatalf("expected opponent row: %q\t got: %q", "0 XX...", boards.Payload.Opponent[1])
	}

	if err := env.mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}

	events := env.pub.Events()
	if len(events) != 1 {
		t.Fatalf("expected published events: 1\t got: %d", len(events))
	}
	if events[0].Winner != match.WinnerHuman || events[0].StrategyTwo != mp.KindAwful {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestForeignGameRejected(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO game_server_analytics (server_ip, games_created)`)).
		WithArgs(env.serverInet()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	owner, _ := env.dial(t)
	writeMessage(t, owner, mc.Message[mc.ReqCreateGame]{
		Code:    mc.CodeCreateGame,
		Payload: mc.ReqCreateGame{GameDifficulty: mb.GameDifficultyEasy, Strategy: mp.KindGood},
	})
	created := readMessage[mc.RespCreateGame](t, owner)
	if created.Error != nil {
		t.Fatalf("failed to create game: %+v", created.Error)
	}

	other, _ := env.dial(t)
	writeMessage(t, other, mc.Message[mc.ReqReady]{Code: mc.CodeReady, Payload: mc.ReqReady{GameUuid: created.Payload.GameUuid, Auto: true}})
	resp := readMessage[mc.RespReady](t, other)
	if resp.Error == nil {
		t.Fatal("expected ready on another session's game to fail")
	}
	if resp.Error.ErrorDetails != ErrGameNotInSession.Error() {
		t.Fatalf("expected err: %s\t got: %s", ErrGameNotInSession, resp.Error.ErrorDetails)
	}
}

func TestReconnectInvalidSession(t *testing.T) {
	env := newTestEnv(t)

	conn, _, err := dialer.Dial(env.wsUrl+"?"+URLQuerySessionIDKeyword+"=doesnotexist", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	resp := readMessage[mc.NoPayload](t, conn)
	if resp.Code != mc.CodeReceivedInvalidSessionID {
		t.Fatalf("expected code: %d\t got: %d", mc.CodeReceivedInvalidSessionID, resp.Code)
	}
}

func TestHandleStats(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(`SELECT games_created FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(env.serverInet()).
		WillReturnRows(sqlmock.NewRows([]string{"games_created"}).AddRow(12))
	env.mock.ExpectQuery(regexp.QuoteMeta(`SELECT winner, count(*) AS wins FROM match_results`)).
		WillReturnRows(sqlmock.NewRows([]string{"winner", "wins"}).
			AddRow(match.WinnerHuman, 4).
			AddRow(mp.KindGood, 7))

	rec := httptest.NewRecorder()
	env.rp.HandleStats(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status: %d\t got: %d", http.StatusOK, rec.Code)
	}

	var stats RespStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.GamesCreated != 12 {
		t.Fatalf("expected games created: 12\t got: %d", stats.GamesCreated)
	}
	if stats.WinsByStrategy[mp.KindGood] != 7 {
		t.Fatalf("expected good wins: 7\t got: %d", stats.WinsByStrategy[mp.KindGood])
	}

	if err := env.mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
