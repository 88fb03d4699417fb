package match

import (
	"sync"
	"time"

	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	"github.com/saeidalz13/battleship-bot/internal/random"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
	mp "github.com/saeidalz13/battleship-bot/models/player"
)

const (
	WinnerNone  = ""
	WinnerHuman = "human"
	WinnerBot   = "bot"
)

// TurnReport is the outcome of one shot in a remote game.
type TurnReport struct {
	Point     mb.Point
	Hit       bool
	Destroyed bool
	ShipName  string
}

// Exchange is the human's shot and, unless the human just won, the bot's
// reply.
type Exchange struct {
	Human  TurnReport
	Bot    *TurnReport
	Winner string
}

// Game is a single remote human playing against one computer strategy.
type Game struct {
	mu         sync.Mutex
	Uuid       string
	Difficulty uint8
	Strategy   string
	CreatedAt  time.Time
	rules      *mb.Rules
	rnd        random.Random
	bot        mp.Player
	humanGrid  *mb.Grid
	botGrid    *mb.Grid
	isReady    bool
	isFinished bool
	winner     string
	humanShots int
	botShots   int
}

func newGame(gameUuid string, difficulty uint8, strategy string, rnd random.Random) (*Game, error) {
	rules, err := mb.RulesForDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	if strategy == mp.KindHuman {
		return nil, cerr.ErrUnknownKind(strategy)
	}

	bot, err := mp.New(strategy, "bot-"+strategy, rules, mp.WithRandom(rnd))
	if err != nil {
		return nil, err
	}

	return &Game{
		Uuid:       gameUuid,
		Difficulty: difficulty,
		Strategy:   strategy,
		CreatedAt:  time.Now(),
		rules:      rules,
		rnd:        rnd,
		bot:        bot,
		humanGrid:  mb.NewGrid(rules),
		botGrid:    mb.NewGrid(rules),
	}, nil
}

func (g *Game) Rules() *mb.Rules {
	return g.rules
}

func (g *Game) IsReady() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isReady
}

func (g *Game) IsFinished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isFinished
}

func (g *Game) Winner() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner
}

// Shots returns how many shots the human and the bot have fired.
func (g *Game) Shots() (human, bot int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.humanShots, g.botShots
}

// HumanBoard renders the human's own grid with ships visible.
func (g *Game) HumanBoard() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.humanGrid.Render(false)
}

// BotBoard renders only the shots the human fired at the bot.
func (g *Game) BotBoard() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.botGrid.Render(true)
}

// PlaceHumanFleet places the human's ships and then the bot's.
func (g *Game) PlaceHumanFleet(placements []mp.Placement) error {
	return g.ready(mp.FixedPlacer(placements))
}

// AutoPlaceHuman lays out the human's fleet randomly.
func (g *Game) AutoPlaceHuman() error {
	return g.ready(mp.PlacerFunc(func(grid *mb.Grid) error {
		return mb.PlaceRandomFleet(grid, g.rnd, mb.PlacementAttempts)
	}))
}

func (g *Game) ready(placer mp.Placer) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isReady {
		return cerr.ErrGameAlreadyReady
	}

	if err := placer.Place(g.humanGrid); err != nil {
		return err
	}
	if err := g.bot.PlaceShips(g.botGrid); err != nil {
		g.humanGrid.Reset()
		g.botGrid.Reset()
		return cerr.ErrPlacementFailed(g.bot.Name(), err)
	}

	g.isReady = true
	return nil
}

func (g *Game) finish(winner string) {
	g.isFinished = true
	g.winner = winner
}

// HumanAttack fires the human's shot at the bot. Invalid shots are
// rejected without consuming the turn.
func (g *Game) HumanAttack(p mb.Point) (*Exchange, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isReady {
		return nil, cerr.ErrGameNotStarted
	}
	if g.isFinished {
		return nil, cerr.ErrGameFinished
	}

	res, err := g.botGrid.Attack(p)
	if err != nil {
		return nil, err
	}
	g.humanShots++
	g.bot.RecordAttackByOpponent(p)

	ex := &Exchange{Human: g.report(p, res)}
	if g.botGrid.AllDestroyed() {
		g.finish(WinnerHuman)
		ex.Winner = WinnerHuman
		return ex, nil
	}

	bp, err := g.bot.RecommendAttack()
	if err != nil {
		return nil, err
	}
	bres, err := g.humanGrid.Attack(bp)
	valid := err == nil
	shipId := -1
	if bres.Hit {
		shipId = bres.ShipID
	}
	g.bot.RecordAttackResult(bp, valid, bres.Hit, bres.Destroyed, shipId)
	g.botShots++

	botReport := g.report(bp, bres)
	ex.Bot = &botReport
	if valid && g.humanGrid.AllDestroyed() {
		g.finish(WinnerBot)
		ex.Winner = WinnerBot
	}
	return ex, nil
}

func (g *Game) report(p mb.Point, res mb.AttackResult) TurnReport {
	tr := TurnReport{Point: p, Hit: res.Hit, Destroyed: res.Destroyed}
	if res.Hit {
		tr.ShipName = g.rules.ShipName(res.ShipID)
	}
	return tr
}
