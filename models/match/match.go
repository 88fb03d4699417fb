package match

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
	mp "github.com/saeidalz13/battleship-bot/models/player"

	"github.com/charmbracelet/log"
)

// TurnEvent describes one shot of a match.
type TurnEvent struct {
	Turn     int
	Attacker int
	Name     string
	Point    mb.Point
	Valid    bool
	Result   mb.AttackResult
	ShipName string
}

type Result struct {
	Winner   mp.Player
	Loser    mp.Player
	WinnerID int
	Turns    int
	Shots    [2]int
	Hits     [2]int
	Duration time.Duration
}

// Match plays two players against each other on fresh grids until one
// fleet is sunk.
type Match struct {
	rules    *mb.Rules
	players  [2]mp.Player
	grids    [2]*mb.Grid
	maxTurns int
	observer func(TurnEvent)
	logger   *log.Logger
}

type Option func(*Match) error

// WithMaxTurns caps the number of shots each side may take.
func WithMaxTurns(n int) Option {
	return func(m *Match) error {
		if n < 1 {
			return fmt.Errorf("max turns must be positive, got %d", n)
		}
		m.maxTurns = n
		return nil
	}
}

func WithObserver(fn func(TurnEvent)) Option {
	return func(m *Match) error {
		m.observer = fn
		return nil
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Match) error {
		m.logger = logger
		return nil
	}
}

func New(rules *mb.Rules, p1, p2 mp.Player, opts ...Option) (*Match, error) {
	if p1 == nil || p2 == nil {
		return nil, cerr.ErrNilPlayer
	}

	m := &Match{
		rules:    rules,
		players:  [2]mp.Player{p1, p2},
		maxTurns: 4 * rules.Rows() * rules.Cols(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Grid returns the board of player 0 or 1.
func (m *Match) Grid(side int) *mb.Grid {
	return m.grids[side]
}

func (m *Match) Play(ctx context.Context) (*Result, error) {
	start := time.Now()

	for i, p := range m.players {
		m.grids[i] = mb.NewGrid(m.rules)
		if err := p.PlaceShips(m.grids[i]); err != nil {
			return nil, cerr.ErrPlacementFailed(p.Name(), err)
		}
	}

	res := &Result{}
	attacker := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if res.Shots[attacker] >= m.maxTurns {
			return nil, fmt.Errorf("%w: %s fired %d shots", cerr.ErrTurnLimit, m.players[attacker].Name(), res.Shots[attacker])
		}

		defender := 1 - attacker
		a, d := m.players[attacker], m.players[defender]

		p, err := a.RecommendAttack()
		if err != nil {
			return nil, fmt.Errorf("%s could not choose an attack: %w", a.Name(), err)
		}

		outcome, attackErr := m.grids[defender].Attack(p)
		valid := attackErr == nil
		shipId := -1
		if outcome.Hit {
			shipId = outcome.ShipID
		}

		res.Turns++
		res.Shots[attacker]++
		if outcome.Hit {
			res.Hits[attacker]++
		}

		a.RecordAttackResult(p, valid, outcome.Hit, outcome.Destroyed, shipId)
		d.RecordAttackByOpponent(p)

		if !valid && !errors.Is(attackErr, cerr.ErrAlreadyAttacked) && !errors.Is(attackErr, cerr.ErrOutOfBounds) {
			return nil, attackErr
		}

		ev := TurnEvent{
			Turn:     res.Turns,
			Attacker: attacker,
			Name:     a.Name(),
			Point:    p,
			Valid:    valid,
			Result:   outcome,
		}
		if outcome.Destroyed {
			ev.ShipName = m.rules.ShipName(outcome.ShipID)
		}
		m.logger.Debug("turn", "turn", ev.Turn, "attacker", ev.Name, "point", p, "valid", valid, "hit", outcome.Hit, "destroyed", ev.ShipName)
		if m.observer != nil {
			m.observer(ev)
		}

		if valid && m.grids[defender].AllDestroyed() {
			res.Winner, res.Loser, res.WinnerID = a, d, attacker
			res.Duration = time.Since(start)
			m.logger.Info("match finished", "winner", a.Name(), "turns", res.Turns, "duration", res.Duration)
			return res, nil
		}

		attacker = defender
	}
}
