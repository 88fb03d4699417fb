package simulate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/saeidalz13/battleship-bot/internal/random"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
	"github.com/saeidalz13/battleship-bot/models/match"
	mp "github.com/saeidalz13/battleship-bot/models/player"

	"github.com/charmbracelet/log"
)

var ErrNoGames = errors.New("number of games must be positive")

type Config struct {
	P1      string
	P2      string
	Games   int
	Workers int
	Seed    int64
	Rules   *mb.Rules
	Logger  *log.Logger
}

// Outcome of one simulated game. WinnerID is -1 when the game failed.
type Outcome struct {
	Game     int
	WinnerID int
	Turns    int
	Shots    [2]int
	Err      error
}

type Summary struct {
	Games      int
	Wins       [2]int
	Failed     int
	TotalTurns int
	Outcomes   []Outcome
}

func (s Summary) AverageTurns() float64 {
	played := s.Games - s.Failed
	if played == 0 {
		return 0
	}
	return float64(s.TotalTurns) / float64(played)
}

// Recorder is called once per finished game, from the worker that played it.
type Recorder func(ctx context.Context, o Outcome) error

type task struct {
	game int
}

func (cfg *Config) validate() error {
	if cfg.Games < 1 {
		return ErrNoGames
	}
	if cfg.Workers < 1 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Workers > cfg.Games {
		cfg.Workers = cfg.Games
	}
	if cfg.Rules == nil {
		cfg.Rules = mb.StandardRules()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	for _, kind := range []string{cfg.P1, cfg.P2} {
		if kind == mp.KindHuman {
			return fmt.Errorf("simulator cannot play %q", kind)
		}
		if _, err := mp.New(kind, kind, cfg.Rules, mp.WithRandom(random.NewSeeded(0))); err != nil {
			return err
		}
	}
	return nil
}

// playOne seeds both players from the game index so that the outcome does
// not depend on which worker ran it.
func playOne(ctx context.Context, cfg Config, game int) Outcome {
	out := Outcome{Game: game, WinnerID: -1}
	base := (cfg.Seed + int64(game)) * 2

	p1, err := mp.New(cfg.P1, fmt.Sprintf("%s-1", cfg.P1), cfg.Rules, mp.WithRandom(random.NewSeeded(base)))
	if err != nil {
		out.Err = err
		return out
	}
	p2, err := mp.New(cfg.P2, fmt.Sprintf("%s-2", cfg.P2), cfg.Rules, mp.WithRandom(random.NewSeeded(base+1)))
	if err != nil {
		out.Err = err
		return out
	}

	m, err := match.New(cfg.Rules, p1, p2, match.WithLogger(cfg.Logger))
	if err != nil {
		out.Err = err
		return out
	}

	res, err := m.Play(ctx)
	if err != nil {
		out.Err = err
		return out
	}

	out.WinnerID = res.WinnerID
	out.Turns = res.Turns
	out.Shots = res.Shots
	return out
}

func worker(ctx context.Context, cfg Config, record Recorder, tasks <-chan task, outcomes chan<- Outcome, wg *sync.WaitGroup) {
	defer wg.Done()

	for t := range tasks {
		out := playOne(ctx, cfg, t.game)
		if out.Err == nil && record != nil {
			if err := record(ctx, out); err != nil {
				cfg.Logger.Error("failed to record game", "game", t.game, "err", err)
			}
		}
		outcomes <- out
	}
}

// Run plays cfg.Games independent matches on a pool of cfg.Workers.
func Run(ctx context.Context, cfg Config, record Recorder) (Summary, error) {
	if err := cfg.validate(); err != nil {
		return Summary{}, err
	}

	tasks := make(chan task, cfg.Games)
	outcomes := make(chan Outcome, cfg.Games)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go worker(ctx, cfg, record, tasks, outcomes, &wg)
	}

	for g := 0; g < cfg.Games; g++ {
		tasks <- task{game: g}
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	summary := Summary{Games: cfg.Games, Outcomes: make([]Outcome, cfg.Games)}
	for out := range outcomes {
		summary.Outcomes[out.Game] = out
		if out.Err != nil {
			summary.Failed++
			cfg.Logger.Warn("game failed", "game", out.Game, "err", out.Err)
			continue
		}
		summary.Wins[out.WinnerID]++
		summary.TotalTurns += out.Turns
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}
