package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/saeidalz13/battleship-bot/db"
	"github.com/saeidalz13/battleship-bot/db/sqlc"
	"github.com/saeidalz13/battleship-bot/internal/config"
	"github.com/saeidalz13/battleship-bot/internal/logger"
	"github.com/saeidalz13/battleship-bot/internal/notify"
	"github.com/saeidalz13/battleship-bot/internal/random"
	"github.com/saeidalz13/battleship-bot/internal/simulate"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
	"github.com/saeidalz13/battleship-bot/models/match"
	mp "github.com/saeidalz13/battleship-bot/models/player"

	"github.com/charmbracelet/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	kinds := strings.Join(mp.Kinds, "|")
	p1 := flag.String("p1", mp.KindGood, "first player: "+kinds)
	p2 := flag.String("p2", mp.KindMediocre, "second player: "+kinds)
	games := flag.Int("games", 100, "number of games to play")
	workers := flag.Int("workers", runtime.NumCPU(), "number of workers")
	seed := flag.Int64("seed", time.Now().UnixNano(), "base seed; game i uses seed+i")
	rulesFile := flag.String("rules", cfg.RulesFile, "YAML rules file (standard fleet when empty)")
	record := flag.Bool("record", false, "store results in DATABASE_URL and publish them to REDIS_ADDR")
	flag.Parse()

	l := logger.Setup(os.Stderr, cfg.LogLevel, "simulate")

	rules := mb.StandardRules()
	if *rulesFile != "" {
		rules, err = mb.LoadRules(*rulesFile)
		if err != nil {
			log.Fatal("failed to load rules", "file", *rulesFile, "err", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *p1 == mp.KindHuman || *p2 == mp.KindHuman {
		if err := playInteractive(ctx, *p1, *p2, rules, *seed, l); err != nil {
			log.Fatal("game failed", "err", err)
		}
		return
	}

	var recorder simulate.Recorder
	if *record {
		recorder = newRecorder(ctx, cfg, *p1, *p2, rules)
	}

	log.Info("simulating", "p1", *p1, "p2", *p2, "games", *games, "workers", *workers, "seed", *seed)
	summary, err := simulate.Run(ctx, simulate.Config{
		P1:      *p1,
		P2:      *p2,
		Games:   *games,
		Workers: *workers,
		Seed:    *seed,
		Rules:   rules,
		Logger:  l,
	}, recorder)
	if err != nil && summary.Games == 0 {
		log.Fatal("simulation failed", "err", err)
	}

	played := summary.Games - summary.Failed
	fmt.Printf("%-10s %6s %8s\n", "player", "wins", "rate")
	for i, kind := range []string{*p1, *p2} {
		rate := 0.0
		if played > 0 {
			rate = float64(summary.Wins[i]) / float64(played) * 100
		}
		fmt.Printf("%-10s %6d %7.1f%%\n", fmt.Sprintf("%s-%d", kind, i+1), summary.Wins[i], rate)
	}
	fmt.Printf("games: %d  failed: %d  average turns: %.1f\n", summary.Games, summary.Failed, summary.AverageTurns())

	if err != nil {
		log.Warn("simulation interrupted", "err", err)
		os.Exit(1)
	}
}

func newRecorder(ctx context.Context, cfg config.Config, p1, p2 string, rules *mb.Rules) simulate.Recorder {
	if cfg.DatabaseUrl == "" {
		log.Fatal("-record needs DATABASE_URL")
	}

	psql := db.MustConnectToDb(cfg.DatabaseUrl, db.DefaultMigrationDir)
	dbManager := sqlc.NewDbManager(sqlc.New(psql))
	publisher := notify.New(ctx, cfg.RedisAddr, cfg.RedisPassword)

	names := [2]string{p1, p2}
	return func(ctx context.Context, o simulate.Outcome) error {
		id, err := dbManager.Matches.RecordMatch(ctx, sqlc.MatchSummary{
			StrategyOne: p1,
			StrategyTwo: p2,
			Winner:      names[o.WinnerID],
			Turns:       o.Turns,
			Rows:        rules.Rows(),
			Cols:        rules.Cols(),
		})
		if err != nil {
			return err
		}

		return publisher.Publish(ctx, notify.MatchFinished{
			MatchID:     id.String(),
			StrategyOne: p1,
			StrategyTwo: p2,
			Winner:      names[o.WinnerID],
			Turns:       o.Turns,
			FinishedAt:  time.Now().UTC(),
		})
	}
}

// playInteractive plays one game where the human side reads "row col"
// lines from stdin. The board the human fires at is printed after each of
// their shots.
func playInteractive(ctx context.Context, p1, p2 string, rules *mb.Rules, seed int64, l *log.Logger) error {
	kinds := [2]string{p1, p2}
	players := [2]mp.Player{}
	source := mp.NewReaderSource(os.Stdin)
	for i, kind := range kinds {
		p, err := mp.New(kind, fmt.Sprintf("%s-%d", kind, i+1), rules,
			mp.WithRandom(random.NewSeeded(seed+int64(i))),
			mp.WithAttackSource(source),
		)
		if err != nil {
			return err
		}
		players[i] = p
	}

	var m *match.Match
	observer := func(ev match.TurnEvent) {
		if !players[ev.Attacker].IsHuman() {
			fmt.Printf("%s fired at %s: hit=%t %s\n", ev.Name, ev.Point, ev.Result.Hit, ev.ShipName)
			return
		}
		if !ev.Valid {
			fmt.Printf("%s is not a valid target; turn lost\n", ev.Point)
		}
		_ = m.Grid(1-ev.Attacker).Display(os.Stdout, true)
	}

	m, err := match.New(rules, players[0], players[1], match.WithObserver(observer), match.WithLogger(l))
	if err != nil {
		return err
	}

	fmt.Printf("enter shots as \"row col\" on a %dx%d board\n", rules.Rows(), rules.Cols())
	res, err := m.Play(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s wins after %d turns\n", res.Winner.Name(), res.Turns)
	for i := range players {
		fmt.Printf("\n%s:\n", players[i].Name())
		_ = m.Grid(i).Display(os.Stdout, false)
	}
	return nil
}
