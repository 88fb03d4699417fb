package simulate

import (
	"context"
	"errors"
	"sync"
	"testing"

	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
	mp "github.com/saeidalz13/battleship-bot/models/player"
)

func TestRunTotals(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 string
	}{
		{name: "good vs awful", p1: mp.KindGood, p2: mp.KindAwful},
		{name: "mediocre vs good", p1: mp.KindMediocre, p2: mp.KindGood},
		{name: "awful vs awful", p1: mp.KindAwful, p2: mp.KindAwful},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			summary, err := Run(context.Background(), Config{P1: test.p1, P2: test.p2, Games: 6, Workers: 3, Seed: 11}, nil)
			if err != nil {
				t.Fatal(err)
			}

			if summary.Failed != 0 {
				t.Fatalf("expected failed: 0\t got: %d", summary.Failed)
			}
			if summary.Wins[0]+summary.Wins[1] != 6 {
				t.Fatalf("expected wins to add up to: 6\t got: %d", summary.Wins[0]+summary.Wins[1])
			}
			for i, out := range summary.Outcomes {
				if out.Game != i {
					t.Fatalf("expected outcome for game: %d\t got: %d", i, out.Game)
				}
				if out.Turns < 1 {
					t.Fatalf("expected game %d to take turns", i)
				}
			}
			if summary.AverageTurns() <= 0 {
				t.Fatalf("expected positive average turns, got: %f", summary.AverageTurns())
			}
		})
	}
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	cfg := Config{P1: mp.KindGood, P2: mp.KindMediocre, Games: 8, Seed: 42}

	cfg.Workers = 1
	serial, err := Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	cfg.Workers = 4
	parallel, err := Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := range serial.Outcomes {
		s, p := serial.Outcomes[i], parallel.Outcomes[i]
		if s.WinnerID != p.WinnerID || s.Turns != p.Turns {
			t.Fatalf("game %d differs: serial %+v\t parallel %+v", i, s, p)
		}
	}
}

func TestRunRecorder(t *testing.T) {
	var (
		mu    sync.Mutex
		games = map[int]bool{}
	)
	record := func(_ context.Context, o Outcome) error {
		mu.Lock()
		defer mu.Unlock()
		games[o.Game] = true
		return nil
	}

	rules, err := mb.RulesForDifficulty(mb.GameDifficultyEasy)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Run(context.Background(), Config{P1: mp.KindGood, P2: mp.KindGood, Games: 5, Workers: 2, Rules: rules}, record); err != nil {
		t.Fatal(err)
	}
	if len(games) != 5 {
		t.Fatalf("expected recorded games: 5\t got: %d", len(games))
	}
}

func TestRunInvalidConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectedErr error
	}{
		{name: "no games", cfg: Config{P1: mp.KindGood, P2: mp.KindGood}, expectedErr: ErrNoGames},
		{name: "unknown kind", cfg: Config{P1: "genius", P2: mp.KindGood, Games: 1}, expectedErr: cerr.ErrUnknownPlayerKind},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Run(context.Background(), test.cfg, nil); !errors.Is(err, test.expectedErr) {
				t.Fatalf("expected err: %v\t got: %v", test.expectedErr, err)
			}
		})
	}

	if _, err := Run(context.Background(), Config{P1: mp.KindHuman, P2: mp.KindGood, Games: 1}, nil); err == nil {
		t.Fatal("expected human players to be rejected")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Run(ctx, Config{P1: mp.KindAwful, P2: mp.KindAwful, Games: 3, Workers: 1}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected err: %v\t got: %v", context.Canceled, err)
	}
	if summary.Failed != 3 {
		t.Fatalf("expected failed: 3\t got: %d", summary.Failed)
	}
}
