package player

import (
	"errors"
	"testing"

	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	"github.com/saeidalz13/battleship-bot/internal/random"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"
)

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestMediocreCrossCandidates(t *testing.T) {
	rules := mb.StandardRules()
	mp := NewMediocrePlayer("mediocre", rules, random.NewSeeded(5))

	pivot := mb.NewPoint(5, 5)
	mp.RecordAttackResult(pivot, true, true, false, 0)

	if got, ok := mp.Pivot(); !ok || got != pivot {
		t.Fatalf("expected pivot: %s\t got: %s (targeting %t)", pivot, got, ok)
	}

	// rows 1..9 on column 5 and columns 1..9 on row 5, minus the pivot
	const crossSize = 16
	for i := 0; i < crossSize; i++ {
		p, err := mp.RecommendAttack()
		if err != nil {
			t.Fatal(err)
		}

		onRow := p.R == pivot.R && abs(p.C-pivot.C) <= CrossRadius
		onCol := p.C == pivot.C && abs(p.R-pivot.R) <= CrossRadius
		if !onRow && !onCol {
			t.Fatalf("candidate %s is off the cross around %s", p, pivot)
		}
		if p == pivot {
			t.Fatalf("candidate repeats pivot %s", p)
		}
		for _, prev := range mp.History() {
			if prev == p {
				t.Fatalf("candidate %s was already attacked", p)
			}
		}
		mp.RecordAttackResult(p, true, false, false, -1)
	}

	if got := len(mp.crossCandidates()); got != 0 {
		t.Fatalf("expected exhausted cross, got %d candidates", got)
	}

	if _, err := mp.RecommendAttack(); err != nil {
		t.Fatal(err)
	}
	if _, ok := mp.Pivot(); ok {
		t.Fatal("expected fallback to search once cross is exhausted")
	}
}

func TestMediocreCrossClipsToBoard(t *testing.T) {
	rules := mb.StandardRules()
	mp := NewMediocrePlayer("mediocre", rules, random.NewSeeded(5))
	mp.RecordAttackResult(mb.NewPoint(0, 9), true, true, false, 0)

	candidates := mp.crossCandidates()
	if len(candidates) != 8 {
		t.Fatalf("expected candidates: 8\t got: %d", len(candidates))
	}
	for _, p := range candidates {
		if !rules.IsValid(p) {
			t.Fatalf("candidate %s out of bounds", p)
		}
	}
}

func TestMediocreKillEndsTargeting(t *testing.T) {
	mp := NewMediocrePlayer("mediocre", mb.StandardRules(), random.NewSeeded(9))

	mp.RecordAttackResult(mb.NewPoint(2, 2), true, true, false, 1)
	mp.RecordAttackResult(mb.NewPoint(2, 3), true, true, false, 1)
	if got, _ := mp.Pivot(); got != mb.NewPoint(2, 2) {
		t.Fatalf("expected pivot to stay on first hit, got: %s", got)
	}

	mp.RecordAttackResult(mb.NewPoint(2, 4), true, true, true, 1)
	if _, ok := mp.Pivot(); ok {
		t.Fatal("expected search mode after kill")
	}

	mp.RecordAttackResult(mb.NewPoint(7, 7), false, true, false, 1)
	if _, ok := mp.Pivot(); ok {
		t.Fatal("invalid shot must not start targeting")
	}
}

func TestMediocreNoTargetsLeft(t *testing.T) {
	rules := newTestRules(t, 1, 2, mb.ShipDef{Length: 1, Symbol: 'A', Name: "a"})
	mp := NewMediocrePlayer("mediocre", rules, random.NewSeeded(1))
	mp.RecordAttackResult(mb.NewPoint(0, 0), true, false, false, -1)

	p, err := mp.RecommendAttack()
	if err != nil {
		t.Fatal(err)
	}
	if p != mb.NewPoint(0, 1) {
		t.Fatalf("expected last free point (0,1)\t got: %s", p)
	}
	mp.RecordAttackResult(p, true, false, false, -1)

	if _, err := mp.RecommendAttack(); !errors.Is(err, cerr.ErrNoTargetsLeft) {
		t.Fatalf("expected err: %v\t got: %v", cerr.ErrNoTargetsLeft, err)
	}
}
