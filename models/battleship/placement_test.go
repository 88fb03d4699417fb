package battleship

import (
	"errors"
	"testing"

	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	"github.com/saeidalz13/battleship-bot/internal/random"
)

func TestPlaceFleet(t *testing.T) {
	tests := []struct {
		name     string
		rows     int
		cols     int
		ships    []ShipDef
		expected string
	}{
		{
			name: "zero slack columns",
			rows: 3, cols: 3,
			ships: []ShipDef{
				{Length: 3, Symbol: 'A', Name: "a"},
				{Length: 3, Symbol: 'B', Name: "b"},
				{Length: 3, Symbol: 'C', Name: "c"},
			},
			expected: "  012\n0 ABC\n1 ABC\n2 ABC",
		},
		{
			name: "backtracks first ship",
			rows: 2, cols: 3,
			ships: []ShipDef{
				{Length: 2, Symbol: 'A', Name: "a"},
				{Length: 3, Symbol: 'B', Name: "b"},
				{Length: 1, Symbol: 'C', Name: "c"},
			},
			expected: "  012\n0 AAC\n1 BBB",
		},
		{
			name: "zero slack rows",
			rows: 2, cols: 4,
			ships: []ShipDef{
				{Length: 4, Symbol: 'A', Name: "a"},
				{Length: 2, Symbol: 'B', Name: "b"},
				{Length: 2, Symbol: 'C', Name: "c"},
			},
			expected: "  0123\n0 AAAA\n1 BBCC",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := NewGrid(newTestRules(t, test.rows, test.cols, test.ships...))
			if !PlaceFleet(g) {
				t.Fatal("expected fleet to be placed")
			}
			if got := g.String(); got != test.expected {
				t.Fatalf("expected grid:\n%s\ngot:\n%s", test.expected, got)
			}
		})
	}
}

func TestPlaceFleetOneCellShort(t *testing.T) {
	rules := newTestRules(t, 2, 2,
		ShipDef{Length: 2, Symbol: 'A', Name: "a"},
		ShipDef{Length: 2, Symbol: 'B', Name: "b"},
	)
	g := NewGrid(rules)
	if _, err := g.Attack(NewPoint(0, 0)); err != nil {
		t.Fatal(err)
	}
	before := g.String()

	if PlaceFleet(g) {
		t.Fatal("expected placement to fail with one cell short")
	}
	if after := g.String(); after != before {
		t.Fatalf("expected grid unchanged:\n%s\ngot:\n%s", before, after)
	}

	err := PlaceRandomFleet(g, random.NewSeeded(3), PlacementAttempts)
	if !errors.Is(err, cerr.ErrPlacementExhausted) {
		t.Fatalf("expected err: %v\t got: %v", cerr.ErrPlacementExhausted, err)
	}
	if got := countCells(g, CellBlocked); got != 0 {
		t.Fatalf("expected blocked cells: 0\t got: %d", got)
	}
	if after := g.String(); after != before {
		t.Fatalf("expected grid unchanged:\n%s\ngot:\n%s", before, after)
	}
}

func TestPlaceRandomFleet(t *testing.T) {
	tests := []struct {
		name  string
		rules *Rules
		rnd   random.Random
	}{
		{
			name: "zero slack without blocking",
			rules: newTestRules(t, 2, 2,
				ShipDef{Length: 2, Symbol: 'A', Name: "a"},
				ShipDef{Length: 2, Symbol: 'B', Name: "b"},
			),
			rnd: random.NewSequence(1),
		},
		{name: "standard seeded", rules: StandardRules(), rnd: random.NewSeeded(11)},
		{name: "standard other seed", rules: StandardRules(), rnd: random.NewSeeded(12345)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := NewGrid(test.rules)
			if err := PlaceRandomFleet(g, test.rnd, PlacementAttempts); err != nil {
				t.Fatal(err)
			}
			if got := countCells(g, CellBlocked); got != 0 {
				t.Fatalf("expected blocked cells: 0\t got: %d", got)
			}
			for id := 0; id < test.rules.NShips(); id++ {
				if got := countCells(g, test.rules.ShipSymbol(id)); got != test.rules.ShipLength(id) {
					t.Fatalf("expected %s cells: %d\t got: %d", test.rules.ShipName(id), test.rules.ShipLength(id), got)
				}
			}
		})
	}
}

func TestPlaceRandomFleetNoAttempts(t *testing.T) {
	g := NewGrid(StandardRules())
	if err := PlaceRandomFleet(g, random.NewSeeded(1), 0); !errors.Is(err, cerr.ErrPlacementExhausted) {
		t.Fatalf("expected err: %v\t got: %v", cerr.ErrPlacementExhausted, err)
	}
}
