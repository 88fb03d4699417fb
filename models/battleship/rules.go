package battleship

import (
	"fmt"
	"os"

	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	"github.com/saeidalz13/battleship-bot/internal/random"

	"gopkg.in/yaml.v3"
)

const (
	MaxRows = 10
	MaxCols = 10
)

const (
	GameDifficultyEasy uint8 = iota
	GameDifficultyNormal
	GameDifficultyHard
)

const (
	GridSizeEasy   int = 5
	GridSizeNormal int = 6
	GridSizeHard   int = 7
)

// Rules holds the board dimensions and the ordered fleet. Ships are
// referenced by their index everywhere else.
type Rules struct {
	rows  int
	cols  int
	ships []ShipDef
}

func NewRules(rows, cols int) (*Rules, error) {
	if rows < 1 || rows > MaxRows || cols < 1 || cols > MaxCols {
		return nil, cerr.ErrRules(fmt.Sprintf("board %dx%d outside 1x1..%dx%d", rows, cols, MaxRows, MaxCols), cerr.ErrInvalidRules)
	}

	return &Rules{
		rows:  rows,
		cols:  cols,
		ships: make([]ShipDef, 0, 5),
	}, nil
}

func (r *Rules) AddShip(length int, symbol byte, name string) error {
	if err := validateShip(r.rows, r.cols, length, symbol); err != nil {
		return err
	}

	for _, s := range r.ships {
		if s.Symbol == symbol {
			return cerr.ErrRules(fmt.Sprintf("symbol %q already used by %s", symbol, s.Name), cerr.ErrDuplicateSymbol)
		}
	}

	if r.TotalShipArea()+length > r.rows*r.cols {
		return cerr.ErrRules(fmt.Sprintf("adding %s needs %d cells, board has %d", name, r.TotalShipArea()+length, r.rows*r.cols), cerr.ErrBoardTooSmall)
	}

	r.ships = append(r.ships, ShipDef{Length: length, Symbol: symbol, Name: name})
	return nil
}

func (r *Rules) Rows() int   { return r.rows }
func (r *Rules) Cols() int   { return r.cols }
func (r *Rules) NShips() int { return len(r.ships) }

func (r *Rules) Ship(shipId int) ShipDef {
	return r.ships[shipId]
}

func (r *Rules) ShipLength(shipId int) int {
	return r.ships[shipId].Length
}

func (r *Rules) ShipSymbol(shipId int) byte {
	return r.ships[shipId].Symbol
}

func (r *Rules) ShipName(shipId int) string {
	return r.ships[shipId].Name
}

func (r *Rules) IsValidShipID(shipId int) bool {
	return shipId >= 0 && shipId < len(r.ships)
}

// ShipIDBySymbol returns -1 when no ship uses the symbol.
func (r *Rules) ShipIDBySymbol(symbol byte) int {
	for i, s := range r.ships {
		if s.Symbol == symbol {
			return i
		}
	}
	return -1
}

func (r *Rules) IsValid(p Point) bool {
	return p.R >= 0 && p.R < r.rows && p.C >= 0 && p.C < r.cols
}

func (r *Rules) RandomPoint(rnd random.Random) Point {
	return Point{R: rnd.Intn(r.rows), C: rnd.Intn(r.cols)}
}

func (r *Rules) TotalShipArea() int {
	total := 0
	for _, s := range r.ships {
		total += s.Length
	}
	return total
}

func mustAddShips(r *Rules, ships ...ShipDef) *Rules {
	for _, s := range ships {
		if err := r.AddShip(s.Length, s.Symbol, s.Name); err != nil {
			panic(err)
		}
	}
	return r
}

// StandardRules is the classic 10x10 fleet of five ships.
func StandardRules() *Rules {
	r, err := NewRules(10, 10)
	if err != nil {
		panic(err)
	}

	return mustAddShips(r,
		ShipDef{Length: 5, Symbol: 'A', Name: "aircraft carrier"},
		ShipDef{Length: 4, Symbol: 'B', Name: "battleship"},
		ShipDef{Length: 3, Symbol: 'D', Name: "destroyer"},
		ShipDef{Length: 3, Symbol: 'S', Name: "submarine"},
		ShipDef{Length: 2, Symbol: 'P', Name: "patrol boat"},
	)
}

func IsDifficultyValid(difficulty uint8) bool {
	return difficulty == GameDifficultyEasy || difficulty == GameDifficultyNormal || difficulty == GameDifficultyHard
}

// RulesForDifficulty returns the server presets: a square board growing
// with difficulty and a three ship fleet.
func RulesForDifficulty(difficulty uint8) (*Rules, error) {
	var gsize int
	switch difficulty {
	case GameDifficultyEasy:
		gsize = GridSizeEasy
	case GameDifficultyNormal:
		gsize = GridSizeNormal
	case GameDifficultyHard:
		gsize = GridSizeHard
	default:
		return nil, cerr.ErrDifficulty(difficulty)
	}

	r, err := NewRules(gsize, gsize)
	if err != nil {
		return nil, err
	}

	return mustAddShips(r,
		ShipDef{Length: 2, Symbol: 'D', Name: "destroyer"},
		ShipDef{Length: 3, Symbol: 'C', Name: "cruiser"},
		ShipDef{Length: 4, Symbol: 'B', Name: "battleship"},
	), nil
}

type rulesFile struct {
	Rows  int `yaml:"rows"`
	Cols  int `yaml:"cols"`
	Ships []struct {
		Length int    `yaml:"length"`
		Symbol string `yaml:"symbol"`
		Name   string `yaml:"name"`
	} `yaml:"ships"`
}

func ParseRules(data []byte) (*Rules, error) {
	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}

	r, err := NewRules(rf.Rows, rf.Cols)
	if err != nil {
		return nil, err
	}
	if len(rf.Ships) == 0 {
		return nil, cerr.ErrRulesWithoutShips
	}

	for i, s := range rf.Ships {
		if len(s.Symbol) != 1 {
			return nil, cerr.ErrRules(fmt.Sprintf("ship %d symbol %q must be one character", i, s.Symbol), cerr.ErrBadShipSymbol)
		}
		if err := r.AddShip(s.Length, s.Symbol[0], s.Name); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}
