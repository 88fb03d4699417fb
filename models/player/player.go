package player

import (
	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	"github.com/saeidalz13/battleship-bot/internal/random"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"

	"github.com/dolthub/swiss"
)

const (
	KindHuman    = "human"
	KindAwful    = "awful"
	KindMediocre = "mediocre"
	KindGood     = "good"
)

// Kinds lists every kind accepted by New.
var Kinds = []string{KindHuman, KindAwful, KindMediocre, KindGood}

// Player is one side of a match. The orchestrator asks it to place its
// fleet, then alternates RecommendAttack with the Record callbacks.
type Player interface {
	Name() string
	IsHuman() bool
	PlaceShips(g *mb.Grid) error
	RecommendAttack() (mb.Point, error)
	RecordAttackResult(p mb.Point, valid, hit, destroyed bool, shipId int)
	RecordAttackByOpponent(p mb.Point)
}

type settings struct {
	rnd    random.Random
	source AttackSource
	placer Placer
}

type Option func(*settings) error

func WithRandom(rnd random.Random) Option {
	return func(s *settings) error {
		s.rnd = rnd
		return nil
	}
}

// WithAttackSource only affects human players.
func WithAttackSource(src AttackSource) Option {
	return func(s *settings) error {
		s.source = src
		return nil
	}
}

// WithPlacer only affects human players.
func WithPlacer(placer Placer) Option {
	return func(s *settings) error {
		s.placer = placer
		return nil
	}
}

func New(kind, name string, rules *mb.Rules, opts ...Option) (Player, error) {
	s := &settings{}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.rnd == nil {
		s.rnd = random.NewTimeSeeded()
	}

	switch kind {
	case KindHuman:
		return NewHumanPlayer(name, rules, s.rnd, s.source, s.placer), nil
	case KindAwful:
		return NewAwfulPlayer(name, rules), nil
	case KindMediocre:
		return NewMediocrePlayer(name, rules, s.rnd), nil
	case KindGood:
		return NewGoodPlayer(name, rules, s.rnd), nil
	}

	return nil, cerr.ErrUnknownKind(kind)
}

// shotHistory is the ordered list of points a player fired at plus a set
// for constant time lookups.
type shotHistory struct {
	order []mb.Point
	seen  *swiss.Map[mb.Point, struct{}]
}

func newShotHistory(rules *mb.Rules) *shotHistory {
	n := rules.Rows() * rules.Cols()
	return &shotHistory{
		order: make([]mb.Point, 0, n),
		seen:  swiss.NewMap[mb.Point, struct{}](uint32(n)),
	}
}

func (sh *shotHistory) add(p mb.Point) {
	if sh.seen.Has(p) {
		return
	}
	sh.seen.Put(p, struct{}{})
	sh.order = append(sh.order, p)
}

func (sh *shotHistory) has(p mb.Point) bool {
	return sh.seen.Has(p)
}

func (sh *shotHistory) count() int {
	return sh.seen.Count()
}

// points returns a copy of the attacked points in firing order.
func (sh *shotHistory) points() []mb.Point {
	out := make([]mb.Point, len(sh.order))
	copy(out, sh.order)
	return out
}
