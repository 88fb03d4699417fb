package match

import (
	"math"
	"sync"

	cerr "github.com/saeidalz13/battleship-bot/internal/error"
	"github.com/saeidalz13/battleship-bot/internal/random"
	mb "github.com/saeidalz13/battleship-bot/models/battleship"

	"github.com/google/uuid"
)

type GameManager interface {
	CreateGame(difficulty uint8, strategy string) (*Game, error)
	FetchGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	CountGames() int
}

type BattleshipGameManager struct {
	games map[string]*Game
	mu    sync.RWMutex
	seeds random.Random
}

var _ GameManager = (*BattleshipGameManager)(nil)

// NewBattleshipGameManager seeds every game's random source from seeds.
func NewBattleshipGameManager(seeds random.Random) *BattleshipGameManager {
	if seeds == nil {
		seeds = random.NewTimeSeeded()
	}
	return &BattleshipGameManager{
		games: make(map[string]*Game, 10),
		seeds: random.NewLocked(seeds),
	}
}

func (bgm *BattleshipGameManager) CreateGame(difficulty uint8, strategy string) (*Game, error) {
	if !mb.IsDifficultyValid(difficulty) {
		return nil, cerr.ErrDifficulty(difficulty)
	}

	rnd := random.NewSeeded(int64(bgm.seeds.Intn(math.MaxInt32)))
	game, err := newGame(uuid.NewString()[:6], difficulty, strategy, rnd)
	if err != nil {
		return nil, err
	}

	bgm.mu.Lock()
	bgm.games[game.Uuid] = game
	bgm.mu.Unlock()

	return game, nil
}

func (bgm *BattleshipGameManager) FetchGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}
	if game == nil {
		return nil, cerr.ErrGameIsNil(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) CountGames() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}
