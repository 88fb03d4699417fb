package error

import (
	"errors"
	"fmt"
)

const (
	ConstErrAttackFailed    = "attack operation failed"
	ConstErrPlacementFailed = "ship placement failed"
)

// Grid errors. These are returned on hot paths (placement search,
// density counting) so they are plain sentinels without formatting.
var (
	ErrOutOfBounds        = errors.New("point is out of grid bound")
	ErrInvalidShipID      = errors.New("ship id is not defined by the rules")
	ErrInvalidDirection   = errors.New("direction must be horizontal or vertical")
	ErrCellOccupied       = errors.New("target cell is not empty")
	ErrShipAlreadyPlaced  = errors.New("ship is already on the grid")
	ErrShipNotAtLocation  = errors.New("ship does not occupy the given location")
	ErrAlreadyAttacked    = errors.New("position was already attacked")
	ErrCellBlocked        = errors.New("position is blocked by a placement mask")
	ErrUnknownShipSymbol  = errors.New("cell holds a symbol unknown to the rules")
	ErrPlacementExhausted = errors.New("no legal fleet layout found within the retry budget")
)

// Rules errors.
var (
	ErrInvalidRules        = errors.New("invalid rules")
	ErrBadShipLength       = errors.New("bad ship length")
	ErrBadShipSymbol       = errors.New("bad ship symbol")
	ErrDuplicateSymbol     = errors.New("ship symbol used for more than one ship")
	ErrBoardTooSmall       = errors.New("board is too small to fit all ships")
	ErrInvalidDifficulty   = errors.New("invalid game difficulty")
	ErrRulesWithoutShips   = errors.New("rules define no ships")
	ErrInvalidPlacement    = errors.New("invalid ship placement request")
	ErrIncompletePlacement = errors.New("not every ship was placed")
)

// Player and match errors.
var (
	ErrUnknownPlayerKind = errors.New("unknown player kind")
	ErrEndOfInput        = errors.New("attack source has no more input")
	ErrNoTargetsLeft     = errors.New("every position was already attacked")
	ErrTurnLimit         = errors.New("match exceeded the turn limit")
	ErrNilPlayer         = errors.New("player is nil")
	ErrGameNotStarted    = errors.New("game has not started yet")
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameAlreadyReady  = errors.New("fleet was already placed for this game")
)

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s", gameUuid)
}

func ErrGameIsNil(gameUuid string) error {
	return fmt.Errorf("game is nil, uuid: %s", gameUuid)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session is nil, id: %s", sessionId)
}

func ErrXorYOutOfGridBound(row, col int) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d", ErrOutOfBounds, row, col)
}

func ErrAttackPositionAlreadyFilled(row, col int) error {
	return fmt.Errorf("%w\trow: %d\tcol: %d", ErrAlreadyAttacked, row, col)
}

func ErrUnknownKind(kind string) error {
	return fmt.Errorf("%w: %q", ErrUnknownPlayerKind, kind)
}

func ErrPlacementFailed(playerName string, err error) error {
	return fmt.Errorf("%s for %s: %w", ConstErrPlacementFailed, playerName, err)
}

func ErrRules(detail string, err error) error {
	return fmt.Errorf("%w: %s", err, detail)
}

func ErrDifficulty(difficulty uint8) error {
	return fmt.Errorf("%w: %d", ErrInvalidDifficulty, difficulty)
}
