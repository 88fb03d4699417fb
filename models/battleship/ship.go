package battleship

import (
	"fmt"

	cerr "github.com/saeidalz13/battleship-bot/internal/error"
)

// Reserved cell markers. Ship symbols must not collide with any of them.
const (
	CellEmpty byte = '.'
	CellHit   byte = 'X'
	CellMiss  byte = 'o'

	// CellBlocked is never printable so it cannot be confused with a ship
	// symbol. It is rendered as BlockedSymbol.
	CellBlocked   byte = 0
	BlockedSymbol byte = '#'
)

type ShipDef struct {
	Length int
	Symbol byte
	Name   string
}

func (sd ShipDef) String() string {
	return fmt.Sprintf("%s(%c, %d)", sd.Name, sd.Symbol, sd.Length)
}

func isReservedSymbol(symbol byte) bool {
	switch symbol {
	case CellEmpty, CellHit, CellMiss, CellBlocked, BlockedSymbol:
		return true
	}
	return false
}

func validateShip(rows, cols, length int, symbol byte) error {
	if length < 1 {
		return cerr.ErrRules(fmt.Sprintf("length %d is less than 1", length), cerr.ErrBadShipLength)
	}
	if length > rows && length > cols {
		return cerr.ErrRules(fmt.Sprintf("length %d does not fit a %dx%d board", length, rows, cols), cerr.ErrBadShipLength)
	}
	if symbol <= ' ' || symbol > '~' {
		return cerr.ErrRules(fmt.Sprintf("symbol %q is not printable", symbol), cerr.ErrBadShipSymbol)
	}
	if isReservedSymbol(symbol) {
		return cerr.ErrRules(fmt.Sprintf("symbol %q is reserved", symbol), cerr.ErrBadShipSymbol)
	}
	return nil
}
