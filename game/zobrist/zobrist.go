// Package zobrist hashes board positions for the rule engines in game/.
// https://en.wikipedia.org/wiki/Zobrist_hashing
package zobrist

import (
	"gamesearch/game"

	"lukechampine.com/frand"
)

const bignum = 1<<63 - 2

// Table holds one random key per (square, player) pair plus a key for
// Player2 to move.
type Table struct {
	squares    [][2]uint64
	player2Key uint64
}

func NewTable(squares int) *Table {
	t := &Table{squares: make([][2]uint64, squares)}
	for i := range t.squares {
		t.squares[i][0] = frand.Uint64n(bignum) + 1
		t.squares[i][1] = frand.Uint64n(bignum) + 1
	}
	t.player2Key = frand.Uint64n(bignum) + 1
	return t
}

// Square returns the key of owner occupying square, 0 for an empty square.
func (t *Table) Square(square int, owner game.Player) uint64 {
	switch owner {
	case game.Player1:
		return t.squares[square][0]
	case game.Player2:
		return t.squares[square][1]
	}
	return 0
}

// Hash folds cells (row-major occupancy) and the side to move into a key.
func (t *Table) Hash(cells []game.Player, toMove game.Player) uint64 {
	key := uint64(0)
	for i, owner := range cells {
		key ^= t.Square(i, owner)
	}
	if toMove == game.Player2 {
		key ^= t.player2Key
	}
	return key
}
