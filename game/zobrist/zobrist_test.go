package zobrist

import (
	"gamesearch/game"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableHash(t *testing.T) {
	table := NewTable(4)

	t.Run("empty board hashes by side to move", func(t *testing.T) {
		empty := make([]game.Player, 4)
		require.Equal(t, uint64(0), table.Hash(empty, game.Player1), "Empty board with player1 to move should hash to 0")
		require.NotEqual(t, uint64(0), table.Hash(empty, game.Player2), "Side to move should change the hash")
	})

	t.Run("occupancy changes the hash", func(t *testing.T) {
		a := []game.Player{game.Player1, game.NoPlayer, game.NoPlayer, game.NoPlayer}
		b := []game.Player{game.Player2, game.NoPlayer, game.NoPlayer, game.NoPlayer}
		require.NotEqual(t, table.Hash(a, game.Player2), table.Hash(b, game.Player2),
			"Different owners on the same square should hash differently")
		require.Equal(t, table.Square(0, game.Player1), table.Hash(a, game.Player1),
			"Single piece hash should equal its square key")
	})

	t.Run("empty square has no key", func(t *testing.T) {
		require.Equal(t, uint64(0), table.Square(2, game.NoPlayer))
	})
}
