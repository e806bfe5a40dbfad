package game_test

import (
	"testing"

	"gamesearch/game"
	"gamesearch/game/boop"
	"gamesearch/game/connect4"
	"gamesearch/game/tictactoe"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestTerminalScore(t *testing.T) {
	require.Equal(t, game.WinScore, game.TerminalScore(game.Player1, game.Player1))
	require.Equal(t, game.LossScore, game.TerminalScore(game.Player2, game.Player1))
	require.Equal(t, game.DrawScore, game.TerminalScore(game.NoPlayer, game.Player2))
}

func TestPlayerOpponent(t *testing.T) {
	require.Equal(t, game.Player2, game.Player1.Opponent())
	require.Equal(t, game.Player1, game.Player2.Opponent())
	require.Equal(t, game.NoPlayer, game.NoPlayer.Opponent())
	require.Equal(t, "player2", game.Player2.String())
}

// TestContract plays random games and checks the properties every searcher
// relies on: play/undo round trips and fixed terminal scores.
func TestContract(t *testing.T) {
	games := map[string]func() game.State{
		"tictactoe": func() game.State { return tictactoe.New() },
		"connect4":  func() game.State { return connect4.New() },
		"boop":      func() game.State { return boop.New() },
	}
	rng := rand.New(rand.NewSource(42))

	for name, newGame := range games {
		t.Run(name, func(t *testing.T) {
			for range 50 {
				state := newGame()
				for !state.IsOver() {
					moves := state.LegalMoves()
					require.NotEmpty(t, moves, "Unfinished games should have moves")
					move := moves[rng.Intn(len(moves))]

					before := state.Copy(true)
					require.True(t, state.Play(move))
					state.Undo()
					require.Equal(t, before, state, "Undo should restore the state after %v", move)

					require.True(t, state.Play(move))
				}

				require.Empty(t, state.LegalMoves())
				for _, p := range []game.Player{game.Player1, game.Player2} {
					score := state.Evaluate(p)
					require.Contains(t, []float64{game.WinScore, game.LossScore, game.DrawScore}, score)
					require.Equal(t, game.TerminalScore(state.Winner(), p), score)
				}
			}
		})
	}
}
