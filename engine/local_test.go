package engine

import (
	"testing"

	"gamesearch/experiments/metrics"
	"gamesearch/game"
	"gamesearch/game/tictactoe"
	"gamesearch/searcher"

	"github.com/stretchr/testify/require"
)

// scripted plays a fixed list of cells and records every update it sees.
type scripted struct {
	cells   []int
	updates []game.Move
}

func (s *scripted) ChooseMove(game.State) (game.Move, int) {
	c := s.cells[0]
	s.cells = s.cells[1:]
	return tictactoe.Cell(c), 1
}

func (s *scripted) Name() string {
	return "scripted"
}

func (s *scripted) Update(move game.Move) {
	s.updates = append(s.updates, move)
}

func TestRun(t *testing.T) {
	t.Run("perfect play draws", func(t *testing.T) {
		agents := map[game.Player]searcher.Strategy{
			game.Player1: searcher.NewAlphaBeta(game.Player1, searcher.NoDepthLimit, searcher.WithMetrics(metrics.NewCollector())),
			game.Player2: searcher.NewAlphaBeta(game.Player2, searcher.NoDepthLimit, searcher.WithMetrics(metrics.NewCollector())),
		}

		result, err := New(tictactoe.New(), agents).Run()

		require.NoError(t, err)
		require.Equal(t, game.NoPlayer, result.Winner)
		require.Equal(t, 9, result.Game.TotalMoves)
		require.Len(t, result.Moves, 9)
		require.Equal(t, game.Player1, result.Moves[0].Player)
		require.Equal(t, game.Player2, result.Moves[1].Player)
		require.Equal(t, "AlphaBeta", result.Moves[0].Algorithm, "Reporter metrics should be attached")
		require.Positive(t, result.Moves[0].Iterations)
		require.False(t, result.Game.EndTime.Before(result.Game.StartTime))
	})

	t.Run("every agent sees every move", func(t *testing.T) {
		first := &scripted{cells: []int{0, 3, 6}}
		second := &scripted{cells: []int{1, 4}}
		e := New(tictactoe.New(), map[game.Player]searcher.Strategy{game.Player1: first, game.Player2: second})

		result, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, game.Player1, result.Winner)
		want := []game.Move{tictactoe.Cell(0), tictactoe.Cell(1), tictactoe.Cell(3), tictactoe.Cell(4), tictactoe.Cell(6)}
		require.Equal(t, want, first.updates)
		require.Equal(t, want, second.updates)
		require.Equal(t, "6", result.Moves[4].Move)
		require.True(t, e.State().IsOver())
	})

	t.Run("turn cap", func(t *testing.T) {
		first := &scripted{cells: []int{0, 3, 6}}
		second := &scripted{cells: []int{1, 4}}
		e := New(tictactoe.New(), map[game.Player]searcher.Strategy{game.Player1: first, game.Player2: second}, WithMaxTurns(3))

		result, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, game.NoPlayer, result.Winner)
		require.Equal(t, 3, result.Game.TotalMoves)
		require.False(t, e.State().IsOver())
	})
}

func TestRunErrors(t *testing.T) {
	t.Run("missing agent", func(t *testing.T) {
		e := New(tictactoe.New(), map[game.Player]searcher.Strategy{game.Player1: &scripted{cells: []int{0}}})

		_, err := e.Run()

		require.ErrorIs(t, err, ErrNoAgent)
	})

	t.Run("illegal move", func(t *testing.T) {
		first := &scripted{cells: []int{0, 4}}
		second := &scripted{cells: []int{0}}
		e := New(tictactoe.New(), map[game.Player]searcher.Strategy{game.Player1: first, game.Player2: second})

		result, err := e.Run()

		require.ErrorIs(t, err, ErrIllegalMove)
		require.Len(t, result.Moves, 1)
		require.Len(t, first.updates, 1, "Rejected moves should not be forwarded")
	})
}
