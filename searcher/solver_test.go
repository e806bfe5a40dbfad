package searcher

import (
	"testing"
	"time"

	"gamesearch/experiments/metrics"
	"gamesearch/game"
	"gamesearch/game/tictactoe"

	"github.com/stretchr/testify/require"
)

func TestSolverProofs(t *testing.T) {
	t.Run("immediate win stops the search early", func(t *testing.T) {
		g := playAll(t, 0, 1, 3, 2)
		s := NewSolver(game.Player1, WithTimeLimit(10*time.Second), WithSeed(1), WithMetrics(metrics.NewCollector()))

		start := time.Now()
		move, iterations := s.ChooseMove(g)

		require.Equal(t, tictactoe.Cell(6), move)
		require.Less(t, time.Since(start), 5*time.Second, "Proven root should end the search")
		require.LessOrEqual(t, iterations, len(g.LegalMoves()))
		require.Equal(t, ProvenWin, s.root.outcome)
		require.Equal(t, "win", s.LastSearch().Outcome)
	})

	t.Run("proves a forced win", func(t *testing.T) {
		// Only the corner at 8 sets up two threats at once.
		g := playAll(t, 0, 1, 2, 6)
		s := NewSolver(game.Player1, WithIterations(20_000), WithSeed(1))

		move, iterations := s.ChooseMove(g)

		require.Equal(t, tictactoe.Cell(8), move)
		require.Equal(t, ProvenWin, s.root.outcome)
		require.Less(t, iterations, 20_000)
	})

	t.Run("proves a draw", func(t *testing.T) {
		g := playAll(t, 0, 1, 2, 3, 5, 8)
		s := NewSolver(game.Player1, WithIterations(1_000), WithSeed(1))

		move, _ := s.ChooseMove(g)

		require.NotNil(t, move)
		require.Equal(t, ProvenDraw, s.root.outcome)
		require.NotEqual(t, ProvenLoss, s.root.childFor(move).outcome)
	})

	t.Run("single move shortcut", func(t *testing.T) {
		g := playAll(t, 0, 1, 2, 4, 3, 5, 7, 6)
		s := NewSolver(game.Player1, WithIterations(100))

		move, iterations := s.ChooseMove(g)

		require.Equal(t, tictactoe.Cell(8), move)
		require.Equal(t, 1, iterations)
	})
}

func TestSolverBestChild(t *testing.T) {
	t.Run("proven win beats a better ratio", func(t *testing.T) {
		win := &node{move: mockMove(1), visits: 1, rewards: 1, outcome: ProvenWin}
		open := &node{move: mockMove(0), visits: 10, rewards: 10}
		s := &Solver{tree: tree{root: &node{maximizing: true, children: []*node{open, win}}}}

		require.Same(t, win, s.bestChild())
	})

	t.Run("unresolved beats a proven loss", func(t *testing.T) {
		loss := &node{visits: 10, rewards: 5, outcome: ProvenLoss}
		open := &node{visits: 10, rewards: -5}
		s := &Solver{tree: tree{root: &node{maximizing: true, children: []*node{loss, open}}}}

		require.Same(t, open, s.bestChild())
	})

	t.Run("least bad proof when all are resolved", func(t *testing.T) {
		loss := &node{visits: 1, outcome: ProvenLoss}
		draw := &node{visits: 1, outcome: ProvenDraw}
		s := &Solver{tree: tree{root: &node{maximizing: true, children: []*node{loss, draw}}}}

		require.Same(t, draw, s.bestChild())
	})
}

func TestSolverSelectChild(t *testing.T) {
	s := NewSolver(game.Player1, WithIterations(1))

	t.Run("skips resolved children", func(t *testing.T) {
		proven := &node{visits: 50, rewards: 50, outcome: ProvenWin}
		open := &node{visits: 50, rewards: -50}
		n := &node{visits: 100, maximizing: true, children: []*node{proven, open}}

		require.Same(t, open, s.selectChild(n))
	})

	t.Run("falls back to the best proof for the mover", func(t *testing.T) {
		win := &node{visits: 1, outcome: ProvenWin}
		draw := &node{visits: 1, outcome: ProvenDraw}
		n := &node{visits: 2, maximizing: false, children: []*node{win, draw}}

		require.Same(t, draw, s.selectChild(n), "Opponent should pick the owner's worst outcome")
	})
}

func TestSolverRootDrawHeuristic(t *testing.T) {
	g := playAll(t, 0, 1, 2, 3, 5, 8)
	s := NewSolver(game.Player1, WithIterations(1_000), WithSeed(1), WithRootDrawHeuristic())

	move, _ := s.ChooseMove(g)

	require.NotNil(t, move)
	require.Equal(t, ProvenDraw, s.root.outcome)
}

func TestSolverTreeReuse(t *testing.T) {
	// Player1 forks with 8 and wins whatever player2 replies.
	g := playAll(t, 0, 1, 2, 6)
	s := NewSolver(game.Player1, WithIterations(20_000), WithSeed(1), WithMetrics(metrics.NewCollector()))

	move, _ := s.ChooseMove(g)
	require.Equal(t, tictactoe.Cell(8), move)
	s.Update(move)
	require.True(t, g.Play(move))
	require.Equal(t, ProvenWin, s.root.outcome, "Fork should be proven before re-rooting")

	proven := s.root.children[0]
	s.Update(proven.move)
	require.True(t, g.Play(proven.move))
	require.Same(t, proven, s.root)

	next, iterations := s.ChooseMove(g)

	require.True(t, s.LastSearch().TreeReused)
	require.Equal(t, ProvenWin, s.root.outcome, "Proofs should survive re-rooting")
	require.Zero(t, iterations, "Proven root needs no further search")
	require.Equal(t, ProvenWin, s.root.childFor(next).outcome)
}
