package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gamesearch/experiments/metrics"
	"gamesearch/game"
	"gamesearch/searcher"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	for _, name := range Games {
		state, err := NewGame(name)
		require.NoError(t, err, name)
		require.Equal(t, game.Player1, state.Player())
		require.NotEmpty(t, state.LegalMoves())
	}

	_, err := NewGame("chess")
	require.ErrorIs(t, err, ErrUnknownGame)
}

func TestNewStrategy(t *testing.T) {
	t.Run("known algorithms", func(t *testing.T) {
		configs := map[string]metrics.AgentConfig{
			"Minimax":     {ID: 1, Algorithm: Minimax, DepthLimit: 2},
			"AlphaBeta":   {ID: 2, Algorithm: AlphaBeta},
			"MCTS":        {ID: 3, Algorithm: MCTS, Iterations: 10},
			"MCTS-Solver": {ID: 4, Algorithm: MCTSSolver, TimeLimit: 1},
		}
		for name, config := range configs {
			s, err := NewStrategy(config, game.Player1, metrics.NewDummyCollector())
			require.NoError(t, err)
			require.Equal(t, name, s.Name())
		}
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		_, err := NewStrategy(metrics.AgentConfig{ID: 1, Algorithm: "expectimax"}, game.Player1, metrics.NewDummyCollector())
		require.ErrorIs(t, err, ErrUnknownAlgorithm)
	})

	t.Run("mcts without budget", func(t *testing.T) {
		_, err := NewStrategy(metrics.AgentConfig{ID: 1, Algorithm: MCTS}, game.Player1, metrics.NewDummyCollector())
		require.ErrorIs(t, err, ErrNoBudget)
	})

	t.Run("depth limit passes through", func(t *testing.T) {
		state, err := NewGame(TicTacToe)
		require.NoError(t, err)

		s, err := NewStrategy(metrics.AgentConfig{ID: 1, Algorithm: AlphaBeta}, game.Player1, metrics.NewDummyCollector())
		require.NoError(t, err)
		d := s.(*searcher.AlphaBeta).Search(state)
		require.Equal(t, 9, d.Calls, "Depth 0 should only score the root's children")

		s, err = NewStrategy(metrics.AgentConfig{ID: 1, Algorithm: AlphaBeta, DepthLimit: searcher.NoDepthLimit}, game.Player1, metrics.NewDummyCollector())
		require.NoError(t, err)
		d = s.(*searcher.AlphaBeta).Search(state)
		require.Equal(t, game.DrawScore, d.Score)
	})
}

func TestRun(t *testing.T) {
	exp := Experiment{
		Name:     "unit",
		Game:     TicTacToe,
		Games:    4,
		Parallel: 2,
		Agents: []metrics.AgentConfig{
			{ID: 1, Algorithm: AlphaBeta, DepthLimit: searcher.NoDepthLimit},
			{ID: 2, Algorithm: MCTS, Iterations: 200, Seed: 1},
		},
		Matchups: []Matchup{{Agent1: 1, Agent2: 2}},
		Metrics:  metrics.NewPrometheusMetrics(prometheus.NewRegistry()),
	}

	results, err := Run(context.Background(), exp)
	require.NoError(t, err)

	require.Len(t, results.Games, 4)
	for i, g := range results.Games {
		require.Equal(t, i+1, g.ID)
		require.Equal(t, g.Agent1, g.StartingAgent)
		require.NotEqual(t, 2, g.WinningAgent, "Perfect play should never lose")
		require.Positive(t, g.TotalMoves)
	}
	require.Equal(t, 1, results.Games[0].Agent1, "Agents should alternate starting")
	require.Equal(t, 2, results.Games[1].Agent1)

	for _, m := range results.Moves {
		g := results.Games[m.Game-1]
		if m.Player == game.Player1 {
			require.Equal(t, g.Agent1, m.Agent)
		} else {
			require.Equal(t, g.Agent2, m.Agent)
		}
	}

	dir, err := Store(t.TempDir(), exp, results)
	require.NoError(t, err)
	for _, file := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv", "summary.yaml"} {
		_, err := os.Stat(filepath.Join(dir, file))
		require.NoError(t, err, file)
	}
}

func TestRunErrors(t *testing.T) {
	t.Run("unknown agent in matchup", func(t *testing.T) {
		_, err := Run(context.Background(), Experiment{
			Game:     TicTacToe,
			Games:    1,
			Agents:   []metrics.AgentConfig{{ID: 1, Algorithm: AlphaBeta}},
			Matchups: []Matchup{{Agent1: 1, Agent2: 9}},
		})
		require.ErrorIs(t, err, ErrUnknownAgent)
	})

	t.Run("bad agent config", func(t *testing.T) {
		_, err := Run(context.Background(), Experiment{
			Game:     TicTacToe,
			Games:    1,
			Agents:   []metrics.AgentConfig{{ID: 1, Algorithm: "random"}},
			Matchups: []Matchup{{Agent1: 1, Agent2: 1}},
		})
		require.ErrorIs(t, err, ErrUnknownAlgorithm)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, Experiment{
			Game:     TicTacToe,
			Games:    2,
			Agents:   []metrics.AgentConfig{{ID: 1, Algorithm: AlphaBeta}},
			Matchups: []Matchup{{Agent1: 1, Agent2: 1}},
		})
		require.ErrorIs(t, err, context.Canceled)
	})
}
