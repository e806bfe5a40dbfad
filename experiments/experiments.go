package experiments

import (
	"context"
	"errors"
	"fmt"

	"gamesearch/engine"
	"gamesearch/experiments/metrics"
	"gamesearch/game"
	"gamesearch/game/boop"
	"gamesearch/game/connect4"
	"gamesearch/game/tictactoe"
	"gamesearch/searcher"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Algorithm names accepted in agent configs.
const (
	Minimax    = "minimax"
	AlphaBeta  = "alphabeta"
	MCTS       = "mcts"
	MCTSSolver = "mcts-solver"
)

// Game names accepted by NewGame.
const (
	TicTacToe = "tictactoe"
	Connect4  = "connect4"
	Boop      = "boop"
)

// DefaultDepthLimit applies to minimax and alpha-beta agents whose config
// leaves depth_limit out.
const DefaultDepthLimit = 5

var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrUnknownGame      = errors.New("unknown game")
	ErrNoBudget         = errors.New("mcts agents need a time limit or iterations")
	ErrUnknownAgent     = errors.New("unknown agent")
)

var (
	Algorithms = []string{Minimax, AlphaBeta, MCTS, MCTSSolver}
	Games      = []string{TicTacToe, Connect4, Boop}
)

// Matchup pairs two agents by ID. Agent1 starts the odd-numbered games of
// the matchup and Agent2 the even-numbered ones.
type Matchup struct {
	Agent1 int `mapstructure:"agent1" yaml:"agent1"`
	Agent2 int `mapstructure:"agent2" yaml:"agent2"`
}

type Experiment struct {
	Name     string
	Game     string
	Games    int // per matchup
	Parallel int // games played at once
	MaxTurns int
	Agents   []metrics.AgentConfig
	Matchups []Matchup
	Metrics  *metrics.PrometheusMetrics // optional
}

type Results struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

func NewGame(name string) (game.State, error) {
	switch name {
	case TicTacToe:
		return tictactoe.New(), nil
	case Connect4:
		return connect4.New(), nil
	case Boop:
		return boop.New(), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownGame, name)
}

// NewStrategy builds the searcher an agent config describes. The depth limit
// is passed through as is: 0 only scores the root's children and
// searcher.NoDepthLimit searches to the end of the game.
func NewStrategy(config metrics.AgentConfig, player game.Player, collector metrics.Collector) (searcher.Strategy, error) {
	options := []searcher.Option{searcher.WithMetrics(collector)}
	if config.TimeLimit > 0 {
		options = append(options, searcher.WithTimeLimit(config.TimeLimit))
	}
	if config.Iterations > 0 {
		options = append(options, searcher.WithIterations(config.Iterations))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}
	if config.Seed != 0 {
		options = append(options, searcher.WithSeed(config.Seed))
	}

	switch config.Algorithm {
	case Minimax:
		return searcher.NewMinimax(player, config.DepthLimit, options...), nil
	case AlphaBeta:
		return searcher.NewAlphaBeta(player, config.DepthLimit, options...), nil
	case MCTS, MCTSSolver:
		if config.TimeLimit <= 0 && config.Iterations <= 0 {
			return nil, fmt.Errorf("agent %d: %w", config.ID, ErrNoBudget)
		}
		if config.Algorithm == MCTS {
			return searcher.NewMCTS(player, options...), nil
		}
		return searcher.NewSolver(player, options...), nil
	}
	return nil, fmt.Errorf("agent %d: %w %q", config.ID, ErrUnknownAlgorithm, config.Algorithm)
}

type job struct {
	id            int
	first, second metrics.AgentConfig // first plays as Player1
}

// Run plays every matchup of exp. Games run in parallel up to exp.Parallel,
// each search inside a game stays single-threaded.
func Run(ctx context.Context, exp Experiment) (Results, error) {
	agents := lo.KeyBy(exp.Agents, func(c metrics.AgentConfig) int { return c.ID })

	jobs := []job{}
	for _, matchup := range exp.Matchups {
		a1, ok1 := agents[matchup.Agent1]
		a2, ok2 := agents[matchup.Agent2]
		if !ok1 || !ok2 {
			return Results{}, fmt.Errorf("matchup %d vs %d: %w", matchup.Agent1, matchup.Agent2, ErrUnknownAgent)
		}
		for i := 0; i < exp.Games; i++ {
			j := job{id: len(jobs) + 1, first: a1, second: a2}
			if i%2 == 1 {
				j.first, j.second = a2, a1
			}
			jobs = append(jobs, j)
		}
	}

	log.Info().Msgf("starting %s experiment with %d games of %s...", exp.Name, len(jobs), exp.Game)

	records := make([]Results, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(exp.Parallel, 1))
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := runGame(exp, j)
			if err != nil {
				return fmt.Errorf("game %d: %w", j.id, err)
			}
			records[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Results{}, err
	}

	var results Results
	for _, r := range records {
		results.Games = append(results.Games, r.Games...)
		results.Moves = append(results.Moves, r.Moves...)
	}
	log.Info().Msgf("completed %s experiment", exp.Name)
	return results, nil
}

// runGame plays a single game between the two agents of j.
func runGame(exp Experiment, j job) (Results, error) {
	state, err := NewGame(exp.Game)
	if err != nil {
		return Results{}, err
	}

	strategies := map[game.Player]searcher.Strategy{}
	for player, config := range map[game.Player]metrics.AgentConfig{game.Player1: j.first, game.Player2: j.second} {
		if config.Seed != 0 {
			config.Seed += uint64(j.id)
		}
		collector := metrics.NewCollector()
		if exp.Metrics != nil {
			collector = exp.Metrics.Collector()
		}
		s, err := NewStrategy(config, player, collector)
		if err != nil {
			return Results{}, err
		}
		strategies[player] = s
	}

	log.Info().Msgf("starting game %d: agent %d (%s) vs agent %d (%s)...",
		j.id, j.first.ID, j.first.Algorithm, j.second.ID, j.second.Algorithm)
	result, err := engine.New(state, strategies, engine.WithMaxTurns(exp.MaxTurns)).Run()
	if err != nil {
		return Results{}, err
	}

	agentOf := func(p game.Player) int {
		switch p {
		case game.Player1:
			return j.first.ID
		case game.Player2:
			return j.second.ID
		}
		return 0
	}

	gm := result.Game
	gm.StartingAgent = j.first.ID
	gm.WinningAgent = agentOf(result.Winner)
	records := Results{
		Games: []metrics.GameRecord{{ID: j.id, Agent1: j.first.ID, Agent2: j.second.ID, GameMetric: gm}},
	}
	for _, mm := range result.Moves {
		records.Moves = append(records.Moves, metrics.MoveRecord{Game: j.id, Agent: agentOf(mm.Player), MoveMetric: mm})
	}
	log.Info().Msgf("completed game %d with winner: agent %d", j.id, gm.WinningAgent)
	return records, nil
}

// Store writes configs, records and a summary under root/name/<timestamp>
// and returns that directory.
func Store(root string, exp Experiment, results Results) (string, error) {
	writer, err := metrics.NewWriter(root, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(exp.Agents); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(results.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(results.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	summary := metrics.Summarize(exp.Name, exp.Agents, results.Games, results.Moves)
	if err := writer.WriteSummary(summary); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	log.Info().Msgf("stored %s results in %s", exp.Name, writer.Dir())
	return writer.Dir(), nil
}
